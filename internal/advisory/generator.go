package advisory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jalmitra/groundwater-advisory/internal/domain"
	"github.com/jalmitra/groundwater-advisory/internal/observability"
)

// LLMClient generates free text from a prompt. Implemented by the Gemini adapter.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Generator produces advisory insights for a matched block, degrading to the
// static per-language fallback whenever the LLM is disabled, unreachable, or
// returns something unparseable.
type Generator struct {
	client  LLMClient // nil when advisory generation is disabled
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewGenerator creates a Generator. A nil client disables LLM generation and
// makes every call return the static fallback.
func NewGenerator(client LLMClient, logger *slog.Logger, metrics *observability.Metrics) *Generator {
	return &Generator{client: client, logger: logger, metrics: metrics}
}

// Generate returns insights for the block in the requested language. It never
// fails: all error paths produce the static fallback.
func (g *Generator) Generate(ctx context.Context, b domain.Block, language string) Insights {
	if g.client == nil {
		g.metrics.AdvisoryRequests.WithLabelValues("fallback").Inc()
		return Fallback(b, language)
	}

	response, err := g.client.Generate(ctx, buildPrompt(b, language))
	if err != nil {
		g.logger.Warn("advisory generation failed, using fallback",
			"block_id", b.ID,
			"language", language,
			"error", err,
		)
		g.metrics.AdvisoryRequests.WithLabelValues("fallback").Inc()
		return Fallback(b, language)
	}

	insights, err := ParseInsights(response, language)
	if err != nil {
		g.logger.Warn("advisory response unparseable, using fallback",
			"block_id", b.ID,
			"language", language,
			"error", err,
		)
		g.metrics.AdvisoryRequests.WithLabelValues("fallback").Inc()
		return Fallback(b, language)
	}

	g.metrics.AdvisoryRequests.WithLabelValues("generated").Inc()
	return insights
}

// buildPrompt assembles the data context and instructions for the LLM.
func buildPrompt(b domain.Block, language string) string {
	lc := languageOrDefault(language)
	riskTranslated := lc.riskTranslations[b.RiskLevel]

	return fmt.Sprintf(`You are an agricultural water management expert helping farmers in India.
Analyze the water data below and provide insights in %s.

Water Data:
%s
Risk Level (translated): %s

Instructions:
1. Respond in %s only, using simple farmer-friendly language.
2. Be empathetic and practical; focus on water conservation and sustainable irrigation.
3. Provide specific, actionable recommendations for the %s risk level.

Required JSON response format:
{
    "farmerMessage": "2-3 line simple message about the current water situation and risk level",
    "action": "1-2 line specific, actionable water conservation and irrigation recommendation",
    "explanation": "2-3 line explanation of the water trends and concerns in simple terms"
}

The response must be pure %s without any English words or code.`,
		lc.name, b.Document(), riskTranslated, lc.name, b.RiskLevel, lc.name)
}
