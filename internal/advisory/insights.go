// Package advisory turns a matched groundwater block into a short
// farmer-facing message in the requested language.
//
// Generation is best-effort: the LLM call can fail, return malformed JSON, or
// be disabled entirely, and every one of those paths degrades to a static
// per-language fallback template. No error ever leaves this package.
package advisory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jalmitra/groundwater-advisory/internal/domain"
)

// Insights is the structured advisory shown (and read aloud) to farmers.
type Insights struct {
	FarmerMessage string `json:"farmerMessage"`
	Action        string `json:"action"`
	Explanation   string `json:"explanation"`
}

// languageConfig carries everything language-specific: the display name used
// in prompts, risk-level translations, keyword hints for unstructured text
// extraction, and the static fallback builder.
type languageConfig struct {
	name             string
	riskTranslations map[string]string
	messageKeywords  []string
	actionKeywords   []string
	explainKeywords  []string
	fallback         func(b domain.Block) Insights
}

var languages = map[string]languageConfig{
	"hi": {
		name: "Hindi",
		riskTranslations: map[string]string{
			domain.RiskGreen:  "हरा",
			domain.RiskYellow: "पीला",
			domain.RiskRed:    "लाल",
		},
		messageKeywords: []string{"farmer", "message", "संदेश"},
		actionKeywords:  []string{"action", "recommendation", "कार्य"},
		explainKeywords: []string{"explanation", "why", "व्याख्या"},
		fallback: func(b domain.Block) Insights {
			return Insights{
				FarmerMessage: fmt.Sprintf("आपके क्षेत्र में जल स्तर %s जोखिम स्तर पर है। जल संरक्षण पर ध्यान दें।", b.RiskLevel),
				Action:        "ड्रिप सिंचाई का उपयोग करें और वर्षा जल संचयन करें।",
				Explanation:   fmt.Sprintf("जल स्तर %.1f मीटर गहराई पर है। वर्तमान में %.1f%% निष्कर्षण दर है।", b.DepthToWater, b.StageOfExtraction),
			}
		},
	},
	"pa": {
		name: "Punjabi",
		riskTranslations: map[string]string{
			domain.RiskGreen:  "ਹਰਾ",
			domain.RiskYellow: "ਪੀਲਾ",
			domain.RiskRed:    "ਲਾਲ",
		},
		messageKeywords: []string{"farmer", "message", "ਸੰਦੇਸ਼"},
		actionKeywords:  []string{"action", "recommendation", "ਕਾਰਵਾਈ"},
		explainKeywords: []string{"explanation", "why", "ਸਪਸ਼ਟੀਕਰਨ"},
		fallback: func(b domain.Block) Insights {
			return Insights{
				FarmerMessage: fmt.Sprintf("ਤੁਹਾਡੇ ਖੇਤਰ ਵਿੱਚ ਪਾਣੀ ਦਾ ਪੱਧਰ %s ਖਤਰੇ ਦੇ ਪੱਧਰ 'ਤੇ ਹੈ। ਪਾਣੀ ਦੀ ਬਚਤ 'ਤੇ ਧਿਆਨ ਦਿਓ।", b.RiskLevel),
				Action:        "ਡ੍ਰਿਪ ਸਿੰਚਾਈ ਦੀ ਵਰਤੋਂ ਕਰੋ ਅਤੇ ਬਾਰਿਸ਼ ਦੇ ਪਾਣੀ ਨੂੰ ਜਮ੍ਹਾ ਕਰੋ।",
				Explanation:   fmt.Sprintf("ਪਾਣੀ ਦਾ ਪੱਧਰ %.1f ਮੀਟਰ ਡੂੰਘਾਈ 'ਤੇ ਹੈ। ਵਰਤਮਾਨ ਵਿੱਚ %.1f%% ਨਿਸ਼ਕਰਸ਼ਣ ਦਰ ਹੈ।", b.DepthToWater, b.StageOfExtraction),
			}
		},
	},
}

// languageOrDefault resolves a language code, falling back to Hindi.
func languageOrDefault(code string) languageConfig {
	if lc, ok := languages[code]; ok {
		return lc
	}
	return languages["hi"]
}

// Fallback returns the static advisory for the block in the given language.
func Fallback(b domain.Block, language string) Insights {
	return languageOrDefault(language).fallback(b)
}

// ParseInsights extracts structured insights from an LLM response. It strips
// markdown code fences, tries a strict JSON decode, and as a last resort
// scans the text for keyword-labelled sections. Returns an error only when
// nothing usable can be extracted.
func ParseInsights(text, language string) (Insights, error) {
	cleaned := stripCodeFences(text)

	var in Insights
	if err := json.Unmarshal([]byte(cleaned), &in); err == nil {
		if in.FarmerMessage != "" && in.Action != "" && in.Explanation != "" {
			return in, nil
		}
	}

	in = extractFromText(text, languageOrDefault(language))
	if in.FarmerMessage == "" || in.Action == "" || in.Explanation == "" {
		return Insights{}, fmt.Errorf("could not extract insights from response")
	}
	return in, nil
}

// stripCodeFences unwraps ```json ... ``` (or bare ```) blocks.
func stripCodeFences(text string) string {
	if i := strings.Index(text, "```json"); i >= 0 {
		rest := text[i+len("```json"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			return strings.TrimSpace(rest[:j])
		}
		return strings.TrimSpace(rest)
	}
	if i := strings.Index(text, "```"); i >= 0 {
		rest := text[i+3:]
		if j := strings.Index(rest, "```"); j >= 0 {
			return strings.TrimSpace(rest[:j])
		}
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(text)
}

// extractFromText salvages insights from an unstructured response by scanning
// for keyword-labelled lines and accumulating continuation lines into the
// current section.
func extractFromText(text string, lc languageConfig) Insights {
	var in Insights
	section := ""

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		switch {
		case containsAny(lower, lc.messageKeywords):
			section = "message"
			in.FarmerMessage = afterColon(line)
		case containsAny(lower, lc.actionKeywords):
			section = "action"
			in.Action = afterColon(line)
		case containsAny(lower, lc.explainKeywords):
			section = "explanation"
			in.Explanation = afterColon(line)
		default:
			switch section {
			case "message":
				in.FarmerMessage = strings.TrimSpace(in.FarmerMessage + " " + line)
			case "action":
				in.Action = strings.TrimSpace(in.Action + " " + line)
			case "explanation":
				in.Explanation = strings.TrimSpace(in.Explanation + " " + line)
			}
		}
	}

	in.FarmerMessage = strings.TrimSpace(in.FarmerMessage)
	in.Action = strings.TrimSpace(in.Action)
	in.Explanation = strings.TrimSpace(in.Explanation)
	return in
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func afterColon(line string) string {
	if _, after, found := strings.Cut(line, ":"); found {
		return strings.TrimSpace(after)
	}
	return line
}
