package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/jalmitra/groundwater-advisory/internal/adapter/embedding"
	"github.com/jalmitra/groundwater-advisory/internal/adapter/gemini"
	"github.com/jalmitra/groundwater-advisory/internal/adapter/httpapi"
	kafkaadapter "github.com/jalmitra/groundwater-advisory/internal/adapter/kafka"
	"github.com/jalmitra/groundwater-advisory/internal/adapter/tts"
	"github.com/jalmitra/groundwater-advisory/internal/advisory"
	"github.com/jalmitra/groundwater-advisory/internal/catalog"
	"github.com/jalmitra/groundwater-advisory/internal/config"
	"github.com/jalmitra/groundwater-advisory/internal/match"
	"github.com/jalmitra/groundwater-advisory/internal/observability"
)

func main() {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Error("failed to load catalog", "path", cfg.CatalogPath, "error", err)
		os.Exit(1)
	}
	metrics.CatalogSize.Set(float64(cat.Len()))
	logger.Info("catalog loaded", "path", cfg.CatalogPath, "blocks", cat.Len())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Matching strategies, semantic first. The semantic tier is
	// feature-flagged via EMBEDDING_URL / EMBEDDING_ENABLED; without it the
	// resolver runs fuzzy-only.
	var strategies []match.Strategy
	if cfg.EmbeddingEnabled {
		client := embedding.NewClient(cfg.EmbeddingURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel, cfg.EmbeddingTimeout, metrics, logger)
		embedder := embedding.NewCachedEmbedder(client, cfg.EmbeddingCacheSize, metrics)
		index := match.NewIndex()
		semantic := match.NewSemanticMatcher(cat, embedder, index, cfg.EmbeddingTimeout)
		strategies = append(strategies, semantic)

		// Build the document index in the background; until it is ready the
		// semantic tier reports unavailable and resolution degrades to fuzzy.
		go func() {
			if err := semantic.BuildIndex(ctx); err != nil {
				logger.Warn("semantic index build failed, serving fuzzy-only", "error", err)
				return
			}
			metrics.SemanticIndexReady.Set(1)
			logger.Info("semantic index built", "documents", index.Len())
		}()
	} else {
		logger.Info("semantic matching disabled")
	}
	strategies = append(strategies, match.NewFuzzyMatcher(cat))

	resolver := match.NewResolver(cat, strategies, logger, metrics)

	// Advisory generation (feature-flagged via GEMINI_API_KEY / ADVISORY_ENABLED).
	var llm advisory.LLMClient
	if cfg.AdvisoryEnabled {
		llm = gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.AdvisoryTimeout, logger)
		logger.Info("advisory generation enabled", "model", cfg.GeminiModel)
	} else {
		logger.Info("advisory generation disabled, using static fallbacks")
	}
	advisor := advisory.NewGenerator(llm, logger, metrics)

	// Text-to-speech (feature-flagged via TTS_ENABLED).
	var synthesizer httpapi.Synthesizer
	if cfg.TTSEnabled {
		store, err := tts.NewStore(cfg.AudioCacheDir, metrics)
		if err != nil {
			logger.Error("failed to create audio cache", "dir", cfg.AudioCacheDir, "error", err)
			os.Exit(1)
		}
		synthesizer = tts.NewSynthesizer(store, cfg.TTSTimeout, metrics, logger)
		logger.Info("text-to-speech enabled", "cache_dir", cfg.AudioCacheDir)
	} else {
		logger.Info("text-to-speech disabled")
	}

	// Audit event publishing (feature-flagged via KAFKA_ENABLED).
	var audit httpapi.AuditSink
	var auditWriter *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		auditWriter = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaAuditTopic, metrics, logger)
		audit = auditWriter
		logger.Info("audit publishing enabled", "topic", cfg.KafkaAuditTopic)
	} else {
		logger.Info("audit publishing disabled")
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, resolver, advisor, synthesizer, audit, cfg.DefaultLanguage, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if auditWriter != nil {
		if err := auditWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
