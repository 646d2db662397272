package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	CatalogPath     string
	DefaultLanguage string

	// Embedding backend configuration (semantic matching).
	EmbeddingURL       string
	EmbeddingAPIKey    string
	EmbeddingModel     string
	EmbeddingEnabled   bool
	EmbeddingTimeout   time.Duration
	EmbeddingCacheSize int

	// Advisory LLM configuration.
	GeminiAPIKey    string
	GeminiModel     string
	AdvisoryEnabled bool
	AdvisoryTimeout time.Duration

	// Text-to-speech configuration.
	TTSEnabled    bool
	TTSTimeout    time.Duration
	AudioCacheDir string

	// Kafka audit event configuration.
	KafkaEnabled    bool
	KafkaBrokers    []string
	KafkaAuditTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	embeddingTimeout, err := parseDuration("EMBEDDING_TIMEOUT", "8s")
	if err != nil {
		return nil, err
	}
	advisoryTimeout, err := parseDuration("ADVISORY_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	ttsTimeout, err := parseDuration("TTS_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	embeddingURL := os.Getenv("EMBEDDING_URL")
	embeddingEnabled := embeddingURL != ""
	if v := os.Getenv("EMBEDDING_ENABLED"); v != "" {
		embeddingEnabled = v == "true"
	}

	geminiKey := os.Getenv("GEMINI_API_KEY")
	advisoryEnabled := geminiKey != ""
	if v := os.Getenv("ADVISORY_ENABLED"); v != "" {
		advisoryEnabled = v == "true"
	}

	kafkaEnabled := os.Getenv("KAFKA_ENABLED") == "true"

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CatalogPath:     envOrDefault("CATALOG_PATH", "data/sample_water_data.json"),
		DefaultLanguage: envOrDefault("DEFAULT_LANGUAGE", "hi"),

		EmbeddingURL:       embeddingURL,
		EmbeddingAPIKey:    os.Getenv("EMBEDDING_API_KEY"),
		EmbeddingModel:     envOrDefault("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingEnabled:   embeddingEnabled,
		EmbeddingTimeout:   embeddingTimeout,
		EmbeddingCacheSize: envIntOrDefault("EMBEDDING_CACHE_SIZE", 1000),

		GeminiAPIKey:    geminiKey,
		GeminiModel:     envOrDefault("GEMINI_MODEL", "gemini-pro"),
		AdvisoryEnabled: advisoryEnabled,
		AdvisoryTimeout: advisoryTimeout,

		TTSEnabled:    os.Getenv("TTS_ENABLED") != "false",
		TTSTimeout:    ttsTimeout,
		AudioCacheDir: envOrDefault("AUDIO_CACHE_DIR", "audio_cache"),

		KafkaEnabled:    kafkaEnabled,
		KafkaBrokers:    parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaAuditTopic: envOrDefault("KAFKA_AUDIT_TOPIC", "groundwater-query-audit"),
	}

	if cfg.CatalogPath == "" {
		return nil, errors.New("CATALOG_PATH is required")
	}
	if cfg.EmbeddingEnabled && cfg.EmbeddingURL == "" {
		return nil, errors.New("EMBEDDING_ENABLED is true but EMBEDDING_URL is not set")
	}
	if cfg.AdvisoryEnabled && cfg.GeminiAPIKey == "" {
		return nil, errors.New("ADVISORY_ENABLED is true but GEMINI_API_KEY is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOrDefault(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
