package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

const (
	defaultInferenceURL = "https://api.groq.com/openai/v1/chat/completions"
	defaultVisionModel  = "meta-llama/llama-4-maverick-17b-128e-instruct"
	defaultTextModel    = "openai/gpt-oss-120b"
	defaultWebhookURL   = "https://shreyaan.app.n8n.cloud/webhook/bb9073ab-16f5-4e52-9fa5-415a77a3fb62"
	defaultLocation     = "San Diego, California"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64

	// Inference service configuration.
	InferenceAPIKey     string
	InferenceURL        string
	VisionModel         string
	TextModel           string
	InferenceTimeout    time.Duration
	InferenceMaxRetries int

	// Notification configuration.
	WebhookURL     string
	WebhookTimeout time.Duration
	AlertLocation  string

	// Mapbox geocoding of the alert location.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Kafka assessment event stream.
	KafkaEnabled         bool
	KafkaBrokers         []string
	KafkaAssessmentTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	inferenceTimeout, err := parsePositiveDuration("INFERENCE_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}
	webhookTimeout, err := parsePositiveDuration("WEBHOOK_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	maxRetries, err := strconv.Atoi(sharedcfg.EnvOrDefault("INFERENCE_MAX_RETRIES", "2"))
	if err != nil || maxRetries < 0 || maxRetries > 10 {
		return nil, errors.New("invalid INFERENCE_MAX_RETRIES: must be an integer between 0 and 10")
	}

	maxUpload, err := strconv.ParseInt(sharedcfg.EnvOrDefault("MAX_UPLOAD_BYTES", "10485760"), 10, 64)
	if err != nil || maxUpload <= 0 {
		return nil, errors.New("invalid MAX_UPLOAD_BYTES")
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		MaxUploadBytes:  maxUpload,

		InferenceAPIKey:     strings.TrimSpace(os.Getenv("GROQ_API_KEY")),
		InferenceURL:        sharedcfg.EnvOrDefault("INFERENCE_BASE_URL", defaultInferenceURL),
		VisionModel:         sharedcfg.EnvOrDefault("VISION_MODEL", defaultVisionModel),
		TextModel:           sharedcfg.EnvOrDefault("TEXT_MODEL", defaultTextModel),
		InferenceTimeout:    inferenceTimeout,
		InferenceMaxRetries: maxRetries,

		WebhookURL:     strings.TrimSpace(envOrDefaultAllowEmpty("WEBHOOK_URL", defaultWebhookURL)),
		WebhookTimeout: webhookTimeout,
		AlertLocation:  sharedcfg.EnvOrDefault("ALERT_LOCATION", defaultLocation),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),

		KafkaEnabled:         os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:         sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaAssessmentTopic: sharedcfg.EnvOrDefault("KAFKA_ASSESSMENT_TOPIC", "disaster-assessments"),
	}

	if cfg.InferenceAPIKey == "" {
		return nil, errors.New("GROQ_API_KEY is required")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaAssessmentTopic == "" {
		return nil, errors.New("KAFKA_ASSESSMENT_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}

// envOrDefaultAllowEmpty distinguishes an unset variable from one set to ""
// so WEBHOOK_URL= disables the webhook sink.
func envOrDefaultAllowEmpty(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 100
}
