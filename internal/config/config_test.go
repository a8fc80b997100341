package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey      = "gsk_test-key"
	testMapboxToken = "pk.test-token"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GROQ_API_KEY", testAPIKey)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)

	assert.Equal(t, testAPIKey, cfg.InferenceAPIKey)
	assert.Equal(t, defaultInferenceURL, cfg.InferenceURL)
	assert.Equal(t, defaultVisionModel, cfg.VisionModel)
	assert.Equal(t, defaultTextModel, cfg.TextModel)
	assert.Equal(t, 60*time.Second, cfg.InferenceTimeout)
	assert.Equal(t, 2, cfg.InferenceMaxRetries)

	assert.Equal(t, defaultWebhookURL, cfg.WebhookURL)
	assert.Equal(t, 10*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, "San Diego, California", cfg.AlertLocation)

	assert.False(t, cfg.MapboxEnabled)
	assert.Empty(t, cfg.MapboxToken)
	assert.Equal(t, 5*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 100, cfg.MapboxCacheSize)

	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "disaster-assessments", cfg.KafkaAssessmentTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("GROQ_API_KEY", testAPIKey)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("INFERENCE_BASE_URL", "http://localhost:11434/v1/chat/completions")
	t.Setenv("VISION_MODEL", "llava")
	t.Setenv("TEXT_MODEL", "llama3")
	t.Setenv("INFERENCE_TIMEOUT", "90s")
	t.Setenv("INFERENCE_MAX_RETRIES", "0")
	t.Setenv("WEBHOOK_URL", "https://hooks.example.test/alerts")
	t.Setenv("WEBHOOK_TIMEOUT", "3s")
	t.Setenv("ALERT_LOCATION", "Sacramento, California")
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_TIMEOUT", "2s")
	t.Setenv("MAPBOX_CACHE_SIZE", "16")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_ASSESSMENT_TOPIC", "assessments")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, int64(2048), cfg.MaxUploadBytes)
	assert.Equal(t, "http://localhost:11434/v1/chat/completions", cfg.InferenceURL)
	assert.Equal(t, "llava", cfg.VisionModel)
	assert.Equal(t, "llama3", cfg.TextModel)
	assert.Equal(t, 90*time.Second, cfg.InferenceTimeout)
	assert.Equal(t, 0, cfg.InferenceMaxRetries)
	assert.Equal(t, "https://hooks.example.test/alerts", cfg.WebhookURL)
	assert.Equal(t, 3*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, "Sacramento, California", cfg.AlertLocation)
	assert.True(t, cfg.MapboxEnabled)
	assert.Equal(t, testMapboxToken, cfg.MapboxToken)
	assert.Equal(t, 2*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 16, cfg.MapboxCacheSize)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "assessments", cfg.KafkaAssessmentTopic)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "  ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GROQ_API_KEY")
}

func TestLoad_EmptyWebhookDisablesSink(t *testing.T) {
	t.Setenv("GROQ_API_KEY", testAPIKey)
	t.Setenv("WEBHOOK_URL", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.WebhookURL)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := []struct {
		key   string
		value string
	}{
		{"SHUTDOWN_TIMEOUT", "not-a-duration"},
		{"SHUTDOWN_TIMEOUT", "-1s"},
		{"INFERENCE_TIMEOUT", "bad"},
		{"INFERENCE_TIMEOUT", "0s"},
		{"WEBHOOK_TIMEOUT", "-5s"},
		{"MAPBOX_TIMEOUT", "bad"},
		{"INFERENCE_MAX_RETRIES", "-1"},
		{"INFERENCE_MAX_RETRIES", "many"},
		{"MAX_UPLOAD_BYTES", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			t.Setenv("GROQ_API_KEY", testAPIKey)
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.key)
		})
	}
}

func TestLoad_MapboxEnabledWithoutToken(t *testing.T) {
	t.Setenv("GROQ_API_KEY", testAPIKey)
	t.Setenv("MAPBOX_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TOKEN")
}

func TestLoad_MapboxExplicitlyDisabled(t *testing.T) {
	t.Setenv("GROQ_API_KEY", testAPIKey)
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.MapboxEnabled)
}
