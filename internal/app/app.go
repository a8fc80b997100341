// Package app wires configuration into a ready-to-run pipeline. Both the
// service binary and the CLI build their pipeline here.
package app

import (
	"errors"
	"log/slog"

	"github.com/couchcryptid/disaster-response-service/internal/adapter/inference"
	kafkaadapter "github.com/couchcryptid/disaster-response-service/internal/adapter/kafka"
	"github.com/couchcryptid/disaster-response-service/internal/adapter/mapbox"
	"github.com/couchcryptid/disaster-response-service/internal/adapter/webhook"
	"github.com/couchcryptid/disaster-response-service/internal/config"
	"github.com/couchcryptid/disaster-response-service/internal/observability"
	"github.com/couchcryptid/disaster-response-service/internal/pipeline"
)

// App is a wired pipeline plus the resources that must be released with it.
type App struct {
	Pipeline *pipeline.Pipeline
	closers  []func() error
}

// Build constructs the pipeline and its sinks from cfg.
func Build(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *App {
	vision := inference.NewClient(inference.Config{
		APIKey:     cfg.InferenceAPIKey,
		URL:        cfg.InferenceURL,
		Model:      cfg.VisionModel,
		Kind:       inference.KindVision,
		Timeout:    cfg.InferenceTimeout,
		MaxRetries: cfg.InferenceMaxRetries,
	}, metrics, logger)
	text := inference.NewClient(inference.Config{
		APIKey:     cfg.InferenceAPIKey,
		URL:        cfg.InferenceURL,
		Model:      cfg.TextModel,
		Kind:       inference.KindText,
		Timeout:    cfg.InferenceTimeout,
		MaxRetries: cfg.InferenceMaxRetries,
	}, metrics, logger, inference.WithTemperature(0))

	a := &App{}
	opts := pipeline.Options{Location: cfg.AlertLocation}

	// Geocoding is feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN.
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, observability.Component(logger, "mapbox"))
		opts.Geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		metrics.GeocodeEnabled.Set(0)
		logger.Info("mapbox geocoding disabled")
	}

	opts.Notifiers = append(opts.Notifiers, webhook.NewNotifier(cfg.WebhookURL, cfg.WebhookTimeout))
	if cfg.WebhookURL == "" {
		logger.Warn("WEBHOOK_URL is empty, webhook notifications disabled")
	}

	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, observability.Component(logger, "kafka"))
		opts.Notifiers = append(opts.Notifiers, writer)
		a.closers = append(a.closers, writer.Close)
		logger.Info("kafka assessment events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaAssessmentTopic)
	}

	a.Pipeline = pipeline.New(vision, text, opts, observability.Component(logger, "pipeline"), metrics)
	return a
}

// Close releases sink resources.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
