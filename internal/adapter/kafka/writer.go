// Package kafka publishes completed assessments to a Kafka topic so
// downstream consumers (dashboards, dispatch tooling) can follow alerts.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/disaster-response-service/internal/config"
	"github.com/couchcryptid/disaster-response-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// SinkName identifies this sink in deliveries and metrics.
const SinkName = "kafka"

// messageWriter is the subset of *kafkago.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer produces assessment events to a Kafka topic.
// It implements pipeline.Notifier.
type Writer struct {
	writer  messageWriter
	brokers []string
	topic   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewWriter creates a Kafka producer for the configured assessment topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaAssessmentTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return &Writer{
		writer:  w,
		brokers: cfg.KafkaBrokers,
		topic:   cfg.KafkaAssessmentTopic,
		timeout: 10 * time.Second,
		logger:  logger,
	}
}

// Name returns the sink name.
func (w *Writer) Name() string { return SinkName }

// Notify publishes the notification as an assessment event keyed by the
// assessment ID. Failures are reported in the Delivery.
func (w *Writer) Notify(ctx context.Context, n domain.Notification) domain.Delivery {
	msg, err := serializeToMessage(n)
	if err != nil {
		return domain.Delivery{Sink: SinkName, Status: domain.DeliveryFailed, Error: err.Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return domain.Delivery{Sink: SinkName, Status: domain.DeliveryFailed, Error: fmt.Sprintf("publish to %s: %v", w.topic, err)}
	}
	w.logger.Debug("assessment event published", "topic", w.topic, "assessment_id", n.AssessmentID)
	return domain.Delivery{Sink: SinkName, Status: domain.DeliveryDelivered}
}

// CheckReadiness dials the brokers until one answers.
func (w *Writer) CheckReadiness(ctx context.Context) error {
	var errs []error
	for _, broker := range w.brokers {
		conn, err := kafkago.DialContext(ctx, "tcp", broker)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		_ = conn.Close()
		return nil
	}
	if len(errs) == 0 {
		return errors.New("no kafka brokers configured")
	}
	return fmt.Errorf("no kafka broker reachable: %w", errors.Join(errs...))
}

// Close flushes pending messages and releases the producer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

// assessmentEvent is the message value. The email body is left out; it is
// only meaningful to the webhook.
type assessmentEvent struct {
	AssessmentID string    `json:"assessment_id"`
	CrisisType   string    `json:"crisis_type"`
	Severity     string    `json:"severity"`
	Location     string    `json:"location"`
	ActionPlan   string    `json:"action_plan"`
	Timestamp    time.Time `json:"timestamp"`
}

// serializeToMessage marshals a notification into a Kafka message.
func serializeToMessage(n domain.Notification) (kafkago.Message, error) {
	data, err := json.Marshal(assessmentEvent{
		AssessmentID: n.AssessmentID,
		CrisisType:   n.CrisisType,
		Severity:     n.Severity,
		Location:     n.Location,
		ActionPlan:   n.ActionPlan,
		Timestamp:    n.Timestamp,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize assessment event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(n.AssessmentID),
		Value: data,
		Time:  n.Timestamp,
		Headers: []kafkago.Header{
			{Key: "crisis_type", Value: []byte(n.CrisisType)},
			{Key: "severity", Value: []byte(n.Severity)},
			{Key: "timestamp", Value: []byte(n.Timestamp.Format(time.RFC3339))},
		},
	}, nil
}
