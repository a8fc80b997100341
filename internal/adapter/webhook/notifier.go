// Package webhook posts alert notifications as JSON to an HTTP endpoint
// (an n8n workflow in the default deployment).
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/disaster-response-service/internal/domain"
)

const (
	// SinkName identifies this sink in deliveries and metrics.
	SinkName = "webhook"

	userAgent      = "disaster-response/1.0"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 2048
)

// Notifier posts notifications to a webhook URL. An empty URL turns every
// call into a skipped delivery.
type Notifier struct {
	url    string
	client *http.Client
}

// NewNotifier creates a webhook sink. A non-positive timeout falls back to 10s.
func NewNotifier(url string, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Notifier{
		url:    strings.TrimSpace(url),
		client: &http.Client{Timeout: timeout},
	}
}

// Name returns the sink name.
func (n *Notifier) Name() string { return SinkName }

// Notify posts the notification. It never returns an error: network
// failures, timeouts and non-2xx answers come back as a failed Delivery.
func (n *Notifier) Notify(ctx context.Context, note domain.Notification) domain.Delivery {
	if n.url == "" {
		return domain.Delivery{Sink: SinkName, Status: domain.DeliverySkipped}
	}

	status, err := n.post(ctx, note)
	if err != nil {
		return domain.Delivery{Sink: SinkName, Status: domain.DeliveryFailed, StatusCode: status, Error: err.Error()}
	}
	return domain.Delivery{Sink: SinkName, Status: domain.DeliveryDelivered, StatusCode: status}
}

func (n *Notifier) post(ctx context.Context, note domain.Notification) (int, error) {
	body, err := json.Marshal(note)
	if err != nil {
		return 0, fmt.Errorf("encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return resp.StatusCode, fmt.Errorf("webhook returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
