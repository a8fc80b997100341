package domain

import "time"

// DeliveryStatus is the outcome of one best-effort notification attempt.
type DeliveryStatus string

const (
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryFailed    DeliveryStatus = "failed"
	DeliverySkipped   DeliveryStatus = "skipped"
)

// Delivery records what happened when a notification sink was called.
type Delivery struct {
	Sink       string         `json:"sink"`
	Status     DeliveryStatus `json:"status"`
	StatusCode int            `json:"status_code,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// Delivered reports whether the sink accepted the notification.
func (d Delivery) Delivered() bool { return d.Status == DeliveryDelivered }

// Notification is the payload posted to the webhook. It is built once from a
// planned assessment and never mutated.
type Notification struct {
	CrisisType string    `json:"crisis_type"`
	Severity   string    `json:"severity"`
	Location   string    `json:"location"`
	EmailHTML  string    `json:"email_html"`
	ActionPlan string    `json:"action_plan"`
	Timestamp  time.Time `json:"timestamp"`

	// AssessmentID keys the notification on event streams; it is not part
	// of the webhook body.
	AssessmentID string `json:"-"`
}
