// Package domain models a single disaster assessment: the classification a
// vision model returns for an image, the severity label, the action plan and
// the notification derived from them.
//
// # Stages
//
// An assessment moves through a fixed sequence:
//
//	Start -> Detected -> RiskAssessed -> Planned -> Notified
//	                 \-> Terminated (no disaster)
//
// Detection always runs. If the image shows neither a wildfire nor a flood the
// assessment terminates there and RiskLevel and ActionPlan stay nil. Every
// other classification continues through risk scoring, planning and
// notification. Both Terminated and Notified are successful outcomes.
//
// # Classification
//
// The vision model answers with a JSON object:
//
//	{"type": "Wildfire", "description": "...", "confidence_level": 85}
//
// The type string is mapped onto [DisasterType] case-insensitively after
// trimming whitespace. Values other than wildfire, flood and none map to
// [Unrecognized], which still continues to risk scoring. The verbatim string
// is kept in [Classification.RawType] and is what the notification payload
// reports as crisis_type.
//
// # Severity
//
// The risk rubric asks for one of CRITICAL, HIGH, MEDIUM or LOW. Replies are
// trimmed and stored as given; labels outside that set are kept but reported
// by [Severity.Known] so callers can log and count them.
//
// # Notification payload
//
// The webhook receives:
//
//	{crisis_type, severity, location, email_html, action_plan, timestamp}
//
// with timestamp formatted as RFC 3339 from the package clock.
package domain
