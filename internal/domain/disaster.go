package domain

import "strings"

// DisasterType is the closed set of classifications the pipeline routes on.
type DisasterType string

const (
	Wildfire     DisasterType = "wildfire"
	Flood        DisasterType = "flood"
	NoDisaster   DisasterType = "none"
	Unrecognized DisasterType = "unrecognized"
)

// ParseDisasterType maps a raw model answer onto a DisasterType. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseDisasterType(raw string) DisasterType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "wildfire":
		return Wildfire
	case "flood":
		return Flood
	case "none":
		return NoDisaster
	default:
		return Unrecognized
	}
}

// Label returns the display form used in reports ("Wildfire", "Flood", "None").
func (t DisasterType) Label() string {
	switch t {
	case Wildfire:
		return "Wildfire"
	case Flood:
		return "Flood"
	case NoDisaster:
		return "None"
	default:
		return "Unrecognized"
	}
}

// Classification is the detection stage output. It is read-only once set.
type Classification struct {
	Type        DisasterType `json:"type"`
	RawType     string       `json:"raw_type"`
	Description string       `json:"description"`
	Confidence  int          `json:"confidence_level"`
}

// Severity is the risk label returned by the risk stage.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// ParseSeverity trims the model reply. Unknown labels are preserved as-is.
func ParseSeverity(raw string) Severity {
	return Severity(strings.TrimSpace(raw))
}

// Known reports whether s is one of the four rubric labels, ignoring case.
func (s Severity) Known() bool {
	switch Severity(strings.ToUpper(string(s))) {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// Band groups a severity into a display band for styling.
type Band string

const (
	BandAlert   Band = "alert"
	BandWarning Band = "warning"
	BandOK      Band = "ok"
)

// SeverityBand classifies free-form severity text the same way for known and
// unknown labels: anything mentioning high, severe or critical is an alert,
// medium or moderate a warning, everything else ok.
func SeverityBand(s Severity) Band {
	lower := strings.ToLower(string(s))
	switch {
	case strings.Contains(lower, "high"), strings.Contains(lower, "severe"), strings.Contains(lower, "critical"):
		return BandAlert
	case strings.Contains(lower, "medium"), strings.Contains(lower, "moderate"):
		return BandWarning
	default:
		return BandOK
	}
}
