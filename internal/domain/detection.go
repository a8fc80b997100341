package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// detectionReply mirrors the JSON object the detection prompt asks for.
// Pointers distinguish a missing key from an empty value.
type detectionReply struct {
	Type        *string         `json:"type"`
	Description *string         `json:"description"`
	Confidence  json.RawMessage `json:"confidence_level"`
}

// ParseDetection decodes a vision model reply into a Classification. Code
// fences and leading or trailing chatter around the object are tolerated;
// a missing type or description is a parse error. confidence_level may be a
// number or a numeric string and is clamped to 0..100.
func ParseDetection(content string) (Classification, error) {
	payload := extractJSONObject(content)
	if payload == "" {
		return Classification{}, fmt.Errorf("parse detection: empty reply: %w", ErrParse)
	}

	var reply detectionReply
	if err := json.Unmarshal([]byte(payload), &reply); err != nil {
		return Classification{}, fmt.Errorf("parse detection: %w (%v; reply: %s)", ErrParse, err, snippet(content))
	}
	if reply.Type == nil {
		return Classification{}, fmt.Errorf("parse detection: missing \"type\": %w", ErrParse)
	}
	if reply.Description == nil {
		return Classification{}, fmt.Errorf("parse detection: missing \"description\": %w", ErrParse)
	}

	confidence, err := parseConfidence(reply.Confidence)
	if err != nil {
		return Classification{}, fmt.Errorf("parse detection: confidence_level: %w (%v)", ErrParse, err)
	}

	return Classification{
		Type:        ParseDisasterType(*reply.Type),
		RawType:     strings.TrimSpace(*reply.Type),
		Description: strings.TrimSpace(*reply.Description),
		Confidence:  confidence,
	}, nil
}

func parseConfidence(raw json.RawMessage) (int, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return 0, nil
	}

	var value float64
	if err := json.Unmarshal(raw, &value); err != nil {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, fmt.Errorf("unsupported value %s", trimmed)
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "%")
		parsed, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", text)
		}
		value = parsed
	}

	switch {
	case math.IsNaN(value), value < 0:
		return 0, nil
	case value > 100:
		return 100, nil
	default:
		return int(math.Round(value)), nil
	}
}

// extractJSONObject strips a surrounding ``` fence and narrows the content to
// the outermost {...} span.
func extractJSONObject(content string) string {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		body := strings.TrimLeft(trimmed[3:], " \t\r\n")
		if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
			body = body[4:]
		}
		if idx := strings.LastIndex(body, "```"); idx >= 0 {
			body = body[:idx]
		}
		trimmed = strings.TrimSpace(body)
	}
	if trimmed == "" || trimmed[0] == '{' {
		return trimmed
	}
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		return trimmed[start : end+1]
	}
	return trimmed
}

func snippet(content string) string {
	clean := strings.Join(strings.Fields(content), " ")
	const limit = 160
	if runes := []rune(clean); len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	if clean == "" {
		return "<empty>"
	}
	return clean
}
