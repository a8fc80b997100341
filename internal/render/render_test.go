package render

import (
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/disaster-response-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

const samplePlan = `## Phase 1: Immediate Response (0-24 hours)
- Evacuate residents within 2 miles
- Open shelters at the county fairgrounds

**Resources needed:** 40 fire engines
Aerial support on standby

| Team | Count |
|------|-------|
| Engine crews | 40 |
`

func TestMarkdownToHTML_Extensions(t *testing.T) {
	out, err := MarkdownToHTML(samplePlan)
	require.NoError(t, err)

	assert.Contains(t, out, "<h2>Phase 1: Immediate Response (0-24 hours)</h2>")
	assert.Contains(t, out, "<li>Evacuate residents within 2 miles</li>")
	assert.Contains(t, out, "<strong>Resources needed:</strong>")
	assert.Contains(t, out, "<br>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>Engine crews</td>")
}

func TestMarkdownToHTML_DropsRawHTML(t *testing.T) {
	out, err := MarkdownToHTML("hello <script>alert(1)</script> world")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
}

func TestMarkdownToHTML_RoundTripPreservesText(t *testing.T) {
	lines := []string{
		"Evacuate residents within two miles of the fire line",
		"Coordinate with county emergency services & local shelters",
		"Deploy water tankers to the northern perimeter",
	}
	out, err := MarkdownToHTML(strings.Join(lines, "\n"))
	require.NoError(t, err)

	text, err := PlainText(out)
	require.NoError(t, err)
	for _, line := range lines {
		assert.Contains(t, text, line)
	}
}

func TestMarkdownToHTML_RoundTripThroughMarkup(t *testing.T) {
	src := "Call **911** before approaching the levee\n\n" +
		"- Close Route 9 & the river bridge\n" +
		"- Sandbag the *eastern* pump station\n\n" +
		"| Zone | Action |\n|------|--------|\n| Riverside flats | Evacuate now |\n"

	out, err := MarkdownToHTML(src)
	require.NoError(t, err)
	require.Contains(t, out, "<strong>911</strong>")
	require.Contains(t, out, "<td>Riverside flats</td>")

	text, err := PlainText(out)
	require.NoError(t, err)
	for _, want := range []string{
		"Call 911 before approaching the levee",
		"Close Route 9 & the river bridge",
		"Sandbag the eastern pump station",
		"Riverside flats",
		"Evacuate now",
	} {
		assert.Contains(t, text, want)
	}
	assert.NotContains(t, text, "<")
	assert.NotContains(t, text, "**")
}

func TestPlainText_SkipsStyle(t *testing.T) {
	text, err := PlainText(`<html><head><style>body { color: red; }</style></head><body><p>Stay safe</p></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "Stay safe", text)
}

func wildfireEmail() Email {
	return Email{
		Disaster: domain.Classification{
			Type:        domain.Wildfire,
			RawType:     "Wildfire",
			Description: "Large fire spreading <fast> near homes",
			Confidence:  85,
		},
		Severity:  domain.SeverityHigh,
		Location:  domain.Location{Name: "San Diego, California"},
		Plan:      samplePlan,
		Timestamp: fixedTime,
	}
}

func TestRenderEmail(t *testing.T) {
	out, err := RenderEmail(wildfireEmail())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<strong>Crisis Type:</strong> Wildfire")
	assert.Contains(t, out, `class="severity severity-alert"`)
	assert.Contains(t, out, "Severity Level: HIGH")
	assert.Contains(t, out, "<strong>Location:</strong> San Diego, California</p>")
	assert.Contains(t, out, "<strong>Timestamp:</strong> 2026-03-14 09:26:53")
	assert.Contains(t, out, "<li>Evacuate residents within 2 miles</li>")
	assert.Contains(t, out, "spreading &lt;fast&gt; near")
}

func TestRenderEmail_Coordinates(t *testing.T) {
	e := wildfireEmail()
	e.Location = domain.Location{Name: "San Diego, California", Latitude: 32.7157, Longitude: -117.1611, Resolved: true}
	out, err := RenderEmail(e)
	require.NoError(t, err)
	assert.Contains(t, out, "San Diego, California (32.7157, -117.1611)")
}

func TestRenderEmail_SeverityBands(t *testing.T) {
	cases := map[domain.Severity]string{
		domain.SeverityCritical: "severity-alert",
		domain.SeverityMedium:   "severity-warning",
		domain.SeverityLow:      "severity-ok",
		"Moderate risk":         "severity-warning",
	}
	for sev, class := range cases {
		e := wildfireEmail()
		e.Severity = sev
		out, err := RenderEmail(e)
		require.NoError(t, err)
		assert.Contains(t, out, class, "severity %q", sev)
	}
}

func TestReport_Planned(t *testing.T) {
	a := domain.NewAssessment("a-1", "/tmp/img.jpg")
	require.NoError(t, a.SetDisaster(domain.Classification{Type: domain.Flood, RawType: "Flood", Description: "Streets under water", Confidence: 72}))
	require.NoError(t, a.SetRiskLevel(domain.SeverityMedium))
	require.NoError(t, a.SetActionPlan("1. Move to higher ground"))
	require.NoError(t, a.MarkNotified([]domain.Delivery{
		{Sink: "webhook", Status: domain.DeliveryFailed, Error: "http 500"},
	}))

	got := Report(a, fixedTime)
	want := `# Disaster Response Report

## Disaster Detection
- **Type:** Flood
- **Description:** Streets under water
- **Confidence:** 72%

## Risk Assessment
MEDIUM

## Action Plan
1. Move to higher ground

## Notifications
- webhook: failed (http 500)

---
*Generated on 2026-03-14 09:26:53*
`
	assert.Equal(t, want, got)
}

func TestReport_NoDisaster(t *testing.T) {
	a := domain.NewAssessment("a-2", "/tmp/img.jpg")
	require.NoError(t, a.SetDisaster(domain.Classification{Type: domain.NoDisaster, RawType: "none", Description: "A quiet beach"}))
	require.NoError(t, a.Terminate())

	got := Report(a, fixedTime)
	assert.Contains(t, got, "- **Type:** None")
	assert.Contains(t, got, "No wildfire or flood was detected in the image.")
	assert.NotContains(t, got, "## Risk Assessment")
	assert.NotContains(t, got, "## Action Plan")
}

func TestReport_TypeLine(t *testing.T) {
	tests := []struct {
		name string
		c    domain.Classification
		want string
	}{
		{"normalised case", domain.Classification{Type: domain.Wildfire, RawType: "WILDFIRE"}, "- **Type:** Wildfire\n"},
		{"unrecognized keeps raw", domain.Classification{Type: domain.Unrecognized, RawType: "Tornado"}, "- **Type:** Unrecognized (\"Tornado\")\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := domain.NewAssessment("a-3", "/tmp/img.jpg")
			require.NoError(t, a.SetDisaster(tt.c))
			assert.Contains(t, Report(a, fixedTime), tt.want)
		})
	}
}

func TestReport_IncompleteAssessment(t *testing.T) {
	a := domain.NewAssessment("a-4", "/tmp/img.jpg")
	require.NoError(t, a.SetDisaster(domain.Classification{Type: domain.Flood, RawType: "Flood", Description: "Rising river"}))
	require.NoError(t, a.SetRiskLevel(domain.SeverityLow))

	got := Report(a, fixedTime)
	assert.Contains(t, got, "LOW")
	assert.Contains(t, got, "*The assessment did not complete.*")
}

func TestReportFilename(t *testing.T) {
	assert.Equal(t, "disaster_report_20260314_092653.md", ReportFilename(fixedTime))
}
