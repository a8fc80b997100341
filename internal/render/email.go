package render

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/couchcryptid/disaster-response-service/internal/domain"
)

// TimestampLayout is how alert emails and reports print times.
const TimestampLayout = "2006-01-02 15:04:05"

// Email holds everything the alert email shows.
type Email struct {
	Disaster  domain.Classification
	Severity  domain.Severity
	Location  domain.Location
	Plan      string // markdown
	Timestamp time.Time
}

type emailView struct {
	CrisisType  string
	Description string
	Severity    string
	Band        domain.Band
	Location    string
	Coordinates string
	Timestamp   string
	PlanHTML    template.HTML
}

var emailTemplate = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; padding: 20px; }
h1 { color: #d32f2f; border-bottom: 3px solid #d32f2f; padding-bottom: 10px; }
h2 { color: #1976d2; margin-top: 25px; }
h3 { color: #388e3c; }
.alert-header { background: #ffebee; padding: 20px; border-left: 5px solid #d32f2f; margin-bottom: 20px; }
.info-box { background: #f5f5f5; padding: 15px; border-radius: 5px; margin: 15px 0; }
.severity { font-weight: bold; font-size: 1.2em; }
.severity-alert { color: #d32f2f; }
.severity-warning { color: #f57c00; }
.severity-ok { color: #388e3c; }
ul, ol { margin: 10px 0; padding-left: 25px; }
li { margin: 5px 0; }
strong { color: #1976d2; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 8px; }
</style>
</head>
<body>
<div class="alert-header">
<h1>Crisis Alert Detected</h1>
</div>
<div class="info-box">
<p><strong>Crisis Type:</strong> {{.CrisisType}}</p>
<p><strong>Description:</strong> {{.Description}}</p>
<p class="severity severity-{{.Band}}">Severity Level: {{.Severity}}</p>
<p><strong>Location:</strong> {{.Location}}{{if .Coordinates}} ({{.Coordinates}}){{end}}</p>
<p><strong>Timestamp:</strong> {{.Timestamp}}</p>
</div>
<h2>Action Plan</h2>
<div class="action-plan">
{{.PlanHTML}}
</div>
</body>
</html>
`))

// RenderEmail produces the alert email HTML. Model-provided fields are
// escaped; the plan is rendered from markdown.
func RenderEmail(e Email) (string, error) {
	planHTML, err := MarkdownToHTML(e.Plan)
	if err != nil {
		return "", err
	}

	view := emailView{
		CrisisType:  e.Disaster.RawType,
		Description: e.Disaster.Description,
		Severity:    string(e.Severity),
		Band:        domain.SeverityBand(e.Severity),
		Location:    e.Location.Name,
		Coordinates: e.Location.Coordinates(),
		Timestamp:   e.Timestamp.Format(TimestampLayout),
		PlanHTML:    template.HTML(planHTML), //nolint:gosec // goldmark output, raw HTML disabled
	}

	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return buf.String(), nil
}
