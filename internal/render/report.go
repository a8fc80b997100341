package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/disaster-response-service/internal/domain"
)

// Report renders a finished assessment as a markdown document. Assessments
// that terminated at detection get the short "no disaster" form.
func Report(a *domain.Assessment, generated time.Time) string {
	var b strings.Builder
	b.WriteString("# Disaster Response Report\n\n")

	if a.Disaster == nil {
		b.WriteString("Detection did not complete.\n")
		writeFooter(&b, generated)
		return b.String()
	}

	b.WriteString("## Disaster Detection\n")
	fmt.Fprintf(&b, "- **Type:** %s\n", typeLine(a.Disaster))
	fmt.Fprintf(&b, "- **Description:** %s\n", a.Disaster.Description)
	fmt.Fprintf(&b, "- **Confidence:** %d%%\n\n", a.Disaster.Confidence)

	if a.Disaster.Type == domain.NoDisaster {
		b.WriteString("No wildfire or flood was detected in the image.\n")
		writeFooter(&b, generated)
		return b.String()
	}

	if a.RiskLevel != nil {
		fmt.Fprintf(&b, "## Risk Assessment\n%s\n\n", *a.RiskLevel)
	}
	if a.ActionPlan != nil {
		fmt.Fprintf(&b, "## Action Plan\n%s\n", *a.ActionPlan)
	}
	if len(a.Deliveries) > 0 {
		b.WriteString("\n## Notifications\n")
		for _, d := range a.Deliveries {
			fmt.Fprintf(&b, "- %s: %s", d.Sink, d.Status)
			if d.Error != "" {
				fmt.Fprintf(&b, " (%s)", d.Error)
			}
			b.WriteString("\n")
		}
	}
	if !a.Stage.Terminal() {
		b.WriteString("\n*The assessment did not complete.*\n")
	}
	writeFooter(&b, generated)
	return b.String()
}

// typeLine shows the normalised type, keeping the model's answer when it
// fell outside the known set.
func typeLine(c *domain.Classification) string {
	if c.Type == domain.Unrecognized {
		return fmt.Sprintf("%s (%q)", c.Type.Label(), c.RawType)
	}
	return c.Type.Label()
}

func writeFooter(b *strings.Builder, generated time.Time) {
	fmt.Fprintf(b, "\n---\n*Generated on %s*\n", generated.Format(TimestampLayout))
}

// ReportFilename is the suggested download name for a report.
func ReportFilename(generated time.Time) string {
	return "disaster_report_" + generated.Format("20060102_150405") + ".md"
}
