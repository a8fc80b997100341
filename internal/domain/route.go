package domain

// Next names the step that follows detection.
type Next string

const (
	NextTerminate Next = "end"
	NextAssess    Next = "risk"
)

// Route decides what follows detection. Only NoDisaster ends the pipeline;
// wildfire, flood and unrecognized classifications all continue.
func Route(t DisasterType) Next {
	if t == NoDisaster {
		return NextTerminate
	}
	return NextAssess
}
