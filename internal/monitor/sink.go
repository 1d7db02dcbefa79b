package monitor

// Discard ignores every event.
var Discard Sink = discardSink{}

type discardSink struct{}

func (discardSink) Warn(Warning) {}
func (discardSink) Refresh(Refresh) {}

// Recorder keeps events in arrival order.
type Recorder struct {
	Warnings  []Warning
	Refreshes []Refresh
}

func (r *Recorder) Warn(w Warning) { r.Warnings = append(r.Warnings, w) }
func (r *Recorder) Refresh(rf Refresh) { r.Refreshes = append(r.Refreshes, rf) }
