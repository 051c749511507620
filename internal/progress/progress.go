package progress

import "time"

// Status is the lifecycle phase carried by a progress event.
type Status string

const (
	StatusStarted  Status = "started"
	StatusSuccess  Status = "success"
	StatusDegraded Status = "degraded"
	StatusFailed   Status = "failed"
)

// Event describes one stage transition. Events are emitted when a stage
// starts and again when it finishes, carrying the outcome.
type Event struct {
	RunID   string
	Stage   string
	Status  Status
	Attempt int
	Elapsed time.Duration
}

// Reporter is the sink the orchestration core writes progress events to.
// The presentation layer supplies an implementation; the core never blocks
// on rendering concerns beyond the Report call itself.
type Reporter interface {
	Report(Event)
}

// Nop discards all events.
type Nop struct{}

func (Nop) Report(Event) {}

// Func adapts a function to the Reporter interface.
type Func func(Event)

func (f Func) Report(e Event) { f(e) }
