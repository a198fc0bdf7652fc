package history

import "time"

// Status describes the lifecycle state of a run.
type Status string

const (
	StatusRunning     Status = "running"
	StatusCompleted   Status = "completed"
	StatusIncomplete  Status = "incomplete"
	StatusFailed      Status = "failed"
	StatusInterrupted Status = "interrupted"
)

// EventKind classifies a per-file event.
type EventKind string

const (
	EventRenamed       EventKind = "renamed"
	EventRenameSkipped EventKind = "rename_skipped"
	EventEmbedded      EventKind = "embedded"
	EventNoMatch       EventKind = "no_match"
	EventEmbedFailed   EventKind = "embed_failed"
)

// Counts are the summary totals stored with a run.
type Counts struct {
	Renamed       int
	RenameSkipped int
	Embedded      int
	NoMatch       int
	Failed        int
}

// Run is one recorded invocation.
type Run struct {
	ID           string
	Root         string
	Status       Status
	DryRun       bool
	StartedAt    time.Time
	FinishedAt   *time.Time
	Counts       Counts
	ErrorMessage string
}

// Duration returns the wall time of a finished run, or zero while running.
func (r Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Event is one per-file entry of a run.
type Event struct {
	ID        int64
	RunID     string
	CreatedAt time.Time
	Kind      EventKind
	Path      string
	Target    string
	MatchKind string
	Tier      string
	Detail    string
}
