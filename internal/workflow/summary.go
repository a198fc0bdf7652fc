package workflow

import (
	"fmt"

	"mediamend/internal/embed"
	"mediamend/internal/history"
	"mediamend/internal/services"
	"mediamend/internal/sidecar"
)

// Summary reports the totals of a run.
type Summary struct {
	RunID  string
	Root   string
	DryRun bool

	Renamed       int
	RenameSkipped int
	Embedded      int
	NoMatch       int
	Failed        int
	// Planned counts matches that would have been embedded in a dry run.
	Planned int

	ByMatchKind map[sidecar.MatchKind]int
	Failures    []embed.Outcome
}

func newSummary(runID, root string, dryRun bool) Summary {
	return Summary{
		RunID:       runID,
		Root:        root,
		DryRun:      dryRun,
		ByMatchKind: make(map[sidecar.MatchKind]int),
	}
}

// Counts converts the summary into history totals.
func (s Summary) Counts() history.Counts {
	return history.Counts{
		Renamed:       s.Renamed,
		RenameSkipped: s.RenameSkipped,
		Embedded:      s.Embedded,
		NoMatch:       s.NoMatch,
		Failed:        s.Failed,
	}
}

// Err reports terminal embedding failures as services.ErrIncomplete.
func (s Summary) Err() error {
	if s.Failed == 0 {
		return nil
	}
	return services.Wrap(services.ErrIncomplete, StageEmbed, "embed metadata",
		fmt.Sprintf("%d file(s) failed on every tier", s.Failed), nil)
}
