package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"mediamend/internal/workflow"
)

// progressReporter draws an embedding progress bar when stdout is a terminal
// and stays silent otherwise.
type progressReporter struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func newProgressReporter(out io.Writer, disabled bool) *progressReporter {
	if disabled || !isTerminal(out) {
		return &progressReporter{}
	}
	return &progressReporter{out: out}
}

// Update is a workflow.Progress callback.
func (p *progressReporter) Update(progress workflow.Progress) {
	if p == nil || p.out == nil {
		return
	}
	if p.bar == nil {
		p.bar = progressbar.NewOptions(progress.Total,
			progressbar.OptionSetWriter(p.out),
			progressbar.OptionSetDescription("Embedding metadata"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionClearOnFinish(),
		)
	}
	_ = p.bar.Set(progress.Done)
}

// Finish clears the bar so the summary prints on a clean line.
func (p *progressReporter) Finish() {
	if p == nil || p.bar == nil {
		return
	}
	_ = p.bar.Finish()
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
