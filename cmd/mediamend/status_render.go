package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"

	"mediamend/internal/preflight"
)

type statusKind string

const (
	statusInfo  statusKind = "info"
	statusOK    statusKind = "ok"
	statusWarn  statusKind = "warn"
	statusError statusKind = "error"
)

const statusLabelWidth = 20

var statusColors = map[statusKind]text.Colors{
	statusInfo:  {text.FgBlue},
	statusOK:    {text.FgGreen},
	statusWarn:  {text.FgYellow},
	statusError: {text.FgRed},
}

type statusLine struct {
	Label  string     `json:"label"`
	Kind   statusKind `json:"kind"`
	Detail string     `json:"detail,omitempty"`
}

type statusSection struct {
	Title string       `json:"title"`
	Lines []statusLine `json:"lines"`
}

// statusReport is what `mediamend status` prints, either as text or JSON.
type statusReport struct {
	Sections []statusSection `json:"sections"`
	OK       bool            `json:"ok"`
}

func (r *statusReport) add(title string, lines ...statusLine) {
	r.Sections = append(r.Sections, statusSection{Title: title, Lines: lines})
}

func (r *statusReport) finish() {
	r.OK = true
	for _, s := range r.Sections {
		for _, l := range s.Lines {
			if l.Kind == statusError {
				r.OK = false
				return
			}
		}
	}
}

func infoLine(label, detail string) statusLine {
	return statusLine{Label: label, Kind: statusInfo, Detail: detail}
}

// checkLine maps a preflight result onto a status line. Optional binaries
// that are absent pass but still warn.
func checkLine(c preflight.Result) statusLine {
	line := statusLine{Label: c.Name, Kind: statusOK, Detail: c.Detail}
	switch {
	case !c.Passed:
		line.Kind = statusError
	case strings.HasPrefix(c.Detail, "optional"):
		line.Kind = statusWarn
	}
	return line
}

func (l statusLine) String() string {
	tag := "[" + strings.ToUpper(string(l.Kind)) + "]"
	if l.Detail != "" {
		tag += " " + l.Detail
	}
	return fmt.Sprintf("  %-*s %s", statusLabelWidth, l.Label+":", tag)
}

func (r statusReport) render(w io.Writer, colorize bool) error {
	paint := func(kind statusKind, s string) string {
		if !colorize {
			return s
		}
		return statusColors[kind].Sprint(s)
	}
	var b strings.Builder
	for i, section := range r.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(paint(statusInfo, "== "+strings.TrimSpace(section.Title)+" =="))
		b.WriteString("\n")
		for _, line := range section.Lines {
			b.WriteString(paint(line.Kind, line.String()))
			b.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
