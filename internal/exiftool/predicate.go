package exiftool

import "strings"

const (
	notUpdatedMarker = "files weren't updated"
	errorMarker      = "Error:"
)

// Succeeded reports whether an exiftool write succeeded. exiftool's exit
// status is not reliable across versions, so the decision rests on its text:
// stdout must not report files left un-updated and stderr must not carry an
// "Error:" line. Warnings on stderr do not count as failure.
func Succeeded(stdout, stderr string) bool {
	return !strings.Contains(stdout, notUpdatedMarker) && !strings.Contains(stderr, errorMarker)
}

// Diagnostic condenses an invocation's output into a single operator-facing line.
func Diagnostic(res Result) string {
	var parts []string
	if s := strings.TrimSpace(res.Stderr); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(res.Stdout); s != "" && !Succeeded(res.Stdout, "") {
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return "exiftool reported no output"
	}
	return strings.Join(strings.Fields(strings.Join(parts, " | ")), " ")
}
