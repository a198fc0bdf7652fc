package workflow

import (
	"strings"

	"mediamend/internal/discovery"
	"mediamend/internal/sidecar"
)

// directoryPlan splits one directory into media files and candidate sidecars.
type directoryPlan struct {
	media      []discovery.File
	candidates []string
	// reserved maps a candidate path to the media name it is named for.
	reserved map[string]string
}

func isJSON(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".json")
}

// planDirectory collects every .json file as a candidate, in lexical order,
// and reserves sidecars whose owner is present for that owner. The owner is
// the name before the full suffix, or for a sidecar Takeout cut short, the
// name before the truncated suffix.
func planDirectory(dir discovery.Directory, matcher *sidecar.Matcher) directoryPlan {
	suffix := matcher.Suffix()
	plan := directoryPlan{reserved: make(map[string]string)}
	mediaNames := make(map[string]struct{})
	for _, f := range dir.Files {
		if isJSON(f.Name) {
			plan.candidates = append(plan.candidates, f.Path)
			continue
		}
		plan.media = append(plan.media, f)
		mediaNames[f.Name] = struct{}{}
	}
	for _, f := range dir.Files {
		if !isJSON(f.Name) {
			continue
		}
		owner := matcher.OwnerHint(f.Name)
		if strings.HasSuffix(f.Name, suffix) {
			owner = strings.TrimSuffix(f.Name, suffix)
		}
		if _, ok := mediaNames[owner]; ok {
			plan.reserved[f.Path] = owner
		}
	}
	return plan
}

// candidatesFor returns the candidates available to mediaName, excluding
// sidecars reserved for a different media file.
func (p directoryPlan) candidatesFor(mediaName string) []string {
	if len(p.reserved) == 0 {
		return p.candidates
	}
	out := make([]string, 0, len(p.candidates))
	for _, c := range p.candidates {
		if owner, ok := p.reserved[c]; ok && owner != mediaName {
			continue
		}
		out = append(out, c)
	}
	return out
}
