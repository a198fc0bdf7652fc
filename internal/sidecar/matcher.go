package sidecar

import (
	"path/filepath"
	"strings"

	"mediamend/internal/textutil"
)

// MatchKind describes how a sidecar was paired with its media file.
type MatchKind string

const (
	KindExact  MatchKind = "exact"
	KindPrefix MatchKind = "prefix"
	KindFuzzy  MatchKind = "fuzzy"
	KindNone   MatchKind = "none"
)

// DefaultSuffix is the Takeout sidecar naming suffix.
const DefaultSuffix = ".supplemental-metadata.json"

// DefaultThreshold is the fuzzy acceptance threshold.
const DefaultThreshold = 0.6

// Match is the result of matching one media file. Path is empty when Kind is KindNone.
type Match struct {
	Path  string
	Kind  MatchKind
	Score float64
}

// Found reports whether a sidecar was selected.
func (m Match) Found() bool {
	return m.Kind != KindNone && m.Path != ""
}

// Matcher selects at most one sidecar per media file.
type Matcher struct {
	suffix    string
	threshold float64
}

// NewMatcher builds a matcher. An empty suffix or a threshold outside [0,1]
// falls back to the defaults.
func NewMatcher(suffix string, threshold float64) *Matcher {
	if strings.TrimSpace(suffix) == "" {
		suffix = DefaultSuffix
	}
	if threshold < 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Matcher{suffix: suffix, threshold: threshold}
}

// Suffix returns the sidecar suffix used for exact matches.
func (m *Matcher) Suffix() string {
	return m.suffix
}

// Match selects the sidecar for media among candidates. Candidates are paths;
// only their base names take part in matching.
func (m *Matcher) Match(media string, candidates []string) Match {
	mediaName := filepath.Base(media)
	if len(candidates) == 0 {
		return Match{Kind: KindNone}
	}

	exact := mediaName + m.suffix
	for _, c := range candidates {
		if filepath.Base(c) == exact {
			return Match{Path: c, Kind: KindExact, Score: 1}
		}
	}

	for _, c := range candidates {
		if strings.HasPrefix(filepath.Base(c), mediaName) {
			return Match{Path: c, Kind: KindPrefix, Score: 1}
		}
	}
	if stem := strings.TrimSuffix(mediaName, filepath.Ext(mediaName)); stem != "" && stem != mediaName {
		for _, c := range candidates {
			if strings.HasPrefix(filepath.Base(c), stem) {
				return Match{Path: c, Kind: KindPrefix, Score: 1}
			}
		}
	}

	best := Match{Kind: KindNone}
	for _, c := range candidates {
		name := filepath.Base(c)
		if !strings.HasSuffix(strings.ToLower(name), ".json") {
			continue
		}
		score := textutil.Ratio(mediaName, m.OwnerHint(name))
		if score > best.Score {
			best = Match{Path: c, Kind: KindFuzzy, Score: score}
		}
	}
	if best.Path != "" && best.Score > m.threshold {
		return best
	}
	return Match{Kind: KindNone, Score: best.Score}
}

// OwnerHint derives the media name a sidecar most likely belongs to. The
// ".json" extension is removed, then any trailing segment that is a
// truncation of the suffix body (".supplemental-metadata", ".supplemen", ".s")
// is dropped.
func (m *Matcher) OwnerHint(name string) string {
	base := filepath.Base(name)
	if len(base) >= 5 && strings.EqualFold(base[len(base)-5:], ".json") {
		base = base[:len(base)-5]
	}
	body := strings.TrimSuffix(strings.ToLower(m.suffix), ".json")
	idx := strings.LastIndexByte(base, '.')
	if idx <= 0 {
		return base
	}
	tail := strings.ToLower(base[idx:])
	if len(tail) > 1 && strings.HasPrefix(body, tail) {
		return base[:idx]
	}
	return base
}
