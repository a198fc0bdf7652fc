package sidecar

import "testing"

func TestMatchExactBeatsOtherCandidates(t *testing.T) {
	m := NewMatcher("", 0.6)
	got := m.Match("/photos/IMG_0001.jpg", []string{
		"/photos/IMG_0001.jpg.suppl.json",
		"/photos/IMG_0001.jpg.supplemental-metadata.json",
	})
	if got.Kind != KindExact || got.Path != "/photos/IMG_0001.jpg.supplemental-metadata.json" {
		t.Fatalf("expected exact match, got %+v", got)
	}
}

func TestMatchPrefixFullNameBeforeStem(t *testing.T) {
	m := NewMatcher("", 0.6)
	got := m.Match("IMG_0002.jpg", []string{
		"IMG_0002.json",
		"IMG_0002.jpg.supplemental-me.json",
	})
	if got.Kind != KindPrefix || got.Path != "IMG_0002.jpg.supplemental-me.json" {
		t.Fatalf("expected full-name prefix match, got %+v", got)
	}

	got = m.Match("IMG_0003.jpg", []string{"other.json", "IMG_0003.json"})
	if got.Kind != KindPrefix || got.Path != "IMG_0003.json" {
		t.Fatalf("expected stem prefix match, got %+v", got)
	}
}

func TestMatchNearNameResolvesToCandidate(t *testing.T) {
	m := NewMatcher("", 0.6)
	got := m.Match("vacation_photo.jpg", []string{"vacation_photoo.jpg.supplemental-metadata.json"})
	if !got.Found() || got.Path != "vacation_photoo.jpg.supplemental-metadata.json" {
		t.Fatalf("expected candidate to be returned, got %+v", got)
	}
}

func TestMatchFuzzyAcceptsAboveThreshold(t *testing.T) {
	m := NewMatcher("", 0.6)
	got := m.Match("IMG_2040.jpg", []string{"IMG_204O.jpg.supplemental-metadata.json"})
	if got.Kind != KindFuzzy {
		t.Fatalf("expected fuzzy match, got %+v", got)
	}
	if got.Score <= 0.6 {
		t.Fatalf("expected score above threshold, got %v", got.Score)
	}

	strict := NewMatcher("", 0.95)
	if got := strict.Match("IMG_2040.jpg", []string{"IMG_204O.jpg.supplemental-metadata.json"}); got.Found() {
		t.Fatalf("expected rejection with strict threshold, got %+v", got)
	}
}

func TestMatchFuzzyRejectsBelowThreshold(t *testing.T) {
	m := NewMatcher("", 0.6)
	got := m.Match("vacation_photo.jpg", []string{"unrelated_file.json"})
	if got.Found() || got.Kind != KindNone {
		t.Fatalf("expected no match, got %+v", got)
	}
}

func TestMatchFuzzyIgnoresNonJSONCandidates(t *testing.T) {
	m := NewMatcher("", 0.1)
	got := m.Match("IMG_2040.jpg", []string{"IMG_204O.jpg.xmp"})
	if got.Found() {
		t.Fatalf("expected non-json candidate to be ignored, got %+v", got)
	}
}

func TestMatchFuzzyTieKeepsFirstCandidate(t *testing.T) {
	m := NewMatcher("", 0.6)
	candidates := []string{
		"IMG_204A.jpg.supplemental-metadata.json",
		"IMG_204B.jpg.supplemental-metadata.json",
	}
	for i := 0; i < 3; i++ {
		got := m.Match("IMG_2040.jpg", candidates)
		if got.Kind != KindFuzzy || got.Path != candidates[0] {
			t.Fatalf("run %d: expected first tied candidate, got %+v", i, got)
		}
	}
}

func TestMatchNoCandidates(t *testing.T) {
	m := NewMatcher("", 0.6)
	if got := m.Match("a.jpg", nil); got.Kind != KindNone || got.Found() {
		t.Fatalf("expected none, got %+v", got)
	}
}

func TestMatchEmptyStemSkipsStemPass(t *testing.T) {
	m := NewMatcher("", 0.99)
	if got := m.Match(".jpg", []string{"anything.json"}); got.Kind == KindPrefix {
		t.Fatalf("empty stem must not prefix-match everything, got %+v", got)
	}
}

func TestOwnerHint(t *testing.T) {
	m := NewMatcher("", 0.6)
	tests := []struct {
		name string
		want string
	}{
		{"IMG_0001.jpg.supplemental-metadata.json", "IMG_0001.jpg"},
		{"IMG_0001.jpg.supplemental-met.json", "IMG_0001.jpg"},
		{"IMG_0001.jpg.s.json", "IMG_0001.jpg"},
		{"IMG_0001.jpg.json", "IMG_0001.jpg"},
		{"unrelated_file.json", "unrelated_file"},
		{"metadata.json", "metadata"},
		{"IMG_0001.JPG.SUPPLEMENTAL-METADATA.JSON", "IMG_0001.JPG"},
	}
	for _, tt := range tests {
		if got := m.OwnerHint(tt.name); got != tt.want {
			t.Errorf("OwnerHint(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestNewMatcherDefaults(t *testing.T) {
	m := NewMatcher(" ", 2)
	if m.Suffix() != DefaultSuffix || m.threshold != DefaultThreshold {
		t.Fatalf("unexpected defaults: %+v", m)
	}
}
