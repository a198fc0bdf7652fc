package embed

import (
	"strings"

	"mediamend/internal/config"
)

// Tier names one embedding attempt in the escalation sequence.
type Tier string

const (
	TierPlain          Tier = "plain"
	TierStripThumbnail Tier = "strip_thumbnail"
	TierStripPreview   Tier = "strip_preview"
	// TierStripAll clears the thumbnail and preview pointers together (two-stage set).
	TierStripAll Tier = "strip_all"
)

// TiersFor returns the attempt sequence for a configured tier set.
func TiersFor(set string) []Tier {
	if strings.TrimSpace(set) == config.TiersTwoStage {
		return []Tier{TierPlain, TierStripAll}
	}
	return []Tier{TierPlain, TierStripThumbnail, TierStripPreview}
}

// StripArgs returns the exiftool tag-clearing directives for a tier.
func StripArgs(t Tier) []string {
	switch t {
	case TierStripThumbnail:
		return []string{"-ThumbnailImage="}
	case TierStripPreview:
		return []string{"-OtherImageStart=", "-OtherImageLength="}
	case TierStripAll:
		return []string{"-ThumbnailImage=", "-OtherImageStart=", "-OtherImageLength="}
	default:
		return nil
	}
}
