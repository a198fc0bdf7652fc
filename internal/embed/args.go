package embed

import (
	"strings"

	"mediamend/internal/config"
)

// takeoutTags copies Google Takeout fields onto standard tags. exiftool
// flattens the nested JSON keys, so photoTakenTime.timestamp is read as
// PhotoTakenTimeTimestamp.
var takeoutTags = []string{
	"-Title<Title",
	"-Description<Description",
	"-ImageDescription<Description",
	"-Caption-Abstract<Description",
	"-AllDates<PhotoTakenTimeTimestamp",
	"-FileModifyDate<PhotoTakenTimeTimestamp",
	"-QuickTime:CreateDate<PhotoTakenTimeTimestamp",
	"-QuickTime:ModifyDate<PhotoTakenTimeTimestamp",
	"-GPSAltitude<GeoDataAltitude",
	"-GPSLatitude<GeoDataLatitude",
	"-GPSLatitudeRef<GeoDataLatitude",
	"-GPSLongitude<GeoDataLongitude",
	"-GPSLongitudeRef<GeoDataLongitude",
}

// ImportArgs returns the directives that pull metadata from the sidecar.
func ImportArgs(mode, sidecar string) []string {
	sidecar = safePath(sidecar)
	if strings.TrimSpace(mode) == config.ImportModeTakeout {
		args := make([]string, 0, len(takeoutTags)+4)
		args = append(args, "-d", "%s", "-TagsFromFile", sidecar)
		return append(args, takeoutTags...)
	}
	return []string{"-json=" + sidecar}
}

// BuildArgs assembles a full exiftool command line for one attempt.
func BuildArgs(tier Tier, mode, media, sidecar string) []string {
	args := []string{"-m", "-overwrite_original"}
	args = append(args, StripArgs(tier)...)
	args = append(args, ImportArgs(mode, sidecar)...)
	return append(args, safePath(media))
}

// safePath keeps a relative path beginning with '-' from being read as an option.
func safePath(p string) string {
	if strings.HasPrefix(p, "-") {
		return "./" + p
	}
	return p
}
