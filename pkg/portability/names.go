package portability

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var unsafeFilenameChars = regexp.MustCompile(`(?i)[^a-z0-9]`)

// SanitizeFilename replaces every character other than ASCII letters and
// digits with '_' and lowercases the result. Empty input yields "unknown".
func SanitizeFilename(name string) string {
	if name == "" {
		return "unknown"
	}
	return strings.ToLower(unsafeFilenameChars.ReplaceAllString(name, "_"))
}

// TimestampToken formats t as YYYYMMDD_HHMMSS_mmm.
func TimestampToken(t time.Time) string {
	return fmt.Sprintf("%s_%03d", t.Format("20060102_150405"), t.Nanosecond()/int(time.Millisecond))
}

// CollectionFilename is the default file name for an exported collection:
// title_version_timestamp.json.
func CollectionFilename(title, version string, t time.Time) string {
	return SanitizeFilename(title) + "_" + SanitizeFilename(version) + "_" + TimestampToken(t) + ".json"
}
