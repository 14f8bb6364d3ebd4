package helper

import (
	"regexp"
	"strings"
)

var illegalLabelPattern = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// IsLabel reports whether candidate is usable as a launchd job label and
// plist file name. The second result is the first offending character.
func IsLabel(candidate string) (bool, string) {
	if candidate == "" {
		return false, ""
	}
	if strings.HasPrefix(candidate, ".") {
		return false, "."
	}
	whyNot := illegalLabelPattern.FindString(candidate)
	return whyNot == "", whyNot
}
