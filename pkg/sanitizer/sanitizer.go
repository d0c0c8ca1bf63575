// Package sanitizer normalizes free-text fields (lane names, seasonal
// labels, block reasons) before validation, so equivalent inputs
// compare equal and stray whitespace never reaches the store.
package sanitizer

import (
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeLabel lowercases labels so they compare predictably when
// administrators filter on them.
func NormalizeLabel(label string) string {
	return strings.ToLower(TrimAndNormalize(label))
}

// NormalizeReason trims the optional operator-provided reason and caps
// whitespace runs; the empty string means "no reason given".
func NormalizeReason(reason string) string {
	return TrimAndNormalize(reason)
}
