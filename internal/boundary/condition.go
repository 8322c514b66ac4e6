package boundary

import (
	"strconv"
	"strings"
)

// ConditionValue canonicalizes a raw header or key value: trim
// incidental whitespace and strip a trailing ".0" from values that
// present as floats with no fractional part. Letter case is not
// changed. Values that do not parse as numbers pass through unchanged
// apart from the trimming, so regexes, globs, and braced literals
// (handled upstream in the matcher factory) are never rewritten.
func ConditionValue(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return conditionNumeric(s, f)
	}
	return s
}

// conditionNumeric normalizes float-looking values so "1.0" and "1"
// condition to the same key, accommodating float/int presentation
// drift between a rule file's authored keys and a lookup header.
func conditionNumeric(raw string, f float64) string {
	if f == float64(int64(f)) && !strings.ContainsAny(raw, "eE") {
		// Preserve the decimal form used throughout rule-file keys
		// (e.g. "1.2") rather than collapsing to a bare integer, but
		// drop a redundant trailing ".0" on whole numbers like "5.0".
		if strings.HasSuffix(raw, ".0") {
			return strings.TrimSuffix(raw, ".0")
		}
	}
	return raw
}

// StripTrailingZero returns s with a single trailing ".0" removed, used
// by BadValue validation to accept "value.0" where the
// legal set only lists "value".
func StripTrailingZero(s string) string {
	if strings.HasSuffix(s, ".0") {
		return strings.TrimSuffix(s, ".0")
	}
	return s
}
