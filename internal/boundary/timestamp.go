// Package boundary implements the pure helper collaborators that sit
// between header values and the selector engine: value conditioning,
// timestamp parsing, and version-literal evaluation. None of it holds
// process-wide state, and none of it touches rule-file syntax, network
// retrieval, or on-disk cache layout — those remain external
// collaborators.
package boundary

import (
	"fmt"
	"strings"
	"time"
)

// layouts are tried in order, covering several common observation-header
// date/time spellings.
var layouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"02/01/2006 15:04:05",
}

// ParseDate accepts any of the common observation-header date/time
// forms and returns the parsed instant. It fails loudly on malformed
// input rather than guessing.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("boundary: empty date/time string")
	}
	var firstErr error
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		} else if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, fmt.Errorf("boundary: malformed date/time %q: %w", s, firstErr)
}

// ReformatDate canonicalizes a date/time string to the form used as the
// internal comparison key: "YYYY-MM-DD HH:MM:SS".
func ReformatDate(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return t.Format("2006-01-02 15:04:05"), nil
}
