package domain

import (
	"fmt"
	"time"
)

// Providers report creation timestamps in one of two layouts: compute
// and image resources use the Zulu form, block storage includes
// microseconds and no zone designator. Both are interpreted as UTC.
const (
	createdLayoutZulu  = "2006-01-02T15:04:05Z"
	createdLayoutMicro = "2006-01-02T15:04:05.000000"
)

var createdLayouts = []string{createdLayoutZulu, createdLayoutMicro}

// ParseCreated parses a provider creation timestamp. The zero string is
// rejected so callers cannot silently treat a missing timestamp as the
// epoch.
func ParseCreated(s string) (time.Time, error) {
	t, _, err := parseCreated(s)
	return t, err
}

// ReformatCreated parses a timestamp and renders it back under the
// layout it arrived in. The result is byte-identical to the input for
// any timestamp the providers emit.
func ReformatCreated(s string) (string, error) {
	t, layout, err := parseCreated(s)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}

func parseCreated(s string) (time.Time, string, error) {
	if s == "" {
		return time.Time{}, "", fmt.Errorf("empty creation timestamp")
	}
	for _, layout := range createdLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, layout, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("unrecognized creation timestamp %q", s)
}
