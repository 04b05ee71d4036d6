package model

import (
	"strings"
	"time"
)

// dateLayouts are tried in order; the first that parses wins. Day and month accept one or
// two digits.
var dateLayouts = []string{"2/1/2006", "2/1/06", "2006-1-2"}

// ParseDate parses a match date in DD/MM/YYYY, DD/MM/YY or YYYY-MM-DD form.
// It returns false for empty or unrecognised input instead of an error.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a stored date for display as DD/MM/YYYY, or returns the raw text
// when it does not parse.
func FormatDate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	return t.Format("02/01/2006")
}
