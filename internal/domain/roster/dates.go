package roster

import (
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing date cells from any of
// the four input tables
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate parses a date cell. Blank cells return (nil, true); cells
// matching no known layout return (nil, false) so callers can count the
// formatting issue without failing.
func ParseDate(v string) (*time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, true
		}
	}
	return nil, false
}
