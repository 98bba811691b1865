// ABOUTME: Time parsing for publication dates from news APIs and RSS feeds
// ABOUTME: Tries the layouts those sources actually emit and reports whether one matched

package time

import (
	"strings"
	"time"
)

var layouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Parse tries each known layout and returns the time in UTC
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseOr returns the parsed time, or fallback when s matches no layout
func ParseOr(s string, fallback time.Time) time.Time {
	if t, ok := Parse(s); ok {
		return t
	}
	return fallback
}
