package tools

import (
	"strings"
	"time"
)

// dateLayouts lists the timestamp layouts seen in WHOIS and RDAP data.
// Layouts without a zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2-Jan-2006",
	"02-Jan-2006 15:04:05 MST",
	"2006.01.02",
	"2006.01.02 15:04:05",
	"2006/01/02",
	"02.01.2006",
	"January 02 2006",
	"Mon Jan 2 15:04:05 MST 2006",
}

// NormalizeInstant converts a creation-date value of any supported
// shape into a UTC instant. Accepted shapes, in priority order:
// time.Time, *time.Time, string, and slices of those (first element).
// The boolean is false when the value is absent, empty, zero or cannot
// be parsed.
func NormalizeInstant(v any) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false
		}
		return val.UTC(), true
	case *time.Time:
		if val == nil {
			return time.Time{}, false
		}
		return NormalizeInstant(*val)
	case string:
		return ParseDate(val)
	case []time.Time:
		if len(val) == 0 {
			return time.Time{}, false
		}
		return NormalizeInstant(val[0])
	case []string:
		if len(val) == 0 {
			return time.Time{}, false
		}
		return NormalizeInstant(val[0])
	case []any:
		if len(val) == 0 {
			return time.Time{}, false
		}
		return NormalizeInstant(val[0])
	default:
		return time.Time{}, false
	}
}

// ParseDate attempts to parse the date formats commonly found in WHOIS
// data and returns the instant in UTC.
func ParseDate(dateStr string) (time.Time, bool) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			if t.IsZero() {
				return time.Time{}, false
			}
			return t.UTC(), true
		}
	}

	return time.Time{}, false
}
