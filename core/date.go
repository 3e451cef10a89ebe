package core

import (
	"fmt"
	"strings"
	"time"
)

// DateKeyLayout is the YYYY-MM-DD layout of a date key.
const DateKeyLayout = "2006-01-02"

// DateKey returns the YYYY-MM-DD key of t's own calendar day.
// The key is built from t's local year/month/day fields: converting to UTC first
// would move late-evening times onto the next day in zones behind UTC.
func DateKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), t.Month(), t.Day())
}

// ParseDateKey parses a YYYY-MM-DD key as midnight in loc (time.Local if nil).
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateKeyLayout, strings.TrimSpace(key), loc)
}

// NormalizeDateKey reduces a free-form stored date ("2025-12-19", "2025-12-19T10:00",
// " 2025-12-19 ") to its date key. Values that do not start with a date are returned trimmed.
func NormalizeDateKey(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < len(DateKeyLayout) {
		return s
	}
	if _, err := time.Parse(DateKeyLayout, s[:len(DateKeyLayout)]); err != nil {
		return s
	}
	return s[:len(DateKeyLayout)]
}
