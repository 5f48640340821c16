package util

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// epochMillisThreshold separates unix seconds from unix milliseconds.
// 1e11 seconds is year 5138; 1e11 ms is March 1973.
const epochMillisThreshold = 1e11

// ParseTime tries RFC3339, RFC3339Nano, a bare date and unix seconds or
// milliseconds. Returns (t, true) if any worked. Results are UTC.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	if ts, err := strconv.ParseFloat(s, 64); err == nil && ts > 0 {
		return FromEpoch(ts), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// FromEpoch converts unix seconds or milliseconds to UTC time.
func FromEpoch(v float64) time.Time {
	if math.Abs(v) >= epochMillisThreshold {
		return time.UnixMilli(int64(v)).UTC()
	}
	sec, frac := math.Modf(v)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}

// DayUTC truncates t to midnight UTC of its calendar day.
func DayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
