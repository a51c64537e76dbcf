package utils

import "time"

// NowRFC3339 returns the current time in RFC3339 format
func NowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// ParseRFC3339 parses a time string in RFC3339 format
func ParseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// NowMillis returns the current Unix time in milliseconds, the unit
// used by the composite mindmap and node identifiers.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
