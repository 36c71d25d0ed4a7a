// Package timeutil provides timestamp formatting helpers shared by the
// mail queue and academic components.
// No external dependencies - uses only standard library.
package timeutil

import "time"

// ISO8601 is the timestamp layout used on the wire (metadata.createdAt,
// exam dates in email bodies). RFC 3339 with millisecond precision.
const ISO8601 = "2006-01-02T15:04:05.000Z07:00"

// NowISO returns the current UTC time formatted as ISO 8601.
func NowISO() string {
	return FormatISO(time.Now())
}

// FormatISO formats a time as ISO 8601 in UTC.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISO8601)
}

// ParseISO parses an ISO 8601 timestamp produced by FormatISO.
func ParseISO(s string) (time.Time, error) {
	return time.Parse(ISO8601, s)
}

// FormatDate formats a time as a human-readable date for email bodies,
// e.g. "Monday, 02 January 2006".
func FormatDate(t time.Time) string {
	return t.Format("Monday, 02 January 2006")
}
