package models

import (
	"encoding/json"
	"strings"
	"time"
)

// dateLayouts lists the formats observed in upstream payloads, most common first.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Date is a calendar date as exchanged with the QHSE API. The upstream stores
// dates as loose strings, so parsing is forgiving: an empty, null, or
// unparseable value behaves as an absent date rather than an error.
type Date struct {
	t time.Time
}

// DateOf builds a Date from a time, truncated to its calendar day.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	year, month, day := t.Date()
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.Local)}
}

// ParseDate parses an upstream date string. Unparseable input yields the zero
// Date, never an error.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return Date{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t)
		}
	}
	return Date{}
}

// IsZero reports whether the date is absent.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Time returns the date at midnight local time.
func (d Date) Time() time.Time {
	return d.t
}

// Year reports the calendar year, or 0 when absent.
func (d Date) Year() int {
	if d.IsZero() {
		return 0
	}
	return d.t.Year()
}

// Month reports the calendar month, or 0 when absent.
func (d Date) Month() time.Month {
	if d.IsZero() {
		return 0
	}
	return d.t.Month()
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format("2006-01-02")
}

// MarshalJSON renders the date as "YYYY-MM-DD", or null when absent.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts the upstream date conventions. Malformed values decode
// to the zero Date so a single bad record never aborts a snapshot fetch.
func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*d = Date{}
		return nil
	}
	*d = ParseDate(raw)
	return nil
}
