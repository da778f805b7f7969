package model

import (
	"fmt"
	"time"
)

// dateLayout is the wire format for calendar dates.
const dateLayout = "2006-01-02"

// Date is a calendar date in "YYYY-MM-DD" form. All dates in persisted
// state are expressed in the scoreboard's home zone (Pacific time by
// default); the zone is applied when deriving a Date from a wall clock,
// after which day arithmetic is zone-independent.
type Date string

// ParseDate validates s as a calendar date.
func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date(s), nil
}

// DateOf returns the calendar date of t in loc.
func DateOf(t time.Time, loc *time.Location) Date {
	return Date(t.In(loc).Format(dateLayout))
}

// String returns the wire form.
func (d Date) String() string { return string(d) }

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d == "" }

// time parses the date at midnight UTC. Day arithmetic runs in UTC on
// purpose: a calendar date has no zone once it is fixed, and UTC has no
// DST transitions to skip or double a day.
func (d Date) time() time.Time {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	t := d.time()
	if t.IsZero() {
		return d
	}
	return Date(t.AddDate(0, 0, n).Format(dateLayout))
}

// FirstOfMonth returns the first day of d's month.
func (d Date) FirstOfMonth() Date {
	t := d.time()
	if t.IsZero() {
		return d
	}
	return Date(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).Format(dateLayout))
}

// Before reports whether d precedes other. Lexicographic comparison is
// correct for the fixed-width ISO layout.
func (d Date) Before(other Date) bool { return string(d) < string(other) }

// After reports whether d follows other.
func (d Date) After(other Date) bool { return string(d) > string(other) }

// Range returns every date from from through to, inclusive, ascending.
// An inverted range yields nil.
func Range(from, to Date) []Date {
	if from.IsZero() || to.IsZero() || from.After(to) {
		return nil
	}
	var out []Date
	for d := from; !d.After(to); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}
