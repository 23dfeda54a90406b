// Package timemath holds the duration and calendar-day arithmetic shared by
// the attendance and overtime computations. All stored instants are UTC.
package timemath

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// HoursBetween returns end - start in fractional hours. Callers guard end >= start.
func HoursBetween(start, end time.Time) float64 {
	return end.Sub(start).Hours()
}

// DayBounds returns the local calendar day containing instant as a half-open
// [start, end) range in UTC. DST transition days are 23 or 25 hours long.
func DayBounds(instant time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	local := instant.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start.UTC(), end.UTC()
}

// DateOf returns the local calendar date of instant, represented as midnight UTC.
func DateOf(instant time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := instant.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// LocalDayBounds returns the bounds of the calendar date (midnight UTC
// representation) interpreted in loc.
func LocalDayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// AtLocalClock returns the instant at hour:minute on date in loc, in UTC.
func AtLocalClock(date time.Time, hour, minute int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, loc).UTC()
}

// LoadLocation resolves an IANA zone name, falling back to UTC.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Dates lists every calendar date in [from, to] inclusive.
func Dates(from, to time.Time) []time.Time {
	from = TruncateDate(from)
	to = TruncateDate(to)
	var out []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// TruncateDate drops the clock part, keeping the calendar date of t as written.
func TruncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RoundHours rounds to two decimals for presentation.
func RoundHours(h float64) float64 {
	f, _ := decimal.NewFromFloat(h).Round(2).Float64()
	return f
}
