// Package timeslot holds the pure interval arithmetic used by availability
// and booking conflict checks. Times are wall-clock "HH:MM" strings; with
// zero-padded values lexicographic comparison matches chronological order,
// so intervals are compared with plain string operators throughout.
package timeslot

import (
	"regexp"
	"time"
)

// Interval is a half-open [Start, End) time-of-day range.
type Interval struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

var clockRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidClock reports whether s is a zero-padded "HH:MM" value.
func ValidClock(s string) bool {
	return clockRe.MatchString(s)
}

// IsValid reports whether the interval is non-empty and non-inverted.
func IsValid(iv Interval) bool {
	return iv.Start < iv.End
}

// Overlaps reports whether a and b share any time.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && a.End > b.Start
}

// Subtract removes booked from avail and returns the zero, one or two
// remaining pieces of avail.
func Subtract(avail, booked Interval) []Interval {
	if booked.End <= avail.Start || booked.Start >= avail.End {
		return []Interval{avail}
	}

	var result []Interval
	if booked.Start > avail.Start {
		result = append(result, Interval{Start: avail.Start, End: booked.Start})
	}
	if booked.End < avail.End {
		result = append(result, Interval{Start: booked.End, End: avail.End})
	}
	return result
}

// SubtractAll applies Subtract across a working set of open intervals, so a
// booking can split an interval that earlier bookings already shrank.
func SubtractAll(open []Interval, booked Interval) []Interval {
	var result []Interval
	for _, iv := range open {
		result = append(result, Subtract(iv, booked)...)
	}
	return result
}

// Weekday returns the weekday name ("Monday".."Sunday") for a date.
func Weekday(date time.Time) string {
	return date.Weekday().String()
}
