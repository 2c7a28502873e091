// Package timescale turns a task collection into a uniform time axis and maps
// between calendar time and pixel space on that axis.
package timescale

import (
	"fmt"
	"strings"
	"time"
)

// Granularity is the calendar unit of one chart column.
type Granularity string

const (
	Hour  Granularity = "hour"
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
	Year  Granularity = "year"
)

// Granularities lists every granularity from finest to coarsest.
var Granularities = []Granularity{Hour, Day, Week, Month, Year}

// ParseGranularity accepts a granularity name, case-insensitively.
func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(s)))
	if !g.IsValid() {
		return "", fmt.Errorf("unknown granularity %q (want hour, day, week, month or year)", s)
	}
	return g, nil
}

// IsValid returns true if g is a recognized granularity.
func (g Granularity) IsValid() bool {
	switch g {
	case Hour, Day, Week, Month, Year:
		return true
	}
	return false
}

// Add moves t by n units of g. Calendar units use AddDate so columns follow
// the calendar rather than a fixed duration.
func (g Granularity) Add(t time.Time, n int) time.Time {
	switch g {
	case Hour:
		return t.Add(time.Duration(n) * time.Hour)
	case Week:
		return t.AddDate(0, 0, 7*n)
	case Month:
		return t.AddDate(0, n, 0)
	case Year:
		return t.AddDate(n, 0, 0)
	default:
		return t.AddDate(0, 0, n)
	}
}

// Truncate rounds t down to the start of its unit in t's location. Weeks
// start on Monday.
func (g Granularity) Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	loc := t.Location()
	switch g {
	case Hour:
		return time.Date(y, m, d, t.Hour(), 0, 0, 0, loc)
	case Week:
		offset := (int(t.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
	case Month:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case Year:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
}

// Next cycles to the next coarser granularity, wrapping after Year.
func (g Granularity) Next() Granularity {
	for i, v := range Granularities {
		if v == g {
			return Granularities[(i+1)%len(Granularities)]
		}
	}
	return Day
}

// Prev cycles to the next finer granularity, wrapping before Hour.
func (g Granularity) Prev() Granularity {
	for i, v := range Granularities {
		if v == g {
			return Granularities[(i+len(Granularities)-1)%len(Granularities)]
		}
	}
	return Day
}
