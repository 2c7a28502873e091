package timescale

import (
	"math"
	"time"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
)

// MaxColumns bounds the axis. New coarsens the granularity until the padded
// range fits; only a Year axis is ever cut short.
const MaxColumns = 20000

// padding is how far the range extends past the task span, in units of
// align. Hour charts are padded in whole days.
type padding struct {
	align Granularity
	lead  int
	trail int
}

var paddings = map[Granularity]padding{
	Hour:  {align: Day, lead: 1, trail: 2},
	Day:   {align: Day, lead: 1, trail: 19},
	Week:  {align: Week, lead: 1, trail: 6},
	Month: {align: Month, lead: 1, trail: 2},
	Year:  {align: Year, lead: 1, trail: 2},
}

// Range returns the padded date window covering every task. now is only
// consulted when tasks is empty.
func Range(tasks []model.Task, g Granularity, now time.Time) (time.Time, time.Time) {
	if !g.IsValid() {
		g = Day
	}
	p := paddings[g]

	if len(tasks) == 0 {
		anchor := p.align.Truncate(now)
		return p.align.Add(anchor, -p.lead), p.align.Add(anchor, p.trail)
	}

	minStart, maxEnd := tasks[0].Start, tasks[0].End
	for _, t := range tasks[1:] {
		if t.Start.Before(minStart) {
			minStart = t.Start
		}
		if t.End.After(maxEnd) {
			maxEnd = t.End
		}
	}
	if maxEnd.Before(minStart) {
		maxEnd = minStart
	}

	start := p.align.Add(p.align.Truncate(minStart), -p.lead)
	end := p.align.Add(p.align.Truncate(maxEnd), p.trail)
	return start, end
}

// Ticks returns one date per unit of g from start until the first tick at or
// after end, so both ends are covered.
func Ticks(start, end time.Time, g Granularity) []time.Time {
	if !g.IsValid() {
		g = Day
	}
	ticks := []time.Time{start}
	for i := 1; i < MaxColumns; i++ {
		if !ticks[len(ticks)-1].Before(end) {
			break
		}
		ticks = append(ticks, g.Add(start, i))
	}
	if len(ticks) == 1 {
		ticks = append(ticks, g.Add(start, 1))
	}
	return ticks
}

// columns counts the ticks Ticks would produce for start..end at g.
func columns(start, end time.Time, g Granularity) int {
	if !end.After(start) {
		return 2
	}
	hours := float64(end.Unix()-start.Unix()) / 3600
	var n float64
	switch g {
	case Hour:
		n = hours
	case Week:
		n = hours / (24 * 7)
	case Month:
		y1, m1, _ := start.Date()
		y2, m2, _ := end.Date()
		return (y2-y1)*12 + int(m2-m1) + 2
	case Year:
		return end.Year() - start.Year() + 2
	default:
		n = hours / 24
	}
	return int(math.Ceil(n)) + 1
}

// Fits reports whether the axis for tasks at g stays within MaxColumns.
func Fits(tasks []model.Task, g Granularity, now time.Time) bool {
	if !g.IsValid() {
		g = Day
	}
	start, end := Range(tasks, g, now)
	return columns(start, end, g) <= MaxColumns
}

// Fit returns g, or the finest coarser granularity whose axis fits.
func Fit(tasks []model.Task, g Granularity, now time.Time) Granularity {
	if !g.IsValid() {
		g = Day
	}
	for g != Year && !Fits(tasks, g, now) {
		g = g.Next()
	}
	return g
}

// Scale is the computed axis for one render.
type Scale struct {
	Granularity Granularity
	Start       time.Time
	End         time.Time
	Ticks       []time.Time
}

// New computes the range and ticks for tasks. The returned Granularity is
// coarser than g when g would exceed MaxColumns.
func New(tasks []model.Task, g Granularity, now time.Time) Scale {
	g = Fit(tasks, g, now)
	start, end := Range(tasks, g, now)
	return Scale{
		Granularity: g,
		Start:       start,
		End:         end,
		Ticks:       Ticks(start, end, g),
	}
}

// Columns is the number of chart columns.
func (s Scale) Columns() int {
	return len(s.Ticks)
}

// TodayIndex returns the column containing now, or -1 when now is outside
// the axis.
func (s Scale) TodayIndex(now time.Time) int {
	for i := 0; i+1 < len(s.Ticks); i++ {
		if !now.Before(s.Ticks[i]) && now.Before(s.Ticks[i+1]) {
			return i
		}
	}
	return -1
}
