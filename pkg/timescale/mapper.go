package timescale

import (
	"math"
	"sort"
	"time"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
)

// Metrics are the pixel dimensions of the chart grid.
type Metrics struct {
	ColumnWidth float64
	RowHeight   float64
	BarFill     float64 // percent of RowHeight taken by a bar
	HandleWidth float64
}

// DefaultMetrics matches the chart defaults.
func DefaultMetrics() Metrics {
	return Metrics{ColumnWidth: 60, RowHeight: 50, BarFill: 60, HandleWidth: 8}
}

// Mapper converts between dates and pixels over a fixed tick sequence. Each
// column spans exactly ColumnWidth pixels regardless of its calendar length,
// so the mapping is piecewise linear.
type Mapper struct {
	ticks   []time.Time
	metrics Metrics
}

// NewMapper builds a mapper over ticks. Fewer than two ticks produce a
// degenerate mapper that maps every date to 0.
func NewMapper(ticks []time.Time, m Metrics) *Mapper {
	if m.ColumnWidth <= 0 {
		m.ColumnWidth = DefaultMetrics().ColumnWidth
	}
	if m.RowHeight <= 0 {
		m.RowHeight = DefaultMetrics().RowHeight
	}
	if m.BarFill <= 0 || m.BarFill > 100 {
		m.BarFill = DefaultMetrics().BarFill
	}
	return &Mapper{ticks: ticks, metrics: m}
}

// Metrics returns the mapper's grid metrics.
func (m *Mapper) Metrics() Metrics { return m.metrics }

// Ticks returns the tick sequence the mapper was built over.
func (m *Mapper) Ticks() []time.Time { return m.ticks }

// ContentWidth is the full chart width in pixels.
func (m *Mapper) ContentWidth() float64 {
	return float64(len(m.ticks)) * m.metrics.ColumnWidth
}

// ContentHeight is the height of rows task rows in pixels.
func (m *Mapper) ContentHeight(rows int) float64 {
	return float64(rows) * m.metrics.RowHeight
}

// column returns the interval index used for d. Dates outside the axis
// extrapolate from the first or last interval.
func (m *Mapper) column(d time.Time) int {
	n := len(m.ticks)
	idx := sort.Search(n, func(i int) bool { return m.ticks[i].After(d) }) - 1
	return clampIndex(idx, n)
}

func clampIndex(idx, n int) int {
	if idx > n-2 {
		idx = n - 2
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// DateToX returns the horizontal pixel offset of d.
func (m *Mapper) DateToX(d time.Time) float64 {
	if len(m.ticks) < 2 {
		return 0
	}
	idx := m.column(d)
	interval := m.ticks[idx+1].Sub(m.ticks[idx])
	if interval <= 0 {
		return float64(idx) * m.metrics.ColumnWidth
	}
	rem := d.Sub(m.ticks[idx])
	cw := m.metrics.ColumnWidth
	return float64(idx)*cw + cw*float64(rem)/float64(interval)
}

// XToDate is the inverse of DateToX at millisecond resolution.
func (m *Mapper) XToDate(x float64) time.Time {
	if len(m.ticks) == 0 {
		return time.Time{}
	}
	if len(m.ticks) == 1 {
		return m.ticks[0]
	}
	cw := m.metrics.ColumnWidth
	idx := clampIndex(int(math.Floor(x/cw)), len(m.ticks))
	interval := m.ticks[idx+1].Sub(m.ticks[idx])
	frac := (x - float64(idx)*cw) / cw
	ms := math.Round(frac * float64(interval) / float64(time.Millisecond))
	return m.ticks[idx].Add(time.Duration(ms) * time.Millisecond)
}

// RowToY returns the top pixel of row index.
func (m *Mapper) RowToY(index int) float64 {
	return float64(index) * m.metrics.RowHeight
}

// YToRow returns the row under pixel y, which may be out of range.
func (m *Mapper) YToRow(y float64) int {
	return int(math.Floor(y / m.metrics.RowHeight))
}

// BarHeight is the height of a bar inside its row.
func (m *Mapper) BarHeight() float64 {
	return m.metrics.RowHeight * m.metrics.BarFill / 100
}

// MinBarWidth keeps zero-length bars grabbable by both handles.
func (m *Mapper) MinBarWidth() float64 {
	if w := 2 * m.metrics.HandleWidth; w > 0 {
		return w
	}
	return 1
}

// Bar is the pixel geometry of one task.
type Bar struct {
	X             float64
	Y             float64
	Width         float64
	Height        float64
	ProgressWidth float64
	Milestone     bool
}

// X2 is the right edge of the bar.
func (b Bar) X2() float64 { return b.X + b.Width }

// MidY is the vertical center of the bar.
func (b Bar) MidY() float64 { return b.Y + b.Height/2 }

// Contains reports whether (x, y) falls on the bar.
func (b Bar) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X2() && y >= b.Y && y <= b.Y+b.Height
}

// BarGeometry derives the bar of task drawn in row index. Milestones are a
// square of bar height centered on the start date.
func (m *Mapper) BarGeometry(task model.Task, index int) Bar {
	h := m.BarHeight()
	bar := Bar{
		Y:      m.RowToY(index) + (m.metrics.RowHeight-h)/2,
		Height: h,
	}
	x1 := m.DateToX(task.Start)
	if task.Type == model.TypeMilestone {
		bar.X = x1 - h/2
		bar.Width = h
		bar.Milestone = true
		return bar
	}
	x2 := m.DateToX(task.End)
	bar.X = x1
	bar.Width = math.Max(x2-x1, m.MinBarWidth())
	bar.ProgressWidth = bar.Width * model.ClampProgress(task.Progress) / 100
	return bar
}
