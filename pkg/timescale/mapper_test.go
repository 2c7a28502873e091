package timescale

import (
	"math"
	"testing"
	"time"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
)

func dayMapper() *Mapper {
	ticks := Ticks(date(2023, time.December, 31), date(2024, time.January, 24), Day)
	return NewMapper(ticks, DefaultMetrics())
}

func TestDateToX(t *testing.T) {
	m := dayMapper()
	tests := []struct {
		name string
		d    time.Time
		want float64
	}{
		{"first tick", date(2023, time.December, 31), 0},
		{"one day", date(2024, time.January, 1), 60},
		{"half day", time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC), 90},
		{"before range extrapolates", date(2023, time.December, 30), -60},
		{"last tick", date(2024, time.January, 24), 24 * 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.DateToX(tt.d); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("DateToX = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, g := range Granularities {
		t.Run(string(g), func(t *testing.T) {
			start := date(2024, time.January, 1)
			end := g.Add(start, 40)
			m := NewMapper(Ticks(start, end, g), DefaultMetrics())

			step := end.Sub(start) / 97
			for d := start; d.Before(end); d = d.Add(step) {
				d = d.Truncate(time.Millisecond)
				if got := m.XToDate(m.DateToX(d)); !got.Equal(d) {
					t.Fatalf("round trip of %v gave %v", d, got)
				}
			}
		})
	}
}

func TestXToDate_Column(t *testing.T) {
	m := dayMapper()
	if got := m.XToDate(120); !got.Equal(date(2024, time.January, 2)) {
		t.Errorf("XToDate(120) = %v", got)
	}
}

func TestBarGeometry(t *testing.T) {
	m := dayMapper()
	task := model.Task{ID: "A", Start: date(2024, time.January, 1), End: date(2024, time.January, 5), Progress: 50}
	bar := m.BarGeometry(task, 2)

	if bar.X != 60 || bar.Width != 240 {
		t.Errorf("x/width = %v/%v, want 60/240", bar.X, bar.Width)
	}
	if bar.ProgressWidth != 120 {
		t.Errorf("progress width = %v, want 120", bar.ProgressWidth)
	}
	if bar.Height != 30 || bar.Y != 110 {
		t.Errorf("y/height = %v/%v, want 110/30", bar.Y, bar.Height)
	}
	if !bar.Contains(100, 120) || bar.Contains(10, 120) {
		t.Error("Contains is wrong")
	}
}

func TestBarGeometry_ZeroDurationIsGrabbable(t *testing.T) {
	m := dayMapper()
	d := date(2024, time.January, 3)
	bar := m.BarGeometry(model.Task{ID: "Z", Start: d, End: d}, 0)
	if bar.Width != m.MinBarWidth() || bar.Width <= 0 {
		t.Errorf("width = %v, want %v", bar.Width, m.MinBarWidth())
	}
}

func TestBarGeometry_Milestone(t *testing.T) {
	m := dayMapper()
	d := date(2024, time.January, 3)
	bar := m.BarGeometry(model.Task{ID: "M", Start: d, End: d, Type: model.TypeMilestone}, 0)
	if !bar.Milestone || bar.Width != bar.Height {
		t.Errorf("milestone should be square, got %+v", bar)
	}
	if center := bar.X + bar.Width/2; center != m.DateToX(d) {
		t.Errorf("milestone center %v, want %v", center, m.DateToX(d))
	}
}

func TestRowMapping(t *testing.T) {
	m := dayMapper()
	if m.RowToY(3) != 150 || m.YToRow(151) != 3 || m.YToRow(-1) != -1 {
		t.Error("row mapping is wrong")
	}
}
