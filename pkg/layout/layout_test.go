package layout

import (
	"testing"
	"time"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/timescale"
)

var perRune = MeasureFunc(func(s string) float64 { return float64(len([]rune(s))) * 7 })

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestPlaceLabel(t *testing.T) {
	bar := timescale.Bar{X: 100, Y: 10, Width: 70, Height: 30}
	tests := []struct {
		name        string
		text        string
		hasChildren bool
		wantInside  bool
		wantX       float64
	}{
		{"fits", "short", false, true, 135},
		{"exact fit", "0123456789", false, true, 135},
		{"overflow", "a much longer label", false, false, 174},
		{"overflow with children", "a much longer label", true, false, 194},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := PlaceLabel(tt.text, bar, tt.hasChildren, 20, perRune)
			if l.Inside != tt.wantInside || l.X != tt.wantX {
				t.Errorf("got inside=%v x=%v, want inside=%v x=%v", l.Inside, l.X, tt.wantInside, tt.wantX)
			}
			if l.Y != 25 {
				t.Errorf("Y = %v, want bar middle 25", l.Y)
			}
		})
	}
}

func TestPlaceLabel_MilestoneAlwaysOutside(t *testing.T) {
	bar := timescale.Bar{X: 100, Width: 30, Height: 30, Milestone: true}
	if l := PlaceLabel("", bar, false, 20, perRune); l.Inside {
		t.Error("milestone labels sit beside the diamond")
	}
}

func TestRoute_ForwardGap(t *testing.T) {
	from := timescale.Bar{X: 0, Y: 10, Width: 100, Height: 30}
	to := timescale.Bar{X: 200, Y: 60, Width: 50, Height: 30}
	path := Route(from, to, 0, 1, 50, 20, false)

	want := []Point{{100, 25}, {120, 25}, {120, 50}, {120, 75}, {200, 75}}
	assertPath(t, path, want)
}

func TestRoute_OverlapDoublesBack(t *testing.T) {
	from := timescale.Bar{X: 0, Y: 10, Width: 100, Height: 30}
	to := timescale.Bar{X: 110, Y: 60, Width: 50, Height: 30}
	path := Route(from, to, 0, 1, 50, 20, false)

	want := []Point{{100, 25}, {120, 25}, {120, 50}, {90, 50}, {90, 75}, {110, 75}}
	assertPath(t, path, want)
}

func TestRoute_ChildrenIndentAndUpward(t *testing.T) {
	from := timescale.Bar{X: 0, Y: 60, Width: 100, Height: 30}
	to := timescale.Bar{X: 300, Y: 10, Width: 50, Height: 30}
	path := Route(from, to, 1, 0, 50, 20, true)

	want := []Point{{100, 75}, {140, 75}, {140, 50}, {140, 25}, {300, 25}}
	assertPath(t, path, want)
}

func assertPath(t *testing.T, got, want []Point) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("path has %d points, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBuild(t *testing.T) {
	tasks := []model.Task{
		{ID: "P", Name: "Project", Type: model.TypeProject, Start: day(1), End: day(10), Children: []string{"A", "B"}},
		{ID: "A", Name: "A", Start: day(1), End: day(4)},
		{ID: "B", Name: "B", Start: day(3), End: day(8), Dependencies: []string{"A", "ghost"}},
	}
	opts := DefaultOptions()
	opts.Now = day(2)
	s := Build(tasks, opts, perRune)

	if len(s.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(s.Rows))
	}
	if !s.Rows[0].HasChildren || s.Rows[1].Depth != 1 {
		t.Errorf("hierarchy not resolved: %+v", s.Rows[:2])
	}
	if len(s.Arrows) != 1 {
		t.Fatalf("expected one arrow (ghost skipped), got %d", len(s.Arrows))
	}
	if a := s.Arrows[0]; a.FromID != "A" || a.ToID != "B" || !a.Conflict {
		t.Errorf("unexpected arrow %+v", a)
	}
	if s.Width != float64(s.Scale.Columns())*60 || s.Height != 150 {
		t.Errorf("content size = %vx%v", s.Width, s.Height)
	}
	if s.Today < 0 {
		t.Error("today should be on the axis")
	}
	if r, ok := s.RowAt(60); !ok || r.Task.ID != "A" {
		t.Errorf("RowAt(60) = %v, %v", r.Task.ID, ok)
	}
}

func TestBuild_CollapsedSubtree(t *testing.T) {
	tasks := []model.Task{
		{ID: "P", Name: "Project", Start: day(1), End: day(10), Children: []string{"A"}, HideChildren: true},
		{ID: "A", Name: "A", Start: day(1), End: day(4)},
		{ID: "B", Name: "B", Start: day(5), End: day(8), Dependencies: []string{"A"}},
	}
	s := Build(tasks, DefaultOptions(), perRune)
	if len(s.Rows) != 2 {
		t.Fatalf("expected hidden child dropped, got %d rows", len(s.Rows))
	}
	if !s.Rows[0].Collapsed || s.Rows[0].HasChildren {
		t.Errorf("collapsed flags wrong: %+v", s.Rows[0])
	}
	if len(s.Arrows) != 0 {
		t.Errorf("arrows from hidden rows must not render")
	}
}

func TestFaceMeasurer(t *testing.T) {
	m, err := NewFaceMeasurer(14)
	if err != nil {
		t.Fatalf("NewFaceMeasurer: %v", err)
	}
	short, long := m.Measure("ab"), m.Measure("abcdef")
	if short <= 0 || long <= short {
		t.Errorf("widths not monotonic: %v %v", short, long)
	}
	if _, err := NewFaceMeasurer(0); err == nil {
		t.Error("expected error for zero size")
	}
}

func TestModeFor(t *testing.T) {
	tests := []struct {
		name       string
		width      float64
		breakpoint float64
		list       float64
		want       Mode
	}{
		{"wide", 1200, 800, 155, SideBySide},
		{"at breakpoint", 800, 800, 155, SideBySide},
		{"narrow", 640, 800, 155, Tabbed},
		{"list disabled", 1200, 800, 0, ChartOnly},
		{"list disabled narrow", 300, 800, 0, ChartOnly},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ModeFor(tt.width, tt.breakpoint, tt.list); got != tt.want {
				t.Errorf("ModeFor(%v, %v, %v) = %v, want %v", tt.width, tt.breakpoint, tt.list, got, tt.want)
			}
		})
	}
}

func TestBuildPinnedTicks(t *testing.T) {
	tasks := []model.Task{{ID: "A", Name: "A", Start: day(1), End: day(5)}}
	opts := DefaultOptions()
	opts.Now = day(1)
	first := Build(tasks, opts, perRune)

	moved := []model.Task{{ID: "A", Name: "A", Start: day(-10), End: day(-6)}}
	opts.Ticks = first.Scale.Ticks
	pinned := Build(moved, opts, perRune)
	if pinned.Scale.Start != first.Scale.Start || len(pinned.Scale.Ticks) != len(first.Scale.Ticks) {
		t.Fatalf("pinned scale changed: %v..%v", pinned.Scale.Start, pinned.Scale.End)
	}
	if x := pinned.Rows[0].Bar.X; x >= 0 {
		t.Errorf("bar before the pinned axis should extrapolate to negative x, got %v", x)
	}
}

func TestBuild_LongRangeCoarsensAxis(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	tasks := []model.Task{{ID: "A", Name: "A", Start: start, End: start.AddDate(3, 0, 0)}}
	opts := DefaultOptions()
	opts.Granularity = timescale.Hour
	opts.Now = start
	s := Build(tasks, opts, perRune)

	if s.Scale.Granularity != timescale.Day || s.Options.Granularity != timescale.Day {
		t.Fatalf("granularity = %s, options %s", s.Scale.Granularity, s.Options.Granularity)
	}
	if bar := s.Rows[0].Bar; s.Width < bar.X2() {
		t.Errorf("content width %v ends before the bar end %v", s.Width, bar.X2())
	}
}
