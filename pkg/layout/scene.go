package layout

import (
	"time"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/analysis"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/timescale"
)

// Options control scene construction.
type Options struct {
	Granularity  timescale.Granularity
	Metrics      timescale.Metrics
	HeaderHeight float64
	ArrowIndent  float64
	Locale       string
	Now          time.Time
	// Ticks pins the axis when it holds at least two ticks, so a scene
	// rebuilt mid-drag keeps the mapping the gesture started with.
	Ticks []time.Time
}

// DefaultOptions returns the chart defaults.
func DefaultOptions() Options {
	return Options{
		Granularity:  timescale.Day,
		Metrics:      timescale.DefaultMetrics(),
		HeaderHeight: 100,
		ArrowIndent:  20,
		Locale:       "en-US",
	}
}

// Row is one laid out task.
type Row struct {
	Task        model.Task
	Index       int
	Depth       int
	Bar         timescale.Bar
	Label       Label
	HasChildren bool // has at least one visible child
	Collapsed   bool // has children hidden by HideChildren
}

// Scene is everything a renderer needs to paint the chart. Coordinates are
// relative to the top-left of the task area; the header sits above it.
type Scene struct {
	Scale    timescale.Scale
	Mapper   *timescale.Mapper
	Header   []timescale.HeaderCell
	Rows     []Row
	Arrows   []Arrow
	Today    int // column index of now, -1 if off axis
	Width    float64
	Height   float64
	Options  Options
	Analysis analysis.Report
}

// Build lays out tasks in two passes: geometry first, then labels measured
// with m. Collapsed subtrees are excluded and dangling references are
// skipped.
func Build(tasks []model.Task, opts Options, m TextMeasurer) Scene {
	if !opts.Granularity.IsValid() {
		opts.Granularity = timescale.Day
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	visible := model.VisibleTasks(tasks)
	scale := timescale.New(visible, opts.Granularity, now)
	opts.Granularity = scale.Granularity
	if len(opts.Ticks) >= 2 {
		scale = timescale.Scale{
			Granularity: opts.Granularity,
			Start:       opts.Ticks[0],
			End:         opts.Ticks[len(opts.Ticks)-1],
			Ticks:       opts.Ticks,
		}
	}
	mapper := timescale.NewMapper(scale.Ticks, opts.Metrics)
	opts.Metrics = mapper.Metrics()
	parents := model.ParentIndex(tasks)

	scene := Scene{
		Scale:    scale,
		Mapper:   mapper,
		Header:   timescale.NewLabeler(opts.Locale).Header(scale),
		Today:    scale.TodayIndex(now),
		Width:    mapper.ContentWidth(),
		Height:   mapper.ContentHeight(len(visible)),
		Options:  opts,
		Analysis: analysis.Analyze(tasks),
	}

	rowOf := make(map[string]int, len(visible))
	scene.Rows = make([]Row, len(visible))
	for i, t := range visible {
		rowOf[t.ID] = i
		scene.Rows[i] = Row{
			Task:        t,
			Index:       i,
			Depth:       model.Depth(t.ID, parents),
			Bar:         mapper.BarGeometry(t, i),
			HasChildren: model.HasVisibleChildren(t, tasks),
			Collapsed:   t.HideChildren && t.HasChildren(),
		}
	}

	for i := range scene.Rows {
		r := &scene.Rows[i]
		r.Label = PlaceLabel(r.Task.Name, r.Bar, r.HasChildren, opts.ArrowIndent, m)
	}

	for _, to := range scene.Rows {
		for _, depID := range to.Task.Dependencies {
			fi, ok := rowOf[depID]
			if !ok {
				continue
			}
			from := scene.Rows[fi]
			path := Route(from.Bar, to.Bar, from.Index, to.Index, opts.Metrics.RowHeight, opts.ArrowIndent, from.HasChildren)
			scene.Arrows = append(scene.Arrows, Arrow{
				FromID:   from.Task.ID,
				ToID:     to.Task.ID,
				Path:     path,
				Head:     ArrowHead(path[len(path)-1]),
				Conflict: scene.Analysis.HasConflict(from.Task.ID, to.Task.ID),
			})
		}
	}
	return scene
}

// RowAt returns the row whose band contains y, if any.
func (s Scene) RowAt(y float64) (Row, bool) {
	i := s.Mapper.YToRow(y)
	if i < 0 || i >= len(s.Rows) {
		return Row{}, false
	}
	return s.Rows[i], true
}

// RowByID finds the row of a visible task.
func (s Scene) RowByID(id string) (Row, bool) {
	for _, r := range s.Rows {
		if r.Task.ID == id {
			return r, true
		}
	}
	return Row{}, false
}
