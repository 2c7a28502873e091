package interaction

import (
	"math"
	"time"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/timescale"
)

// Mode is what a drag session changes.
type Mode int

const (
	ModeMove Mode = iota
	ModeResizeStart
	ModeResizeEnd
	ModeProgress
)

func (m Mode) String() string {
	switch m {
	case ModeResizeStart:
		return "resize-start"
	case ModeResizeEnd:
		return "resize-end"
	case ModeProgress:
		return "progress"
	default:
		return "move"
	}
}

// Session is one held gesture on a bar. It lives from pointer-down to
// pointer-up or cancel.
type Session struct {
	TaskID   string
	Mode     Mode
	AnchorX  float64
	LastX    float64
	ReadOnly bool

	Original            model.Task
	OriginalDescendants []model.Task
	Current             model.Task
	Descendants         []model.Task

	release func()
}

// Delta is the net horizontal pointer movement.
func (s *Session) Delta() float64 {
	return s.LastX - s.AnchorX
}

// Changed reports whether the gesture produced a different task.
func (s *Session) Changed() bool {
	return !s.Current.Start.Equal(s.Original.Start) ||
		!s.Current.End.Equal(s.Original.End) ||
		s.Current.Progress != s.Original.Progress
}

// covers reports whether the gesture moves task id.
func (s *Session) covers(id string) bool {
	if s.TaskID == id {
		return true
	}
	for _, d := range s.OriginalDescendants {
		if d.ID == id {
			return true
		}
	}
	return false
}

// rebase swaps the snapshot of t.ID for t. It reports false when the
// gesture does not cover t.
func (s *Session) rebase(t model.Task) bool {
	if s.Original.ID == t.ID {
		s.Original = t.Clone()
		return true
	}
	for i := range s.OriginalDescendants {
		if s.OriginalDescendants[i].ID == t.ID {
			s.OriginalDescendants[i] = t.Clone()
			return true
		}
	}
	return false
}

// apply recomputes Current and Descendants from the original snapshot for a
// pointer at x.
func (s *Session) apply(m *timescale.Mapper, x float64, step time.Duration) {
	s.LastX = x
	if s.ReadOnly {
		return
	}
	dx := x - s.AnchorX
	orig := s.Original
	cur := orig.Clone()

	switch s.Mode {
	case ModeMove:
		delta := snap(m.XToDate(m.DateToX(orig.Start)+dx).Sub(orig.Start), step)
		cur.Start = orig.Start.Add(delta)
		cur.End = orig.End.Add(delta)
		s.Descendants = shift(s.OriginalDescendants, delta)

	case ModeResizeStart:
		delta := snap(m.XToDate(m.DateToX(orig.Start)+dx).Sub(orig.Start), step)
		cur.Start = orig.Start.Add(delta)
		if limit := orig.End.Add(-step); cur.Start.After(limit) {
			cur.Start = limit
		}

	case ModeResizeEnd:
		delta := snap(m.XToDate(m.DateToX(orig.End)+dx).Sub(orig.End), step)
		cur.End = orig.End.Add(delta)
		if limit := orig.Start.Add(step); cur.End.Before(limit) {
			cur.End = limit
		}

	case ModeProgress:
		width := m.BarGeometry(orig, 0).Width
		if width > 0 {
			cur.Progress = model.ClampProgress(math.Round(orig.Progress + dx/width*100))
		}
	}
	s.Current = cur
}

// snap rounds d to a whole number of steps.
func snap(d, step time.Duration) time.Duration {
	if step <= 0 {
		return d
	}
	return time.Duration(math.Round(float64(d)/float64(step))) * step
}

func shift(tasks []model.Task, d time.Duration) []model.Task {
	out := model.CloneTasks(tasks)
	for i := range out {
		out[i].Start = out[i].Start.Add(d)
		out[i].End = out[i].End.Add(d)
	}
	return out
}
