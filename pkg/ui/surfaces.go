package ui

import (
	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/store"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/viewport"
)

// surface is a pane that keeps its own scroll offset, the way a native
// scroll container does. Moving the offset fires its scroll event.
type surface struct {
	offset   float64
	onScroll func(offset float64)
}

func (s *surface) scrollTo(v float64) {
	if v == s.offset {
		return
	}
	s.offset = v
	if s.onScroll != nil {
		s.onScroll(v)
	}
}

// wheelTarget delivers mouse wheel events over the list and chart to the
// subscribed handler.
type wheelTarget struct {
	handler viewport.WheelHandler
}

func (w *wheelTarget) AddWheelListener(h viewport.WheelHandler) func() {
	w.handler = h
	return func() { w.handler = nil }
}

// dispatch reports whether a subscribed handler consumed e.
func (w *wheelTarget) dispatch(e viewport.WheelEvent) bool {
	if w.handler == nil {
		return false
	}
	return w.handler(e)
}

// pointerCapture routes every mouse event to the bar drag while held, even
// when the pointer leaves the chart pane.
type pointerCapture struct {
	held bool
}

func (p *pointerCapture) Capture() func() {
	p.held = true
	return func() { p.held = false }
}

// chartSink feeds the interaction controller's visual updates back through
// the store so every render comes from one state.
type chartSink struct {
	store *store.Store
}

func (c chartSink) ApplyTasks(tasks []model.Task) {
	st := c.store.State()
	merged := st.Tasks
	for _, t := range tasks {
		if i := model.IndexByID(merged, t.ID); i >= 0 {
			merged[i] = t
		}
	}
	c.store.Dispatch(store.Init{Tasks: merged})
}

func (c chartSink) RemoveTask(id string) {
	c.store.Dispatch(store.DeleteTask{ID: id})
}
