package ui

import (
	"time"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/config"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
)

// PrintOptions configures a one-shot render.
type PrintOptions struct {
	Config config.Config
	Width  int
	Now    time.Time
	Color  bool
}

// Print renders tasks the way the shell draws them, with every row shown
// and the chart at its left edge. Without Color the output is plain text.
func Print(tasks []model.Task, opts PrintOptions) string {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	m := New(Options{
		Config: opts.Config,
		Tasks:  tasks,
		Now:    func() time.Time { return now },
	})
	defer m.Close()

	rows := int(m.scene.Height)
	m.resize(max(opts.Width, MinChartWidth), rows+headerLines+footerLines)

	paint := m.paint
	if !opts.Color {
		paint = func(g *grid) string { return g.plain() }
	}
	return m.renderBody(paint)
}
