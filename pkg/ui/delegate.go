package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/layout"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
)

// taskDelegate draws one list row per task, aligned with its bar.
type taskDelegate struct {
	ShowProgress bool // progress column, dropped on narrow lists
}

// typeIcon returns the list glyph for a task kind.
func typeIcon(t model.Task) string {
	switch t.Type {
	case model.TypeMilestone:
		return "◆"
	case model.TypeProject:
		return "▣"
	default:
		return "▪"
	}
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%3d%%", int(math.Round(model.ClampProgress(p))))
}

// row renders the text of r into width cells.
func (d taskDelegate) row(r layout.Row, width int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", r.Depth))
	switch {
	case r.Collapsed:
		b.WriteString("▸ ")
	case r.HasChildren:
		b.WriteString("▾ ")
	default:
		b.WriteString("  ")
	}
	b.WriteString(typeIcon(r.Task))
	b.WriteByte(' ')

	prefix := b.String()
	suffix := ""
	if d.ShowProgress && r.Task.Type != model.TypeMilestone {
		suffix = " " + formatPercent(r.Task.Progress)
	}

	nameWidth := width - runewidth.StringWidth(prefix) - runewidth.StringWidth(suffix)
	if nameWidth < 1 {
		return runewidth.Truncate(prefix+r.Task.Name, width, "…")
	}
	name := runewidth.Truncate(r.Task.Name, nameWidth, "…")
	name = runewidth.FillRight(name, nameWidth)
	return prefix + name + suffix
}

// drawList paints the visible list rows into g. Each name sits on the same
// line as its bar.
func drawList(g *grid, s layout.Scene, sy int, selected string) {
	d := taskDelegate{ShowProgress: g.w >= 24}
	rowH := s.Mapper.Metrics().RowHeight
	first := max(int(math.Floor(float64(sy)/rowH)), 0)
	last := min(int(math.Ceil(float64(sy+g.h)/rowH)), len(s.Rows))
	for i := first; i < last; i++ {
		r := s.Rows[i]
		y := barLine(r.Bar.Y) - sy
		k := kindListRow
		switch {
		case r.Task.ID == selected:
			k = kindListSelected
		case r.Task.Disabled:
			k = kindListMuted
		}
		g.text(0, y, d.row(r, g.w), k)
	}
}

// drawListHeader writes the column titles above the list.
func drawListHeader(g *grid) {
	g.text(1, 1, "Task", kindHeader)
	if g.w >= 24 {
		g.text(g.w-4, 1, "Done", kindHeader)
	}
}
