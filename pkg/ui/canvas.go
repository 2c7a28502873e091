package ui

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/layout"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
)

// CellMeasurer measures labels in terminal cells, so the layout's label
// placement decides "fits inside the bar" with the same widths the terminal
// draws.
var CellMeasurer = layout.MeasureFunc(func(s string) float64 {
	return float64(runewidth.StringWidth(s))
})

// cell is one terminal cell. A zero rune marks the right half of a wide
// rune and is skipped when rendering.
type cell struct {
	ch   rune
	kind cellKind
}

// grid is a w x h block of cells drawn into before styling.
type grid struct {
	w, h  int
	cells []cell
}

func newGrid(w, h int) *grid {
	g := &grid{w: max(w, 0), h: max(h, 0)}
	g.cells = make([]cell, g.w*g.h)
	for i := range g.cells {
		g.cells[i] = cell{ch: ' '}
	}
	return g
}

func (g *grid) in(x, y int) bool { return x >= 0 && y >= 0 && x < g.w && y < g.h }

func (g *grid) get(x, y int) cell {
	if !g.in(x, y) {
		return cell{}
	}
	return g.cells[y*g.w+x]
}

func (g *grid) set(x, y int, ch rune, k cellKind) {
	if g.in(x, y) {
		g.cells[y*g.w+x] = cell{ch: ch, kind: k}
	}
}

// shade changes the kind of a cell without touching its rune.
func (g *grid) shade(x, y int, k cellKind) {
	if g.in(x, y) {
		g.cells[y*g.w+x].kind = k
	}
}

// text writes s from x, clipped to the grid, and returns the next x.
func (g *grid) text(x, y int, s string, k cellKind) int {
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if rw == 2 && !g.in(x+1, y) {
			g.set(x, y, ' ', k)
			x++
			continue
		}
		g.set(x, y, r, k)
		if rw == 2 {
			g.set(x+1, y, 0, k)
		}
		x += rw
	}
	return x
}

// render styles runs of equal kind and joins the lines.
func (g *grid) render(t Theme) string {
	var b strings.Builder
	var run strings.Builder
	for y := 0; y < g.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		kind := cellKind(-1)
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(t.style(kind).Render(run.String()))
				run.Reset()
			}
		}
		for x := 0; x < g.w; x++ {
			c := g.cells[y*g.w+x]
			if c.kind != kind {
				flush()
				kind = c.kind
			}
			if c.ch != 0 {
				run.WriteRune(c.ch)
			}
		}
		flush()
	}
	return b.String()
}

// plain returns the grid's runes without styling.
func (g *grid) plain() string {
	var b strings.Builder
	for y := 0; y < g.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < g.w; x++ {
			if c := g.cells[y*g.w+x]; c.ch != 0 {
				b.WriteRune(c.ch)
			}
		}
	}
	return b.String()
}

// Cell sampling: a cell covers chart units [c, c+1) and belongs to a shape
// when its center does.

func barColumns(x1, x2 float64) (first, last int) {
	first = int(math.Ceil(x1 - 0.5))
	last = int(math.Floor(x2 - 0.5))
	return first, max(last, first)
}

func barLine(y float64) int { return int(math.Ceil(y - 0.5)) }

func pointCell(p layout.Point) (int, int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y - 0.5))
}

// drawChart paints the task area of s into g, offset by the scroll
// position (sx, sy) in cells.
func drawChart(g *grid, s layout.Scene, sx, sy int, selected string) {
	m := s.Mapper.Metrics()
	if s.Today >= 0 {
		x0 := int(float64(s.Today)*m.ColumnWidth) - sx
		for x := x0; x < x0+int(m.ColumnWidth); x++ {
			for y := 0; y < g.h; y++ {
				g.shade(x, y, kindToday)
			}
		}
	}

	for _, a := range s.Arrows {
		drawArrow(g, a, sx, sy)
	}

	first := max(int(math.Floor(float64(sy)/m.RowHeight)), 0)
	last := min(int(math.Ceil(float64(sy+g.h)/m.RowHeight)), len(s.Rows))
	for i := first; i < last; i++ {
		drawBar(g, s.Rows[i], sx, sy, selected)
	}
}

func drawBar(g *grid, r layout.Row, sx, sy int, selected string) {
	b := r.Bar
	sel := r.Task.ID == selected
	y := barLine(b.Y) - sy

	if b.Milestone {
		k := kindMilestone
		if sel {
			k = kindMilestoneSelected
		}
		g.set(int(math.Floor(b.X+b.Width/2))-sx, y, '◆', k)
	} else {
		first, last := barColumns(b.X, b.X2())
		progressEnd := b.X + b.ProgressWidth
		for c := first; c <= last; c++ {
			k := barKind(r.Task, sel, float64(c)+0.5 < progressEnd)
			g.set(c-sx, y, '█', k)
		}
	}

	l := r.Label
	if l.Text == "" {
		return
	}
	if l.Inside {
		w := runewidth.StringWidth(l.Text)
		x := int(math.Round(l.X - float64(w)/2))
		first, _ := barColumns(b.X, b.X2())
		x = max(x, first)
		for _, ch := range l.Text {
			k := kindLabelOnBar
			if float64(x)+0.5 < b.X+b.ProgressWidth {
				k = kindLabelOnProgress
			}
			x = g.text(x-sx, y, string(ch), k) + sx
		}
		return
	}
	g.text(int(math.Ceil(l.X))-sx, y, l.Text, kindLabel)
}

func barKind(t model.Task, selected, progress bool) cellKind {
	switch {
	case t.Disabled:
		return kindBarDisabled
	case selected && progress:
		return kindBarProgressSelected
	case selected:
		return kindBarSelected
	case progress:
		return kindBarProgress
	default:
		return kindBar
	}
}

func drawArrow(g *grid, a layout.Arrow, sx, sy int) {
	k := kindArrow
	if a.Conflict {
		k = kindArrowConflict
	}

	type pt struct{ x, y int }
	var pts []pt
	for _, p := range a.Path {
		x, y := pointCell(p)
		c := pt{x - sx, y - sy}
		if len(pts) > 0 && pts[len(pts)-1] == c {
			continue
		}
		pts = append(pts, c)
	}
	if len(pts) < 2 {
		return
	}

	for i := 1; i < len(pts); i++ {
		p0, p1 := pts[i-1], pts[i]
		switch {
		case p0.y == p1.y:
			for x := min(p0.x, p1.x); x <= max(p0.x, p1.x); x++ {
				line(g, x, p0.y, '─', k)
			}
		case p0.x == p1.x:
			for y := min(p0.y, p1.y); y <= max(p0.y, p1.y); y++ {
				line(g, p0.x, y, '│', k)
			}
		}
	}
	for i := 1; i+1 < len(pts); i++ {
		g.set(pts[i].x, pts[i].y, corner(pts[i-1].x, pts[i-1].y, pts[i].x, pts[i].y, pts[i+1].x, pts[i+1].y), k)
	}

	tip := pts[len(pts)-1]
	g.set(tip.x-1, tip.y, '▶', k)
}

func line(g *grid, x, y int, ch rune, k cellKind) {
	cur := g.get(x, y).ch
	if (cur == '─' && ch == '│') || (cur == '│' && ch == '─') {
		ch = '┼'
	}
	g.set(x, y, ch, k)
}

// corner picks the box drawing rune joining the segment into (x, y) with
// the segment leaving it.
func corner(px, py, x, y, nx, ny int) rune {
	from := dir(x-px, y-py) // travel direction in
	to := dir(nx-x, ny-y)   // travel direction out
	switch {
	case from == 'r' && to == 'd', from == 'u' && to == 'l':
		return '┐'
	case from == 'r' && to == 'u', from == 'd' && to == 'l':
		return '┘'
	case from == 'l' && to == 'd', from == 'u' && to == 'r':
		return '┌'
	case from == 'l' && to == 'u', from == 'd' && to == 'r':
		return '└'
	case from == to && (to == 'u' || to == 'd'):
		return '│'
	}
	return '─'
}

func dir(dx, dy int) byte {
	switch {
	case dx > 0:
		return 'r'
	case dx < 0:
		return 'l'
	case dy > 0:
		return 'd'
	default:
		return 'u'
	}
}

// drawHeader writes the two header lines for the visible columns.
func drawHeader(g *grid, s layout.Scene, sx int) {
	colW := int(s.Mapper.Metrics().ColumnWidth)
	for i, c := range s.Header {
		x := i*colW - sx
		if x+colW <= 0 || x >= g.w {
			continue
		}
		k := kindHeader
		if i == s.Today {
			k = kindHeaderToday
			for dx := 0; dx < colW; dx++ {
				g.shade(x+dx, 1, k)
			}
		}
		if c.GroupStart && c.Top != "" {
			g.text(max(x, 0), 0, c.Top, kindHeader)
		}
		g.text(x, 1, runewidth.Truncate(c.Bottom, colW-1, ""), k)
	}
}

// drawScrollbar paints a vertical track with the viewport thumb.
func drawScrollbar(g *grid, x int, pos, size float64) {
	start := int(math.Round(pos))
	end := max(int(math.Round(pos+size)), start+1)
	for y := 0; y < g.h; y++ {
		if y >= start && y < end {
			g.set(x, y, '┃', kindScrollThumb)
		} else {
			g.set(x, y, '│', kindScrollTrack)
		}
	}
}
