package layout

import "github.com/Dicklesworthstone/gantt_viewer/pkg/timescale"

// arrowHead is the half size of the arrowhead triangle.
const arrowHead = 5

// Point is a position in chart pixels.
type Point struct {
	X, Y float64
}

// Arrow is a routed dependency connector from a prerequisite bar to a
// dependent bar.
type Arrow struct {
	FromID   string
	ToID     string
	Path     []Point
	Head     [3]Point
	Conflict bool
}

// Route computes an orthogonal path from the right edge of from to the left
// edge of to. The path leaves horizontally by indent, turns half a row toward
// the target row, doubles back before the target when the bars overlap
// horizontally, and enters the target at its vertical center.
func Route(from, to timescale.Bar, fromRow, toRow int, rowHeight, arrowIndent float64, fromHasVisibleChildren bool) []Point {
	indent := arrowIndent
	if fromHasVisibleChildren {
		indent += arrowIndent
	}
	dir := 1.0
	if fromRow > toRow {
		dir = -1
	}

	start := Point{from.X2(), from.MidY()}
	out := Point{start.X + indent, start.Y}
	turn := Point{out.X, start.Y + dir*rowHeight/2}
	path := []Point{start, out, turn}

	x := turn.X
	if start.X+indent*2 >= to.X {
		x = to.X - arrowIndent
		path = append(path, Point{x, turn.Y})
	}
	path = append(path, Point{x, to.MidY()}, Point{to.X, to.MidY()})
	return path
}

// ArrowHead returns the triangle pointing into tip from the left.
func ArrowHead(tip Point) [3]Point {
	return [3]Point{
		{tip.X - arrowHead, tip.Y - arrowHead},
		tip,
		{tip.X - arrowHead, tip.Y + arrowHead},
	}
}
