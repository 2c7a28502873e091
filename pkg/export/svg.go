package export

import (
	"fmt"
	"html"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/layout"
)

// errWriter remembers the first write error, since svgo drops them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}

func px(f float64) int { return int(math.Round(f)) }

func attr(name, value string) string {
	return fmt.Sprintf(`%s="%s"`, name, html.EscapeString(value))
}

// RenderSVG draws the scene as a standalone SVG document.
func RenderSVG(w io.Writer, s layout.Scene, st Style) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	f := newFrame(s, st)
	p := st.Palette

	canvas.Start(px(f.width), px(f.height))
	if st.Title != "" {
		canvas.Title(st.Title)
	}
	canvas.Rect(0, 0, px(f.width), px(f.height), "fill:"+p.Background)
	canvas.Group(fmt.Sprintf("font-family:sans-serif;font-size:%gpx", st.FontSize))

	svgGrid(canvas, s, f, p)
	svgHeader(canvas, s, f, p)
	if f.list > 0 {
		svgList(canvas, s, f, st)
	}

	canvas.Group(attr("class", "arrows"), "fill:none")
	for _, a := range s.Arrows {
		color := st.arrowColor(a)
		xs := make([]int, len(a.Path))
		ys := make([]int, len(a.Path))
		for i, pt := range a.Path {
			xs[i], ys[i] = px(f.chartX(pt.X)), px(f.chartY(pt.Y))
		}
		canvas.Polyline(xs, ys, "stroke:"+color+";stroke-width:1.5;fill:none",
			attr("data-from", a.FromID), attr("data-to", a.ToID))
		hx := make([]int, 3)
		hy := make([]int, 3)
		for i, pt := range a.Head {
			hx[i], hy[i] = px(f.chartX(pt.X)), px(f.chartY(pt.Y))
		}
		canvas.Polygon(hx, hy, "fill:"+color)
	}
	canvas.Gend()

	canvas.Group(attr("class", "bars"))
	for _, r := range s.Rows {
		svgBar(canvas, r, f, st)
	}
	canvas.Gend()

	canvas.Gend()
	canvas.End()
	return ew.err
}

func svgGrid(canvas *svg.SVG, s layout.Scene, f frame, p Palette) {
	m := s.Mapper.Metrics()
	cols := len(s.Scale.Ticks)
	canvas.Group(attr("class", "grid"))
	if s.Today >= 0 {
		canvas.Rect(px(f.chartX(float64(s.Today)*m.ColumnWidth)), px(f.header),
			px(m.ColumnWidth), px(s.Height), "fill:"+p.Today)
	}
	for i := 0; i <= cols; i++ {
		x := px(f.chartX(float64(i) * m.ColumnWidth))
		canvas.Line(x, 0, x, px(f.height), "stroke:"+p.Grid)
	}
	for i := 0; i <= len(s.Rows); i++ {
		y := px(f.chartY(float64(i) * m.RowHeight))
		canvas.Line(0, y, px(f.width), y, "stroke:"+p.Grid)
	}
	canvas.Line(0, px(f.header/2), px(f.width), px(f.header/2), "stroke:"+p.Grid)
	if f.list > 0 {
		canvas.Line(px(f.list), 0, px(f.list), px(f.height), "stroke:"+p.Arrow)
	}
	canvas.Gend()
}

func svgHeader(canvas *svg.SVG, s layout.Scene, f frame, p Palette) {
	colW := s.Mapper.Metrics().ColumnWidth
	canvas.Group(attr("class", "header"), "fill:"+p.Text)
	for i, cell := range s.Header {
		x := f.chartX(float64(i) * colW)
		canvas.Text(px(x+colW/2), px(f.header*0.8), cell.Bottom, "text-anchor:middle")
		if cell.GroupStart && cell.Top != "" {
			canvas.Text(px(x+6), px(f.header*0.35), cell.Top, "text-anchor:start")
		}
	}
	canvas.Gend()
}

func svgList(canvas *svg.SVG, s layout.Scene, f frame, st Style) {
	rowH := s.Mapper.Metrics().RowHeight
	canvas.Group(attr("class", "list"), "fill:"+st.Palette.Text)
	canvas.Text(8, px(f.header*0.8), "Name", "font-weight:bold")
	for _, r := range s.Rows {
		indent := 8 + float64(r.Depth)*12
		name := r.Task.Name
		if r.Collapsed {
			name = "▸ " + name
		} else if r.HasChildren {
			name = "▾ " + name
		}
		y := f.chartY(s.Mapper.RowToY(r.Index) + rowH/2)
		canvas.Text(px(indent), px(y), listText(name, f.list-indent-4, approxWidth(st.FontSize)),
			"dominant-baseline:central", attr("data-task-id", r.Task.ID))
	}
	canvas.Gend()
}

func svgBar(canvas *svg.SVG, r layout.Row, f frame, st Style) {
	b := r.Bar
	bg, progress := st.barColors(r.Task.ID)
	id := attr("data-task-id", r.Task.ID)
	x, y := f.chartX(b.X), f.chartY(b.Y)

	if b.Milestone {
		pts := diamond(x, y, b.Height)
		xs := make([]int, len(pts))
		ys := make([]int, len(pts))
		for i, pt := range pts {
			xs[i], ys[i] = px(pt.X), px(pt.Y)
		}
		canvas.Polygon(xs, ys, "fill:"+bg, id)
	} else {
		radius := px(st.CornerRadius)
		canvas.Roundrect(px(x), px(y), px(b.Width), px(b.Height), radius, radius, "fill:"+bg, id)
		if b.ProgressWidth > 0 {
			canvas.Roundrect(px(x), px(y), px(b.ProgressWidth), px(b.Height), radius, radius, "fill:"+progress)
		}
	}

	l := r.Label
	textFill := st.Palette.Text
	if l.Inside {
		textFill = st.Palette.Background
	}
	canvas.Text(px(f.chartX(l.X)), px(f.chartY(l.Y)), l.Text,
		"text-anchor:"+string(l.Anchor)+";dominant-baseline:central;fill:"+textFill)
}

// approxWidth is used for list truncation where exact metrics are not
// worth a font face.
func approxWidth(size float64) func(string) float64 {
	return func(s string) float64 { return float64(len([]rune(s))) * size * 0.55 }
}
