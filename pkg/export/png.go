package export

import (
	"fmt"
	"io"

	"git.sr.ht/~sbinet/gg"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/layout"
)

// maxPNGSide bounds the raster size; wide year-long hour charts are better
// exported as SVG.
const maxPNGSide = 16384

// RenderPNG rasterizes the scene with gg. Text is drawn with a fresh Go
// Regular face at the style's font size, the same face FaceMeasurer uses for
// label placement.
func RenderPNG(w io.Writer, s layout.Scene, st Style) error {
	f := newFrame(s, st)
	width, height := px(f.width), px(f.height)
	if width <= 0 || height <= 0 {
		return fmt.Errorf("empty chart (%dx%d)", width, height)
	}
	if width > maxPNGSide || height > maxPNGSide {
		return fmt.Errorf("chart too large for png (%dx%d), export svg instead", width, height)
	}

	fm, err := layout.NewFaceMeasurer(st.FontSize)
	if err != nil {
		return err
	}

	p := st.Palette
	dc := gg.NewContext(width, height)
	dc.SetHexColor(p.Background)
	dc.Clear()
	dc.SetFontFace(fm.Face())

	m := s.Mapper.Metrics()

	// grid
	if s.Today >= 0 {
		dc.SetHexColor(p.Today)
		dc.DrawRectangle(f.chartX(float64(s.Today)*m.ColumnWidth), f.header, m.ColumnWidth, s.Height)
		dc.Fill()
	}
	dc.SetHexColor(p.Grid)
	dc.SetLineWidth(1)
	for i := 0; i <= len(s.Scale.Ticks); i++ {
		x := f.chartX(float64(i) * m.ColumnWidth)
		dc.DrawLine(x, 0, x, f.height)
	}
	for i := 0; i <= len(s.Rows); i++ {
		y := f.chartY(float64(i) * m.RowHeight)
		dc.DrawLine(0, y, f.width, y)
	}
	dc.DrawLine(0, f.header/2, f.width, f.header/2)
	dc.Stroke()

	// header
	dc.SetHexColor(p.Text)
	for i, cell := range s.Header {
		x := f.chartX(float64(i) * m.ColumnWidth)
		dc.DrawStringAnchored(cell.Bottom, x+m.ColumnWidth/2, f.header*0.75, 0.5, 0.5)
		if cell.GroupStart && cell.Top != "" {
			dc.DrawStringAnchored(cell.Top, x+6, f.header*0.3, 0, 0.5)
		}
	}

	// list panel
	if f.list > 0 {
		dc.DrawStringAnchored("Name", 8, f.header*0.75, 0, 0.5)
		for _, r := range s.Rows {
			indent := 8 + float64(r.Depth)*12
			name := r.Task.Name
			if r.Collapsed {
				name = "▸ " + name
			} else if r.HasChildren {
				name = "▾ " + name
			}
			y := f.chartY(s.Mapper.RowToY(r.Index) + m.RowHeight/2)
			dc.DrawStringAnchored(listText(name, f.list-indent-4, fm.Measure), indent, y, 0, 0.5)
		}
		dc.SetHexColor(p.Arrow)
		dc.DrawLine(f.list, 0, f.list, f.height)
		dc.Stroke()
	}

	// arrows
	dc.SetLineWidth(1.5)
	for _, a := range s.Arrows {
		dc.SetHexColor(st.arrowColor(a))
		for i, pt := range a.Path {
			if i == 0 {
				dc.MoveTo(f.chartX(pt.X), f.chartY(pt.Y))
				continue
			}
			dc.LineTo(f.chartX(pt.X), f.chartY(pt.Y))
		}
		dc.Stroke()
		for i, pt := range a.Head {
			if i == 0 {
				dc.MoveTo(f.chartX(pt.X), f.chartY(pt.Y))
				continue
			}
			dc.LineTo(f.chartX(pt.X), f.chartY(pt.Y))
		}
		dc.ClosePath()
		dc.Fill()
	}

	// bars
	for _, r := range s.Rows {
		b := r.Bar
		bg, progress := st.barColors(r.Task.ID)
		x, y := f.chartX(b.X), f.chartY(b.Y)
		if b.Milestone {
			pts := diamond(x, y, b.Height)
			dc.SetHexColor(bg)
			dc.MoveTo(pts[0].X, pts[0].Y)
			for _, pt := range pts[1:] {
				dc.LineTo(pt.X, pt.Y)
			}
			dc.ClosePath()
			dc.Fill()
		} else {
			dc.SetHexColor(bg)
			dc.DrawRoundedRectangle(x, y, b.Width, b.Height, st.CornerRadius)
			dc.Fill()
			if b.ProgressWidth > 0 {
				dc.SetHexColor(progress)
				dc.DrawRoundedRectangle(x, y, b.ProgressWidth, b.Height, st.CornerRadius)
				dc.Fill()
			}
		}

		l := r.Label
		ax := 0.0
		dc.SetHexColor(p.Text)
		if l.Inside {
			ax = 0.5
			dc.SetHexColor(p.Background)
		}
		dc.DrawStringAnchored(l.Text, f.chartX(l.X), f.chartY(l.Y), ax, 0.5)
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
