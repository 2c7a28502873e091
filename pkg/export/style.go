// Package export renders a laid out chart to static formats (SVG via svgo,
// PNG via gg) and serves rendered bundles through a local preview server.
package export

import (
	"github.com/Dicklesworthstone/gantt_viewer/pkg/config"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/layout"
)

// Palette holds chart colours as #rrggbb or #rrggbbaa strings.
type Palette struct {
	BarProgress           string
	BarProgressSelected   string
	BarBackground         string
	BarBackgroundSelected string
	Arrow                 string
	ArrowConflict         string
	Today                 string
	Grid                  string
	Text                  string
	Background            string
}

// Style is everything about the picture that the scene does not decide.
type Style struct {
	Palette      Palette
	CornerRadius float64
	FontSize     float64
	ListWidth    float64 // 0 hides the list panel
	Selected     string  // task id drawn with the selected colours
	Title        string
}

// StyleFromConfig maps the config colour and chart sections onto a Style.
func StyleFromConfig(cfg config.Config) Style {
	c := cfg.Colors
	return Style{
		Palette: Palette{
			BarProgress:           c.BarProgress,
			BarProgressSelected:   c.BarProgressSelected,
			BarBackground:         c.BarBackground,
			BarBackgroundSelected: c.BarBackgroundSelected,
			Arrow:                 c.Arrow,
			ArrowConflict:         c.ArrowConflict,
			Today:                 c.Today,
			Grid:                  c.Grid,
			Text:                  "#555555",
			Background:            "#ffffff",
		},
		CornerRadius: cfg.Chart.BarCornerRadius,
		FontSize:     cfg.Chart.FontSize,
		ListWidth:    cfg.List.Width,
		Title:        "Gantt chart",
	}
}

// DefaultStyle is StyleFromConfig over the built-in defaults.
func DefaultStyle() Style {
	return StyleFromConfig(config.Default())
}

// frame is the outer geometry shared by the renderers: the list panel on
// the left, the header on top and the task area below it.
type frame struct {
	list   float64
	header float64
	width  float64
	height float64
}

func newFrame(s layout.Scene, st Style) frame {
	list := max(st.ListWidth, 0)
	header := max(s.Options.HeaderHeight, 0)
	return frame{
		list:   list,
		header: header,
		width:  list + s.Width,
		height: header + s.Height,
	}
}

// chartX converts a chart x to picture space.
func (f frame) chartX(x float64) float64 { return f.list + x }

// chartY converts a task area y to picture space.
func (f frame) chartY(y float64) float64 { return f.header + y }

func (st Style) barColors(id string) (bg, progress string) {
	if id != "" && id == st.Selected {
		return st.Palette.BarBackgroundSelected, st.Palette.BarProgressSelected
	}
	return st.Palette.BarBackground, st.Palette.BarProgress
}

func (st Style) arrowColor(a layout.Arrow) string {
	if a.Conflict {
		return st.Palette.ArrowConflict
	}
	return st.Palette.Arrow
}

// diamond returns the milestone outline inscribed in a square bar.
func diamond(x, y, size float64) [4]layout.Point {
	half := size / 2
	return [4]layout.Point{
		{X: x + half, Y: y},
		{X: x + size, Y: y + half},
		{X: x + half, Y: y + size},
		{X: x, Y: y + half},
	}
}

// listText truncates a list panel entry to fit width using measure.
func listText(text string, width float64, measure func(string) float64) string {
	if width <= 0 || measure(text) <= width {
		return text
	}
	runes := []rune(text)
	for n := len(runes) - 1; n > 0; n-- {
		s := string(runes[:n]) + "…"
		if measure(s) <= width {
			return s
		}
	}
	return ""
}
