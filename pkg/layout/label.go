package layout

import "github.com/Dicklesworthstone/gantt_viewer/pkg/timescale"

// Anchor is the horizontal text anchor of a label.
type Anchor string

const (
	AnchorMiddle Anchor = "middle"
	AnchorStart  Anchor = "start"
)

// Label is a placed bar label.
type Label struct {
	Text   string
	X      float64
	Y      float64
	Width  float64
	Anchor Anchor
	Inside bool
}

// PlaceLabel centers text inside bar when it fits and otherwise puts it
// after the bar, pushed right by an extra arrow indent when the task has
// visible children so it clears the expand affordance.
func PlaceLabel(text string, bar timescale.Bar, hasChildren bool, arrowIndent float64, m TextMeasurer) Label {
	width := 0.0
	if m != nil {
		width = m.Measure(text)
	}
	l := Label{Text: text, Y: bar.MidY(), Width: width}
	if !bar.Milestone && width <= bar.Width {
		l.X = bar.X + bar.Width/2
		l.Anchor = AnchorMiddle
		l.Inside = true
		return l
	}
	l.X = bar.X2() + arrowIndent*0.2
	if hasChildren {
		l.X += arrowIndent
	}
	l.Anchor = AnchorStart
	return l
}
