package layout

// Mode decides how the list panel and the chart share the available width.
type Mode int

const (
	// SideBySide shows the list panel left of the chart.
	SideBySide Mode = iota
	// Tabbed shows one pane at a time.
	Tabbed
	// ChartOnly is used when the list panel is disabled.
	ChartOnly
)

func (m Mode) String() string {
	switch m {
	case SideBySide:
		return "side-by-side"
	case Tabbed:
		return "tabbed"
	default:
		return "chart-only"
	}
}

// ModeFor picks the mode for a viewport of the given width. It is computed
// once per size change and passed down to the panes.
func ModeFor(width, breakpoint, listWidth float64) Mode {
	if listWidth <= 0 {
		return ChartOnly
	}
	if width < breakpoint {
		return Tabbed
	}
	return SideBySide
}
