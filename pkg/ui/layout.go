package ui

import (
	"github.com/Dicklesworthstone/gantt_viewer/pkg/config"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/layout"
)

// Fixed chrome, in terminal cells.
const (
	// headerLines is the two-row date header above the chart and list.
	headerLines = 2

	// footerLines holds the status line and the help line.
	footerLines = 2

	// tabLines is the pane switcher shown in tabbed mode.
	tabLines = 1

	// scrollbarWidth is the vertical scrollbar right of the chart.
	scrollbarWidth = 1

	// MinChartWidth keeps the chart pane usable when the list is shown.
	MinChartWidth = 20

	// arrowIndentCells is the dependency arrow indent in cells.
	arrowIndentCells = 2
)

// pane identifies which pane is active in tabbed mode.
type pane int

const (
	paneChart pane = iota
	paneList
)

// panes is the resolved geometry of one frame.
type panes struct {
	mode layout.Mode

	listX, listW int
	chartX       int
	chartW       int
	bodyY        int // first line of the header
	bodyH        int // rows below the header
	scrollbarX   int
}

// computePanes splits width x height according to the layout mode. The mode
// is decided once per resize from the tui breakpoint, not on every draw.
func computePanes(width, height int, tc config.TUIConfig, active pane) panes {
	p := panes{mode: layout.ModeFor(float64(width), float64(tc.Breakpoint), float64(tc.ListCells))}

	top := 0
	if p.mode == layout.Tabbed {
		top = tabLines
	}
	p.bodyY = top
	p.bodyH = max(height-top-headerLines-footerLines, 0)

	switch p.mode {
	case layout.SideBySide:
		p.listW = min(tc.ListCells, max(width-MinChartWidth-scrollbarWidth-1, 0))
		p.chartX = p.listW + 1 // divider
	case layout.Tabbed:
		if active == paneList {
			p.listW = width
			p.chartX = width
		}
	}
	p.chartW = max(width-p.chartX-scrollbarWidth, 0)
	p.scrollbarX = p.chartX + p.chartW
	if p.mode == layout.Tabbed && active == paneList {
		p.chartW = 0
		p.scrollbarX = -1
	}
	return p
}

// showList reports whether the list pane is drawn.
func (p panes) showList() bool { return p.listW > 0 }

// showChart reports whether the chart pane is drawn.
func (p panes) showChart() bool { return p.chartW > 0 }

// inChart reports whether screen cell (x, y) is inside the chart task area.
func (p panes) inChart(x, y int) bool {
	return p.showChart() && x >= p.chartX && x < p.chartX+p.chartW &&
		y >= p.bodyY+headerLines && y < p.bodyY+headerLines+p.bodyH
}

// inList reports whether screen cell (x, y) is inside the list rows.
func (p panes) inList(x, y int) bool {
	return p.showList() && x >= p.listX && x < p.listX+p.listW &&
		y >= p.bodyY+headerLines && y < p.bodyY+headerLines+p.bodyH
}

// onScrollbar reports whether screen cell (x, y) is on the scrollbar track.
func (p panes) onScrollbar(x, y int) bool {
	return p.scrollbarX >= 0 && x == p.scrollbarX &&
		y >= p.bodyY+headerLines && y < p.bodyY+headerLines+p.bodyH
}
