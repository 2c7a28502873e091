package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/config"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Dracula-inspired chrome, chart colors come from config
// ══════════════════════════════════════════════════════════════════════════════

var (
	ColorBg          = lipgloss.Color("#282A36")
	ColorBgSubtle    = lipgloss.Color("#363949")
	ColorBgHighlight = lipgloss.Color("#44475A")
	ColorText        = lipgloss.Color("#F8F8F2")
	ColorSubtext     = lipgloss.Color("#BFBFBF")
	ColorMuted       = lipgloss.Color("#6272A4")

	ColorPrimary = lipgloss.Color("#BD93F9")
	ColorInfo    = lipgloss.Color("#8BE9FD")
	ColorSuccess = lipgloss.Color("#50FA7B")
	ColorWarning = lipgloss.Color("#FFB86C")
	ColorDanger  = lipgloss.Color("#FF5555")
)

// cellKind is what occupies a chart or list cell; each kind has one style.
type cellKind int

const (
	kindBlank cellKind = iota
	kindToday
	kindHeader
	kindHeaderToday
	kindBar
	kindBarProgress
	kindBarSelected
	kindBarProgressSelected
	kindBarDisabled
	kindLabelOnBar
	kindLabelOnProgress
	kindLabel
	kindArrow
	kindArrowConflict
	kindMilestone
	kindMilestoneSelected
	kindListRow
	kindListSelected
	kindListMuted
	kindScrollTrack
	kindScrollThumb
)

// Theme holds every style the terminal chart uses.
type Theme struct {
	cells map[cellKind]lipgloss.Style

	Title     lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	Hint      lipgloss.Style
	TabActive lipgloss.Style
	Tab       lipgloss.Style
	Box       lipgloss.Style
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Subtext   lipgloss.Color
	Border    lipgloss.Color
}

// hex drops an alpha channel lipgloss does not understand.
func hex(s string) lipgloss.Color {
	if len(s) == 9 && strings.HasPrefix(s, "#") {
		s = s[:7]
	}
	return lipgloss.Color(s)
}

// NewTheme builds the styles from the chart colors in c.
func NewTheme(c config.ColorConfig) Theme {
	bar := hex(c.BarBackground)
	progress := hex(c.BarProgress)
	barSel := hex(c.BarBackgroundSelected)
	progressSel := hex(c.BarProgressSelected)
	today := hex(c.Today)

	base := lipgloss.NewStyle()
	t := Theme{
		cells: map[cellKind]lipgloss.Style{
			kindBlank:               base,
			kindToday:               base.Background(today),
			kindHeader:              base.Foreground(ColorSubtext),
			kindHeaderToday:         base.Foreground(ColorBg).Background(today).Bold(true),
			kindBar:                 base.Foreground(bar),
			kindBarProgress:         base.Foreground(progress),
			kindBarSelected:         base.Foreground(barSel),
			kindBarProgressSelected: base.Foreground(progressSel),
			kindBarDisabled:         base.Foreground(ColorMuted),
			kindLabelOnBar:          base.Foreground(ColorBg).Background(bar),
			kindLabelOnProgress:     base.Foreground(ColorBg).Background(progress),
			kindLabel:               base.Foreground(ColorText),
			kindArrow:               base.Foreground(hex(c.Arrow)),
			kindArrowConflict:       base.Foreground(hex(c.ArrowConflict)),
			kindMilestone:           base.Foreground(ColorWarning),
			kindMilestoneSelected:   base.Foreground(ColorPrimary).Bold(true),
			kindListRow:             base.Foreground(ColorText),
			kindListSelected:        base.Foreground(ColorPrimary).Background(ColorBgHighlight).Bold(true),
			kindListMuted:           base.Foreground(ColorMuted),
			kindScrollTrack:         base.Foreground(ColorBgSubtle),
			kindScrollThumb:         base.Foreground(ColorPrimary),
		},
		Title:     base.Bold(true).Foreground(ColorPrimary),
		Status:    base.Foreground(ColorSubtext),
		Error:     base.Foreground(ColorDanger).Bold(true),
		Hint:      base.Faint(true).Italic(true),
		TabActive: base.Bold(true).Foreground(ColorBg).Background(ColorPrimary).Padding(0, 1),
		Tab:       base.Foreground(ColorMuted).Padding(0, 1),
		Box:       base.Border(lipgloss.RoundedBorder()).BorderForeground(ColorBgHighlight).Padding(1, 2),
		Primary:   ColorPrimary,
		Secondary: ColorMuted,
		Subtext:   ColorSubtext,
		Border:    ColorBgHighlight,
	}
	return t
}

func (t Theme) style(k cellKind) lipgloss.Style {
	if s, ok := t.cells[k]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// ══════════════════════════════════════════════════════════════════════════════
// INLINE BADGES
// ══════════════════════════════════════════════════════════════════════════════

// RenderProgress renders a compact progress percentage colored by how far
// along the task is.
func RenderProgress(progress float64) string {
	var color lipgloss.Color
	switch {
	case progress >= 100:
		color = ColorSuccess
	case progress >= 50:
		color = ColorInfo
	case progress > 0:
		color = ColorWarning
	default:
		color = ColorMuted
	}
	return lipgloss.NewStyle().Foreground(color).Render(formatPercent(progress))
}
