package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// helpSections titles the groups of KeyMap.FullHelp, in order.
var helpSections = []string{"Navigate", "Edit", "General"}

var mouseHelp = []string{
	"drag a bar to move it, drag its ends to resize",
	"drag the mark under a bar to set progress",
	"double-click a bar to edit, wheel to scroll",
}

// HelpOverlayModel is the full key reference drawn over the chart.
type HelpOverlayModel struct {
	open          bool
	width, height int
	theme         Theme
	keys          KeyMap
}

func NewHelpOverlayModel(theme Theme, keys KeyMap) HelpOverlayModel {
	return HelpOverlayModel{theme: theme, keys: keys}
}

func (m *HelpOverlayModel) Show()           { m.open = true }
func (m HelpOverlayModel) IsVisible() bool { return m.open }

func (m *HelpOverlayModel) SetSize(width, height int) {
	m.width, m.height = width, height
}

// Update closes the overlay on any key.
func (m HelpOverlayModel) Update(msg tea.Msg) (HelpOverlayModel, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok && m.open {
		m.open = false
	}
	return m, nil
}

func (m HelpOverlayModel) View() string {
	if !m.open {
		return ""
	}
	section := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Secondary)
	keyCol := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Primary).Width(14)
	desc := lipgloss.NewStyle().Foreground(m.theme.Subtext)

	lines := []string{m.theme.Title.Render("Gantt Chart Help"), ""}
	for i, group := range m.keys.FullHelp() {
		if i < len(helpSections) {
			lines = append(lines, section.Render(helpSections[i]))
		}
		for _, b := range group {
			if b.Enabled() {
				lines = append(lines, bindingLine(b, keyCol, desc))
			}
		}
		lines = append(lines, "")
	}
	lines = append(lines, section.Render("Mouse"))
	for _, s := range mouseHelp {
		lines = append(lines, "  "+desc.Render(s))
	}
	lines = append(lines, "", m.theme.Hint.Render("Press any key to close"))

	box := m.theme.Box.BorderForeground(m.theme.Primary).Width(56).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func bindingLine(b key.Binding, keyCol, desc lipgloss.Style) string {
	h := b.Help()
	return "  " + keyCol.Render(h.Key) + desc.Render(h.Desc)
}
