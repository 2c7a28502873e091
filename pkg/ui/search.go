package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/layout"
)

// SearchModel is the "/" prompt. Every keystroke moves the selection to the
// best fuzzy match among the visible rows.
type SearchModel struct {
	input  textinput.Model
	active bool
}

// NewSearchModel creates an inactive search prompt.
func NewSearchModel() SearchModel {
	in := textinput.New()
	in.Prompt = "/"
	in.Placeholder = "task name or id"
	in.CharLimit = 120
	return SearchModel{input: in}
}

// Open focuses an empty prompt.
func (m *SearchModel) Open() tea.Cmd {
	m.active = true
	m.input.SetValue("")
	return m.input.Focus()
}

// Close blurs the prompt.
func (m *SearchModel) Close() {
	m.active = false
	m.input.Blur()
}

// Active reports whether the prompt has focus.
func (m SearchModel) Active() bool { return m.active }

// Query is the current text.
func (m SearchModel) Query() string { return m.input.Value() }

// SetWidth sets the prompt width in cells.
func (m *SearchModel) SetWidth(w int) { m.input.Width = max(w-4, 8) }

// Update feeds a message to the input.
func (m SearchModel) Update(msg tea.Msg) (SearchModel, tea.Cmd) {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the prompt.
func (m SearchModel) View() string {
	if !m.active {
		return ""
	}
	return m.input.View()
}

// bestMatch returns the index of the row best matching query, or -1.
func bestMatch(query string, rows []layout.Row) int {
	if query == "" || len(rows) == 0 {
		return -1
	}
	targets := make([]string, len(rows))
	for i, r := range rows {
		targets[i] = r.Task.Name + " " + r.Task.ID
	}
	matches := fuzzy.Find(query, targets)
	if len(matches) == 0 {
		return -1
	}
	return matches[0].Index
}
