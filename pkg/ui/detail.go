package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/layout"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
)

// markdownRenderer renders markdown for terminal views and recreates the
// renderer when the wrap width changes.
type markdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

func (r *markdownRenderer) render(markdown string, width int) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}

	wrapWidth := max(width, 24)
	if r.renderer == nil || r.width != wrapWidth {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(wrapWidth),
		)
		if err != nil {
			return markdown
		}
		r.renderer = renderer
		r.width = wrapWidth
	}

	rendered, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(rendered, "\n")
}

// taskMarkdown summarizes a task and its schedule relations.
func taskMarkdown(t model.Task, s layout.Scene) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", t.Name)
	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| ID | `%s` |\n", t.ID)
	fmt.Fprintf(&b, "| Type | %s |\n", t.Type)
	fmt.Fprintf(&b, "| Start | %s |\n", t.Start.Format(formDateLayout))
	if t.Type != model.TypeMilestone {
		fmt.Fprintf(&b, "| End | %s |\n", t.End.Format(formDateLayout))
		fmt.Fprintf(&b, "| Duration | %s |\n", t.Duration())
	}
	if t.Type == model.TypeTask {
		fmt.Fprintf(&b, "| Progress | %.0f%% |\n", t.Progress)
	}
	if t.Disabled {
		b.WriteString("| Read only | yes |\n")
	}

	if len(t.Dependencies) > 0 {
		b.WriteString("\n## Depends on\n\n")
		for _, dep := range t.Dependencies {
			name := dep
			if r, ok := s.RowByID(dep); ok {
				name = r.Task.Name
			}
			mark := ""
			if s.Analysis.HasConflict(dep, t.ID) {
				mark = " **(starts before it ends)**"
			}
			fmt.Fprintf(&b, "- %s%s\n", name, mark)
		}
	}
	if len(t.Children) > 0 {
		fmt.Fprintf(&b, "\n## Children\n\n%d subtasks", len(t.Children))
		if t.HideChildren {
			b.WriteString(", folded")
		}
		b.WriteString("\n")
	}
	if s.Analysis.InCycle(t.ID) {
		b.WriteString("\n> This task is part of a dependency cycle.\n")
	}
	if notes := strings.TrimSpace(t.Notes); notes != "" {
		b.WriteString("\n## Notes\n\n")
		b.WriteString(notes)
		b.WriteString("\n")
	}
	return b.String()
}

// DetailModel is a scrollable markdown summary of the selected task.
type DetailModel struct {
	visible bool
	taskID  string
	vp      viewport.Model
	md      markdownRenderer
	theme   Theme
}

// NewDetailModel creates a hidden detail pane.
func NewDetailModel(theme Theme) DetailModel {
	return DetailModel{vp: viewport.New(40, 10), theme: theme}
}

// Show renders t into the pane and makes it visible.
func (m *DetailModel) Show(t model.Task, s layout.Scene) {
	m.visible = true
	m.taskID = t.ID
	m.vp.SetContent(m.md.render(taskMarkdown(t, s), m.vp.Width-2))
	m.vp.GotoTop()
}

// Refresh re-renders t keeping the scroll position.
func (m *DetailModel) Refresh(t model.Task, s layout.Scene) {
	m.taskID = t.ID
	y := m.vp.YOffset
	m.vp.SetContent(m.md.render(taskMarkdown(t, s), m.vp.Width-2))
	m.vp.SetYOffset(y)
}

// Hide closes the pane.
func (m *DetailModel) Hide() { m.visible = false }

// IsVisible returns true if the pane is showing
func (m DetailModel) IsVisible() bool { return m.visible }

// TaskID is the task on display.
func (m DetailModel) TaskID() string { return m.taskID }

// SetSize sets the pane dimensions
func (m *DetailModel) SetSize(width, height int) {
	m.vp.Width = max(width-6, 20)
	m.vp.Height = max(height-6, 3)
}

// Update scrolls the pane; esc or i closes it.
func (m DetailModel) Update(msg tea.Msg) (DetailModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc", "i", "q":
			m.visible = false
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// View renders the pane in a box.
func (m DetailModel) View() string {
	if !m.visible {
		return ""
	}
	footer := m.theme.Hint.Render(fmt.Sprintf("%3.0f%%  [↑/↓] scroll  [Esc] close", m.vp.ScrollPercent()*100))
	return m.theme.Box.Render(m.vp.View() + "\n" + footer)
}
