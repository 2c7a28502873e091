package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
)

// dateLayouts are accepted by the edit form, most specific first.
var dateLayouts = []string{"2006-01-02 15:04", "2006-01-02"}

const formDateLayout = "2006-01-02 15:04"

func parseWhen(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("want YYYY-MM-DD or YYYY-MM-DD HH:MM, got %q", s)
}

func parseProgress(s string) (float64, error) {
	p, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "%")), 64)
	if err != nil {
		return 0, errors.New("progress must be a number")
	}
	if p < 0 || p > 100 {
		return 0, errors.New("progress must be between 0 and 100")
	}
	return p, nil
}

// EditFormModel is the modal opened by the activate (double-click) event.
// It edits a copy of the task; the chart only changes once it is submitted.
type EditFormModel struct {
	form     *huh.Form
	original model.Task
	width    int
	theme    Theme

	name     string
	start    string
	end      string
	progress string
	notes    string
	disabled bool

	submitted bool
	cancelled bool
}

// NewEditFormModel creates a form prefilled from t.
func NewEditFormModel(t model.Task, theme Theme) *EditFormModel {
	m := &EditFormModel{
		original: t.Clone(),
		theme:    theme,
		name:     t.Name,
		start:    t.Start.Format(formDateLayout),
		end:      t.End.Format(formDateLayout),
		progress: strconv.FormatFloat(t.Progress, 'f', -1, 64),
		notes:    t.Notes,
		disabled: t.Disabled,
	}
	loc := t.Start.Location()
	validDate := func(s string) error {
		_, err := parseWhen(s, loc)
		return err
	}

	fields := []huh.Field{
		huh.NewInput().Title("Name").Value(&m.name).Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("name is required")
			}
			return nil
		}),
		huh.NewInput().Title("Start").Placeholder(formDateLayout).Value(&m.start).Validate(validDate),
	}
	if t.Type != model.TypeMilestone {
		fields = append(fields,
			huh.NewInput().Title("End").Placeholder(formDateLayout).Value(&m.end).Validate(validDate),
		)
	}
	if t.Type == model.TypeTask {
		fields = append(fields,
			huh.NewInput().Title("Progress %").Value(&m.progress).Validate(func(s string) error {
				_, err := parseProgress(s)
				return err
			}),
		)
	}
	fields = append(fields,
		huh.NewText().Title("Notes").Value(&m.notes).Lines(4),
		huh.NewConfirm().Title("Read only").Value(&m.disabled),
	)

	m.form = huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(true).WithWidth(56)
	return m
}

// Init implements tea.Model
func (m *EditFormModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update forwards input to the form and records completion.
func (m *EditFormModel) Update(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		m.cancelled = true
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		m.submitted = true
	case huh.StateAborted:
		m.cancelled = true
	}
	return cmd
}

// View renders the form in a box.
func (m *EditFormModel) View() string {
	var b strings.Builder
	title := m.theme.Title.Width(56).Align(lipgloss.Center)
	b.WriteString(title.Render("Edit " + m.original.ID))
	b.WriteString("\n\n")
	b.WriteString(m.form.View())
	b.WriteString("\n")
	b.WriteString(m.theme.Hint.Render("[Enter] next/submit  [Esc] cancel"))
	return m.theme.Box.Render(b.String())
}

// SetSize sets the modal dimensions
func (m *EditFormModel) SetSize(width, height int) {
	m.width = width
	m.form = m.form.WithWidth(min(56, max(width-10, 20))).WithHeight(max(height-8, 6))
}

// IsSubmitted returns true if the user submitted the form
func (m *EditFormModel) IsSubmitted() bool { return m.submitted }

// IsCancelled returns true if the user cancelled
func (m *EditFormModel) IsCancelled() bool { return m.cancelled }

// TaskID returns the task being edited
func (m *EditFormModel) TaskID() string { return m.original.ID }

// Result builds the edited task. End is clamped so it never precedes start.
func (m *EditFormModel) Result() (model.Task, error) {
	t := m.original.Clone()
	loc := t.Start.Location()

	start, err := parseWhen(m.start, loc)
	if err != nil {
		return model.Task{}, fmt.Errorf("start: %w", err)
	}
	end := start
	if t.Type != model.TypeMilestone {
		if end, err = parseWhen(m.end, loc); err != nil {
			return model.Task{}, fmt.Errorf("end: %w", err)
		}
	}
	if t.Type == model.TypeTask {
		if t.Progress, err = parseProgress(m.progress); err != nil {
			return model.Task{}, err
		}
	}

	t.Name = strings.TrimSpace(m.name)
	t.Start, t.End = start, end
	t.Notes = m.notes
	t.Disabled = m.disabled
	t.Normalize()
	return t, nil
}
