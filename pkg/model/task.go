package model

import (
	"fmt"
	"time"
)

// Task is one row of the chart: a named span of time with progress and
// hierarchy/dependency links to other tasks.
type Task struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Start        time.Time `json:"start" yaml:"start"`
	End          time.Time `json:"end" yaml:"end"`
	Progress     float64   `json:"progress" yaml:"progress"`
	Type         TaskType  `json:"type,omitempty" yaml:"type,omitempty"`
	Dependencies []string  `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Children     []string  `json:"children,omitempty" yaml:"children,omitempty"`
	Disabled     bool      `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	HideChildren bool      `json:"hide_children,omitempty" yaml:"hide_children,omitempty"`
	Notes        string    `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Clone creates a deep copy of the task
func (t Task) Clone() Task {
	clone := t
	if t.Dependencies != nil {
		clone.Dependencies = append([]string(nil), t.Dependencies...)
	}
	if t.Children != nil {
		clone.Children = append([]string(nil), t.Children...)
	}
	return clone
}

// Duration returns End - Start.
func (t Task) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

// HasChildren reports whether the task declares any child ids, resolved or not.
func (t Task) HasChildren() bool {
	return len(t.Children) > 0
}

// Normalize restores the Task invariants by clamping: End is never before
// Start and Progress stays within [0,100]. An empty Type becomes TypeTask.
func (t *Task) Normalize() {
	if t.End.Before(t.Start) {
		t.End = t.Start
	}
	t.Progress = ClampProgress(t.Progress)
	if t.Type == "" {
		t.Type = TypeTask
	}
}

// Validate checks if the task data is logically valid
func (t *Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task ID cannot be empty")
	}
	if t.Start.IsZero() || t.End.IsZero() {
		return fmt.Errorf("task %s: start and end are required", t.ID)
	}
	if t.End.Before(t.Start) {
		return fmt.Errorf("task %s: end (%v) cannot be before start (%v)", t.ID, t.End, t.Start)
	}
	if t.Progress < 0 || t.Progress > 100 {
		return fmt.Errorf("task %s: progress %.1f outside [0,100]", t.ID, t.Progress)
	}
	if t.Type != "" && !t.Type.IsValid() {
		return fmt.Errorf("task %s: invalid type: %s", t.ID, t.Type)
	}
	return nil
}

// ClampProgress limits p to [0,100].
func ClampProgress(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// TaskType categorizes how a task is drawn and dragged
type TaskType string

const (
	TypeTask      TaskType = "task"
	TypeMilestone TaskType = "milestone"
	TypeProject   TaskType = "project"
)

// IsValid returns true if the task type is a recognized value
func (t TaskType) IsValid() bool {
	switch t {
	case TypeTask, TypeMilestone, TypeProject:
		return true
	}
	return false
}

// CloneTasks deep-copies a task collection.
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i := range tasks {
		out[i] = tasks[i].Clone()
	}
	return out
}

// IndexByID returns the position of id in tasks, or -1.
func IndexByID(tasks []Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// FindTask returns the task with the given id.
func FindTask(tasks []Task, id string) (Task, bool) {
	if i := IndexByID(tasks, id); i >= 0 {
		return tasks[i], true
	}
	return Task{}, false
}
