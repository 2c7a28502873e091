// Package store holds the task collection and its hierarchy as an immutable
// State value advanced by a pure reducer.
package store

import (
	"slices"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
)

// State is the whole chart state owned by the store.
type State struct {
	Tasks      []model.Task
	SelectedID string
	MenuOpen   bool
	MenuTaskID string
}

// Clone deep-copies the state.
func (s State) Clone() State {
	s.Tasks = model.CloneTasks(s.Tasks)
	return s
}

// Task looks up a task by id.
func (s State) Task(id string) (model.Task, bool) {
	return model.FindTask(s.Tasks, id)
}

// Reduce applies a to s and returns the next state. It is total: every action
// yields a state, unknown actions return s unchanged, and s is never mutated.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Init:
		next := s
		next.Tasks = model.CloneTasks(a.Tasks)
		if _, ok := next.Task(next.MenuTaskID); !ok {
			next.MenuTaskID = ""
			next.MenuOpen = false
		}
		return next

	case AddTask:
		next := s
		next.Tasks = append(model.CloneTasks(s.Tasks), a.Task.Clone())
		return next

	case ChangeTask:
		next := s
		next.Tasks = model.CloneTasks(s.Tasks)
		if i := model.IndexByID(next.Tasks, a.Task.ID); i >= 0 {
			next.Tasks[i] = a.Task.Clone()
		}
		next.SelectedID = a.Task.ID
		return next

	case DeleteTask:
		next := s
		next.Tasks = make([]model.Task, 0, len(s.Tasks))
		for _, t := range s.Tasks {
			if t.ID == a.ID {
				continue
			}
			t = t.Clone()
			t.Children = without(t.Children, a.ID)
			t.Dependencies = without(t.Dependencies, a.ID)
			next.Tasks = append(next.Tasks, t)
		}
		if next.SelectedID == a.ID {
			next.SelectedID = ""
		}
		if next.MenuTaskID == a.ID {
			next.MenuTaskID = ""
			next.MenuOpen = false
		}
		return next

	case SetMenu:
		next := s
		next.MenuTaskID = a.TaskID
		next.MenuOpen = a.Open
		return next

	case Select:
		next := s
		next.SelectedID = a.TaskID
		return next
	}
	return s
}

func without(ids []string, id string) []string {
	if !slices.Contains(ids, id) {
		return ids
	}
	out := make([]string, 0, len(ids)-1)
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
