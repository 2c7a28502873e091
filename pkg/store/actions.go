package store

import "github.com/Dicklesworthstone/gantt_viewer/pkg/model"

// ActionKind names an action for logging.
type ActionKind string

const (
	KindInit       ActionKind = "init"
	KindAddTask    ActionKind = "add_task"
	KindChangeTask ActionKind = "change_task"
	KindDeleteTask ActionKind = "delete_task"
	KindSetMenu    ActionKind = "set_menu"
	KindSelect     ActionKind = "select"
)

// Action is a state transition request. Types outside this package may
// implement it; Reduce treats any action it does not know as a no-op.
type Action interface {
	Kind() ActionKind
}

// Init replaces the whole task collection.
type Init struct{ Tasks []model.Task }

// AddTask appends a task.
type AddTask struct{ Task model.Task }

// ChangeTask replaces the task with the same id and makes it current.
type ChangeTask struct{ Task model.Task }

// DeleteTask removes a task and detaches every reference to it.
type DeleteTask struct{ ID string }

// SetMenu associates the side panel with a task.
type SetMenu struct {
	TaskID string
	Open   bool
}

// Select moves the selection pointer. An empty TaskID clears it.
type Select struct{ TaskID string }

func (Init) Kind() ActionKind       { return KindInit }
func (AddTask) Kind() ActionKind    { return KindAddTask }
func (ChangeTask) Kind() ActionKind { return KindChangeTask }
func (DeleteTask) Kind() ActionKind { return KindDeleteTask }
func (SetMenu) Kind() ActionKind    { return KindSetMenu }
func (Select) Kind() ActionKind     { return KindSelect }
