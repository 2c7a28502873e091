package store

import (
	"slices"
	"testing"
	"time"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func sampleState() State {
	return State{Tasks: []model.Task{
		{ID: "A", Name: "Design", Start: day(1), End: day(5)},
		{ID: "B", Name: "Project", Start: day(1), End: day(10), Type: model.TypeProject, Children: []string{"A", "C"}},
		{ID: "C", Name: "Build", Start: day(5), End: day(9), Dependencies: []string{"A"}},
	}}
}

type unknownAction struct{}

func (unknownAction) Kind() ActionKind { return "unknown" }

func TestReduce_Init(t *testing.T) {
	s := sampleState()
	s.SelectedID = "A"
	next := Reduce(s, Init{Tasks: []model.Task{{ID: "X", Start: day(1), End: day(2)}}})
	if len(next.Tasks) != 1 || next.Tasks[0].ID != "X" {
		t.Fatalf("expected only X, got %+v", next.Tasks)
	}
	if next.SelectedID != "A" {
		t.Errorf("Init should not touch selection, got %q", next.SelectedID)
	}
}

func TestReduce_InitClosesMenuOnMissingTask(t *testing.T) {
	tests := []struct {
		name     string
		tasks    []model.Task
		wantOpen bool
	}{
		{"task kept", sampleState().Tasks, true},
		{"task gone", []model.Task{{ID: "X", Start: day(1), End: day(2)}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sampleState()
			s.MenuTaskID, s.MenuOpen = "C", true
			next := Reduce(s, Init{Tasks: tt.tasks})
			if next.MenuOpen != tt.wantOpen {
				t.Errorf("MenuOpen = %v, want %v", next.MenuOpen, tt.wantOpen)
			}
		})
	}
}

func TestReduce_AddTaskAppends(t *testing.T) {
	s := sampleState()
	next := Reduce(s, AddTask{Task: model.Task{ID: "D", Start: day(2), End: day(3)}})
	if len(next.Tasks) != 4 || next.Tasks[3].ID != "D" {
		t.Fatalf("expected D appended, got %d tasks", len(next.Tasks))
	}
	if len(s.Tasks) != 3 {
		t.Errorf("input state was mutated")
	}
}

func TestReduce_ChangeTaskReplacesAndSelects(t *testing.T) {
	s := sampleState()
	changed := s.Tasks[0].Clone()
	changed.Name = "Design v2"
	changed.End = day(6)

	next := Reduce(s, ChangeTask{Task: changed})
	if next.Tasks[0].Name != "Design v2" || !next.Tasks[0].End.Equal(day(6)) {
		t.Errorf("task not replaced: %+v", next.Tasks[0])
	}
	if next.SelectedID != "A" {
		t.Errorf("expected selection A, got %q", next.SelectedID)
	}
	if s.Tasks[0].Name != "Design" {
		t.Errorf("input state was mutated")
	}
}

func TestReduce_ChangeTaskUnknownIDStillSelects(t *testing.T) {
	s := sampleState()
	next := Reduce(s, ChangeTask{Task: model.Task{ID: "ghost"}})
	if len(next.Tasks) != 3 {
		t.Fatalf("unknown id must not add tasks")
	}
	if next.SelectedID != "ghost" {
		t.Errorf("expected selection ghost, got %q", next.SelectedID)
	}
}

func TestReduce_DeleteTaskStripsReferences(t *testing.T) {
	s := sampleState()
	next := Reduce(s, DeleteTask{ID: "A"})

	if _, ok := next.Task("A"); ok {
		t.Fatal("A should be gone")
	}
	b, _ := next.Task("B")
	if !slices.Equal(b.Children, []string{"C"}) {
		t.Errorf("expected B.children == [C], got %v", b.Children)
	}
	c, _ := next.Task("C")
	if len(c.Dependencies) != 0 {
		t.Errorf("expected dependency on A stripped, got %v", c.Dependencies)
	}
	orig, _ := s.Task("B")
	if len(orig.Children) != 2 {
		t.Errorf("input children mutated: %v", orig.Children)
	}
}

func TestReduce_DeleteParentKeepsChildren(t *testing.T) {
	next := Reduce(sampleState(), DeleteTask{ID: "B"})
	if len(next.Tasks) != 2 {
		t.Fatalf("expected only B removed, got %d tasks", len(next.Tasks))
	}
	for _, id := range []string{"A", "C"} {
		if _, ok := next.Task(id); !ok {
			t.Errorf("child %s should survive its parent", id)
		}
	}
}

func TestReduce_DeleteTaskNeverLeavesRemovedID(t *testing.T) {
	s := sampleState()
	for _, id := range []string{"A", "B", "C", "missing"} {
		next := Reduce(s, DeleteTask{ID: id})
		for _, task := range next.Tasks {
			if task.ID == id {
				t.Errorf("delete %s: task still present", id)
			}
			if slices.Contains(task.Children, id) {
				t.Errorf("delete %s: %s.children still references it", id, task.ID)
			}
		}
	}
}

func TestReduce_DeleteClearsSelectionAndMenu(t *testing.T) {
	s := sampleState()
	s.SelectedID = "C"
	s.MenuTaskID = "C"
	s.MenuOpen = true
	next := Reduce(s, DeleteTask{ID: "C"})
	if next.SelectedID != "" || next.MenuTaskID != "" || next.MenuOpen {
		t.Errorf("expected selection and menu cleared, got %+v", next)
	}
}

func TestReduce_SetMenuAndSelect(t *testing.T) {
	s := sampleState()
	next := Reduce(s, SetMenu{TaskID: "B", Open: true})
	if !next.MenuOpen || next.MenuTaskID != "B" {
		t.Errorf("menu not set: %+v", next)
	}
	next = Reduce(next, SetMenu{TaskID: "B", Open: false})
	if next.MenuOpen {
		t.Errorf("menu should be closed")
	}
	next = Reduce(next, Select{TaskID: "C"})
	if next.SelectedID != "C" {
		t.Errorf("expected C selected, got %q", next.SelectedID)
	}
}

func TestReduce_UnknownActionIsIdentity(t *testing.T) {
	s := sampleState()
	s.SelectedID = "B"
	next := Reduce(s, unknownAction{})
	if next.SelectedID != "B" || len(next.Tasks) != 3 {
		t.Errorf("unknown action changed state: %+v", next)
	}
	next = Reduce(s, nil)
	if len(next.Tasks) != 3 {
		t.Errorf("nil action changed state")
	}
}

func TestStore_DispatchNotifiesListeners(t *testing.T) {
	st := New(sampleState())
	var kinds []ActionKind
	st.Subscribe(func(a Action, s State) {
		kinds = append(kinds, a.Kind())
	})

	st.Dispatch(Select{TaskID: "A"})
	st.Dispatch(DeleteTask{ID: "A"})

	if !slices.Equal(kinds, []ActionKind{KindSelect, KindDeleteTask}) {
		t.Errorf("unexpected notifications %v", kinds)
	}
	if got := st.State().SelectedID; got != "" {
		t.Errorf("expected selection cleared after delete, got %q", got)
	}
}
