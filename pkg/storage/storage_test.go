package storage

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/interaction"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/timescale"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func seed() []model.Task {
	return []model.Task{
		{ID: "P", Name: "Project", Type: model.TypeProject, Start: day(1), End: day(10), Children: []string{"A", "B"}},
		{ID: "A", Name: "Design", Type: model.TypeTask, Start: day(1), End: day(4), Progress: 40},
		{ID: "B", Name: "Build", Type: model.TypeTask, Start: day(4), End: day(9), Dependencies: []string{"A"}},
		{ID: "L", Name: "Locked", Type: model.TypeTask, Start: day(2), End: day(3), Disabled: true},
	}
}

func openTest(t *testing.T) *Repository {
	t.Helper()
	ctx := context.Background()
	r, err := Open(ctx, "sqlite", filepath.Join(t.TempDir(), "gv.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	if err := r.Replace(ctx, seed()); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	return r
}

func TestReplaceAndRead(t *testing.T) {
	r := openTest(t)
	tasks, err := r.Tasks(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 4 || tasks[0].ID != "P" || tasks[3].ID != "L" {
		t.Fatalf("unexpected order %v", tasks)
	}
	if !slices.Equal(tasks[0].Children, []string{"A", "B"}) {
		t.Errorf("children = %v", tasks[0].Children)
	}
	if !slices.Equal(tasks[2].Dependencies, []string{"A"}) {
		t.Errorf("dependencies = %v", tasks[2].Dependencies)
	}
	if !tasks[1].Start.Equal(day(1)) || tasks[1].Progress != 40 || !tasks[3].Disabled {
		t.Errorf("fields lost: %+v %+v", tasks[1], tasks[3])
	}
}

func TestDateChange(t *testing.T) {
	r := openTest(t)
	ctx := context.Background()

	p, _ := r.Task(ctx, "P")
	p.Start, p.End = day(2), day(11)
	desc := []model.Task{
		{ID: "A", Start: day(2), End: day(5)},
		{ID: "B", Start: day(5), End: day(10)},
	}
	if err := r.DateChange(ctx, p, desc); err != nil {
		t.Fatalf("DateChange: %v", err)
	}
	b, _ := r.Task(ctx, "B")
	if !b.Start.Equal(day(5)) {
		t.Errorf("descendant not stored: %v", b.Start)
	}
	changes, _ := r.Changes(ctx, "A")
	if len(changes) != 1 || changes[0].Kind != "dates" {
		t.Errorf("change log = %+v", changes)
	}
}

func TestDateChangeRejections(t *testing.T) {
	tests := []struct {
		name string
		task model.Task
		desc []model.Task
		want error
	}{
		{"missing", model.Task{ID: "nope", Start: day(1), End: day(2)}, nil, ErrTaskNotFound},
		{"read only", model.Task{ID: "L", Start: day(3), End: day(4)}, nil, ErrReadOnly},
		{"inverted", model.Task{ID: "A", Start: day(5), End: day(1)}, nil, ErrInvalidRange},
		{"missing descendant", model.Task{ID: "P", Start: day(2), End: day(11)}, []model.Task{{ID: "ghost", Start: day(2), End: day(3)}}, ErrTaskNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := openTest(t)
			ctx := context.Background()
			if err := r.DateChange(ctx, tt.task, tt.desc); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			// All-or-nothing: P keeps its dates even when only a descendant failed.
			p, _ := r.Task(ctx, "P")
			if !p.Start.Equal(day(1)) {
				t.Errorf("partial write: P start %v", p.Start)
			}
		})
	}
}

func TestProgressChange(t *testing.T) {
	r := openTest(t)
	ctx := context.Background()
	if err := r.ProgressChange(ctx, model.Task{ID: "A", Progress: 75}); err != nil {
		t.Fatal(err)
	}
	a, _ := r.Task(ctx, "A")
	if a.Progress != 75 {
		t.Errorf("progress = %v", a.Progress)
	}
	if err := r.ProgressChange(ctx, model.Task{ID: "A", Progress: 101}); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
}

func TestDeleteDetachesReferences(t *testing.T) {
	r := openTest(t)
	ctx := context.Background()
	if err := r.Delete(ctx, model.Task{ID: "A"}); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Task(ctx, "A"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("A still present: %v", err)
	}
	tasks, _ := r.Tasks(ctx)
	for _, task := range tasks {
		if slices.Contains(task.Children, "A") || slices.Contains(task.Dependencies, "A") {
			t.Errorf("%s still references A", task.ID)
		}
	}
	if err := r.Delete(ctx, model.Task{ID: "L"}); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
}

func TestSaveAddsAndUpdates(t *testing.T) {
	r := openTest(t)
	ctx := context.Background()

	n := model.Task{ID: "N", Name: "New", Type: model.TypeTask, Start: day(3), End: day(4)}
	if err := r.Save(ctx, n); err != nil {
		t.Fatal(err)
	}
	n.Name = "Renamed"
	n.Dependencies = []string{"B"}
	if err := r.Save(ctx, n); err != nil {
		t.Fatal(err)
	}
	tasks, _ := r.Tasks(ctx)
	last := tasks[len(tasks)-1]
	if last.ID != "N" || last.Name != "Renamed" || !slices.Equal(last.Dependencies, []string{"B"}) {
		t.Errorf("unexpected saved task %+v", last)
	}
	if err := r.Save(ctx, model.Task{ID: "bad", Start: day(5), End: day(1)}); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
}

func TestInMemoryAndUnknownDriver(t *testing.T) {
	ctx := context.Background()
	r, err := Open(ctx, "sqlite", "")
	if err != nil {
		t.Fatalf("in-memory open: %v", err)
	}
	defer r.Close()
	if err := r.Replace(ctx, seed()); err != nil {
		t.Fatal(err)
	}
	if tasks, _ := r.Tasks(ctx); len(tasks) != 4 {
		t.Errorf("in-memory db lost rows: %d", len(tasks))
	}
	if _, err := Open(ctx, "postgres", ""); err == nil {
		t.Error("expected unsupported driver error")
	}
}

// A rejected drag goes through the repository and the chart reverts.
func TestHandlersRejectRevertsDrag(t *testing.T) {
	r := openTest(t)
	ctx := context.Background()
	tasks, _ := r.Tasks(ctx)

	ticks := timescale.Ticks(time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC), day(24), timescale.Day)
	c := interaction.New(timescale.NewMapper(ticks, timescale.DefaultMetrics()), tasks,
		interaction.WithHandlers(r.Handlers()))

	// B's bar starts at x=240; deleting B underneath the gesture makes the
	// repository reject the move.
	c.PointerDown(interaction.Target{TaskID: "B"}, 260)
	commit, err := c.PointerUp(320)
	if err != nil || commit == nil {
		t.Fatalf("PointerUp = %v, %v", commit, err)
	}
	if err := r.Delete(ctx, model.Task{ID: "B"}); err != nil {
		t.Fatal(err)
	}
	if err := c.Dispatch(ctx, commit); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected rejection, got %v", err)
	}
	b, _ := model.FindTask(c.Tasks(), "B")
	if !b.Start.Equal(day(4)) {
		t.Errorf("chart not reverted: %v", b.Start)
	}
}
