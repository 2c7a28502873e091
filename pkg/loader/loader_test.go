package loader_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/loader"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return p
}

func TestLoadTasksFormats(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"tasks.jsonl": `{"id":"a","name":"A","start":"2024-01-01T00:00:00Z","end":"2024-01-05T00:00:00Z","progress":20}
not json at all
{"id":"b","name":"B","start":"2024-01-03T00:00:00Z","end":"2024-01-04T00:00:00Z","dependencies":["a"]}
`,
		"tasks.json": `[{"id":"a","name":"A","start":"2024-01-01T00:00:00Z","end":"2024-01-05T00:00:00Z","progress":20},
{"id":"b","name":"B","start":"2024-01-03T00:00:00Z","end":"2024-01-04T00:00:00Z","dependencies":["a"]}]`,
		"tasks.yaml": `tasks:
  - id: a
    name: A
    start: 2024-01-01T00:00:00Z
    end: 2024-01-05T00:00:00Z
    progress: 20
  - id: b
    name: B
    start: 2024-01-03T00:00:00Z
    end: 2024-01-04T00:00:00Z
    dependencies: [a]
`,
		"list.yml": `- id: a
  name: A
  start: 2024-01-01T00:00:00Z
  end: 2024-01-05T00:00:00Z
  progress: 20
- id: b
  name: B
  start: 2024-01-03T00:00:00Z
  end: 2024-01-04T00:00:00Z
  dependencies: [a]
`,
	}
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			tasks, err := loader.LoadTasks(writeFile(t, dir, name, content))
			if err != nil {
				t.Fatalf("LoadTasks: %v", err)
			}
			if len(tasks) != 2 {
				t.Fatalf("expected 2 tasks, got %d", len(tasks))
			}
			if tasks[0].Progress != 20 || tasks[0].Type != model.TypeTask {
				t.Errorf("task a not normalized: %+v", tasks[0])
			}
			if len(tasks[1].Dependencies) != 1 || tasks[1].Dependencies[0] != "a" {
				t.Errorf("dependencies lost: %+v", tasks[1])
			}
		})
	}
}

func TestLoadTasksSanitizes(t *testing.T) {
	p := writeFile(t, t.TempDir(), "tasks.jsonl", `{"id":"a","start":"2024-01-05T00:00:00Z","end":"2024-01-01T00:00:00Z","progress":150}
{"id":"a","start":"2024-01-01T00:00:00Z","end":"2024-01-02T00:00:00Z"}
{"id":"","start":"2024-01-01T00:00:00Z","end":"2024-01-02T00:00:00Z"}
{"id":"nodates"}
`)
	tasks, err := loader.LoadTasks(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].End.Before(tasks[0].Start) || tasks[0].Progress != 100 {
		t.Errorf("task not clamped: %+v", tasks[0])
	}
}

func TestLoadTasksErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := loader.LoadTasks(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := loader.LoadTasks(writeFile(t, dir, "tasks.csv", "id,name")); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if _, err := loader.LoadTasks(writeFile(t, dir, "bad.json", "{")); err == nil {
		t.Error("expected error for malformed json")
	}
}

func TestSaveTasksRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "tasks.yaml")
	in := loader.Sample(time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC))
	if err := loader.SaveTasks(p, in); err != nil {
		t.Fatalf("SaveTasks: %v", err)
	}
	out, err := loader.LoadTasks(p)
	if err != nil {
		t.Fatalf("LoadTasks: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d tasks, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i].ID != in[i].ID || !out[i].Start.Equal(in[i].Start) || out[i].Type != in[i].Type {
			t.Errorf("task %d changed: %+v vs %+v", i, out[i], in[i])
		}
	}
}

func TestFindTasksFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := loader.FindTasksFile(dir); !errors.Is(err, loader.ErrNoTasksFile) {
		t.Fatalf("expected ErrNoTasksFile, got %v", err)
	}
	writeFile(t, dir, "tasks.jsonl", "")
	writeFile(t, dir, "tasks.yaml", "")
	got, err := loader.FindTasksFile(dir)
	if err != nil || filepath.Base(got) != "tasks.yaml" {
		t.Errorf("FindTasksFile = %q, %v", got, err)
	}
}
