package export

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/layout"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/timescale"
)

func sampleScene(t *testing.T) layout.Scene {
	t.Helper()
	d := func(day int) time.Time { return time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC) }
	tasks := []model.Task{
		{ID: "A", Name: "Design <draft>", Start: d(1), End: d(5), Progress: 40, Type: model.TypeProject, Children: []string{"B"}},
		{ID: "B", Name: "Build", Start: d(3), End: d(8), Progress: 10, Dependencies: []string{"A"}},
		{ID: "M", Name: "Ship", Start: d(9), End: d(9), Type: model.TypeMilestone, Dependencies: []string{"B", "gone"}},
	}
	for i := range tasks {
		tasks[i].Normalize()
	}
	fm, err := layout.NewFaceMeasurer(14)
	if err != nil {
		t.Fatalf("NewFaceMeasurer: %v", err)
	}
	opts := layout.DefaultOptions()
	opts.Granularity = timescale.Day
	opts.Now = d(4)
	return layout.Build(tasks, opts, fm)
}

func TestRenderSVG(t *testing.T) {
	scene := sampleScene(t)
	st := DefaultStyle()
	st.Selected = "B"

	var buf bytes.Buffer
	if err := RenderSVG(&buf, scene, st); err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"<svg",
		"</svg>",
		`data-task-id="A"`,
		`data-task-id="B"`,
		`data-from="A"`,
		"Design &lt;draft&gt;",
		st.Palette.BarBackgroundSelected,
		st.Palette.Today,
		"<polygon",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if strings.Contains(out, `data-to="gone"`) || strings.Contains(out, `data-from="gone"`) {
		t.Error("dangling dependency should not be drawn")
	}
}

func TestRenderSVG_NoList(t *testing.T) {
	scene := sampleScene(t)
	st := DefaultStyle()
	st.ListWidth = 0

	var buf bytes.Buffer
	if err := RenderSVG(&buf, scene, st); err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if strings.Contains(buf.String(), `class="list"`) {
		t.Error("list panel drawn although disabled")
	}
}

func TestRenderPNG(t *testing.T) {
	scene := sampleScene(t)
	st := DefaultStyle()

	var buf bytes.Buffer
	if err := RenderPNG(&buf, scene, st); err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	wantW := int(st.ListWidth + scene.Width + 0.5)
	wantH := int(scene.Options.HeaderHeight + scene.Height + 0.5)
	if b := img.Bounds(); b.Dx() != wantW || b.Dy() != wantH {
		t.Errorf("png size = %dx%d, want %dx%d", b.Dx(), b.Dy(), wantW, wantH)
	}
}

func TestSaveSnapshot_SVGAndPNG(t *testing.T) {
	scene := sampleScene(t)
	tmp := t.TempDir()
	cases := []struct {
		name   string
		file   string
		header []byte
	}{
		{"svg", "chart.svg", []byte("<?xml")},
		{"png", "chart.png", []byte("\x89PNG")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := filepath.Join(tmp, tc.file)
			if err := SaveSnapshot(SnapshotOptions{Path: out, Scene: scene, Style: DefaultStyle()}); err != nil {
				t.Fatalf("SaveSnapshot error: %v", err)
			}
			data, err := os.ReadFile(out)
			if err != nil {
				t.Fatalf("read output: %v", err)
			}
			if !bytes.HasPrefix(data, tc.header) {
				t.Errorf("%s does not start with %q", tc.file, tc.header)
			}
		})
	}

	entries, err := os.ReadDir(tmp)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestSaveSnapshot_UnknownFormat(t *testing.T) {
	out := filepath.Join(t.TempDir(), "chart.pdf")
	err := SaveSnapshot(SnapshotOptions{Path: out, Scene: sampleScene(t), Style: DefaultStyle()})
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("nothing should be written for an unknown format")
	}
}

func TestSaveAll(t *testing.T) {
	scene := sampleScene(t)
	dir := t.TempDir()
	paths := SplitPaths(filepath.Join(dir, "a.svg") + ", " + filepath.Join(dir, "b.png") + ",")
	if len(paths) != 2 {
		t.Fatalf("SplitPaths = %v", paths)
	}
	if err := SaveAll(context.Background(), paths, scene, DefaultStyle(), nil); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing %s: %v", p, err)
		}
	}

	bad := []string{filepath.Join(dir, "c.svg"), filepath.Join(dir, "d.gif")}
	if err := SaveAll(context.Background(), bad, scene, DefaultStyle(), nil); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	if _, err := os.Stat(bad[0]); !os.IsNotExist(err) {
		t.Error("valid path written although another path was rejected")
	}
}

func TestListText(t *testing.T) {
	measure := func(s string) float64 { return float64(len([]rune(s))) * 10 }
	tests := []struct {
		text  string
		width float64
		want  string
	}{
		{"short", 100, "short"},
		{"a longer name", 60, "a lon…"},
		{"abc", 5, ""},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		if got := listText(tt.text, tt.width, measure); got != tt.want {
			t.Errorf("listText(%q, %v) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}
