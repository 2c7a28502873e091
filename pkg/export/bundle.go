package export

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/layout"
)

// Bundle file names.
const (
	BundleIndex = "index.html"
	BundleChart = "chart.svg"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { margin: 0; font-family: sans-serif; background: #f5f7fa; }
header { padding: 12px 16px; color: #333; }
main { overflow: auto; padding: 0 16px 16px; }
img { background: #fff; box-shadow: 0 1px 3px rgba(0,0,0,.15); }
</style>
</head>
<body>
<header><strong>{{.Title}}</strong> &middot; {{.Rows}} tasks &middot; {{.Granularity}}</header>
<main><img src="{{.Chart}}" width="{{.Width}}" height="{{.Height}}" alt="{{.Title}}"></main>
</body>
</html>
`))

// WriteBundle renders the scene into dir as index.html plus chart.svg, the
// layout the preview server expects.
func WriteBundle(dir string, s layout.Scene, st Style) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create bundle dir: %w", err)
	}

	var chart bytes.Buffer
	if err := RenderSVG(&chart, s, st); err != nil {
		return fmt.Errorf("render svg: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, BundleChart), chart.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}

	f := newFrame(s, st)
	var index bytes.Buffer
	err := indexTemplate.Execute(&index, map[string]any{
		"Lang":        s.Options.Locale,
		"Title":       st.Title,
		"Rows":        len(s.Rows),
		"Granularity": s.Scale.Granularity,
		"Chart":       BundleChart,
		"Width":       px(f.width),
		"Height":      px(f.height),
	})
	if err != nil {
		return fmt.Errorf("render index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, BundleIndex), index.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}
