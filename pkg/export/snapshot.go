package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/layout"
)

// Format is an output file format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ErrUnknownFormat is returned for paths whose extension is not .svg or .png.
var ErrUnknownFormat = errors.New("unknown export format")

// FormatFor picks the format from the file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return FormatSVG, nil
	case ".png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("%w: %q (use .svg or .png)", ErrUnknownFormat, path)
	}
}

// Render writes the scene in the given format.
func Render(w io.Writer, format Format, s layout.Scene, st Style) error {
	switch format {
	case FormatSVG:
		return RenderSVG(w, s, st)
	case FormatPNG:
		return RenderPNG(w, s, st)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// SnapshotOptions configures a file export.
type SnapshotOptions struct {
	Path   string
	Scene  layout.Scene
	Style  Style
	Logger *log.Logger
}

// SaveSnapshot renders the scene to opts.Path, choosing the format from the
// extension. The file is written next to its destination and renamed into
// place so a failed render never leaves a truncated chart behind.
func SaveSnapshot(opts SnapshotOptions) error {
	if strings.TrimSpace(opts.Path) == "" {
		return errors.New("export path is required")
	}
	format, err := FormatFor(opts.Path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(opts.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(opts.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Render(tmp, format, opts.Scene, opts.Style); err != nil {
		tmp.Close()
		return fmt.Errorf("render %s: %w", format, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), opts.Path); err != nil {
		return fmt.Errorf("rename export: %w", err)
	}

	if opts.Logger != nil {
		opts.Logger.Info("exported chart", "path", opts.Path, "format", format, "rows", len(opts.Scene.Rows))
	}
	return nil
}

// SaveAll writes the scene to every path concurrently. All formats are
// checked before anything is written.
func SaveAll(ctx context.Context, paths []string, s layout.Scene, st Style, logger *log.Logger) error {
	if len(paths) == 0 {
		return errors.New("no export paths")
	}
	for _, p := range paths {
		if _, err := FormatFor(p); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, p := range paths {
		p := p // per-iteration copy; go.mod targets go 1.21 loop semantics
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return SaveSnapshot(SnapshotOptions{Path: p, Scene: s, Style: st, Logger: logger})
		})
	}
	return g.Wait()
}

// SplitPaths parses a comma separated --out value.
func SplitPaths(value string) []string {
	var out []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
