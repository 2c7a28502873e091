// Package config loads gv settings from YAML on top of built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/interaction"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/layout"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/timescale"
)

type Config struct {
	View    ViewConfig    `yaml:"view"`
	Chart   ChartConfig   `yaml:"chart"`
	Colors  ColorConfig   `yaml:"colors"`
	List    ListConfig    `yaml:"list"`
	TUI     TUIConfig     `yaml:"tui"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
	Export  ExportConfig  `yaml:"export"`
}

type ViewConfig struct {
	Granularity timescale.Granularity `yaml:"granularity"`
	Locale      string                `yaml:"locale"`
}

type ChartConfig struct {
	ColumnWidth     float64       `yaml:"column_width"`
	RowHeight       float64       `yaml:"row_height"`
	HeaderHeight    float64       `yaml:"header_height"`
	BarCornerRadius float64       `yaml:"bar_corner_radius"`
	BarFill         float64       `yaml:"bar_fill"` // percent of row height
	HandleWidth     float64       `yaml:"handle_width"`
	TimeStep        time.Duration `yaml:"time_step"`
	ArrowIndent     float64       `yaml:"arrow_indent"`
	ClickThreshold  float64       `yaml:"click_threshold"`
	FontSize        float64       `yaml:"font_size"`
}

type ColorConfig struct {
	BarProgress           string `yaml:"bar_progress"`
	BarProgressSelected   string `yaml:"bar_progress_selected"`
	BarBackground         string `yaml:"bar_background"`
	BarBackgroundSelected string `yaml:"bar_background_selected"`
	Arrow                 string `yaml:"arrow"`
	ArrowConflict         string `yaml:"arrow_conflict"`
	Today                 string `yaml:"today"`
	Grid                  string `yaml:"grid"`
}

type ListConfig struct {
	Width      float64 `yaml:"width"` // 0 disables the list panel
	Breakpoint float64 `yaml:"breakpoint"`
}

type TUIConfig struct {
	ColumnCells int `yaml:"column_cells"`
	RowCells    int `yaml:"row_cells"`
	Breakpoint  int `yaml:"breakpoint"`
	ListCells   int `yaml:"list_cells"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"` // sqlite | sqlite3
	Path   string `yaml:"path"`   // empty = in-memory
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type ExportConfig struct {
	Path        string `yaml:"path"`
	PreviewPort int    `yaml:"preview_port"`
}

func Default() Config {
	return Config{
		View: ViewConfig{
			Granularity: timescale.Day,
			Locale:      "en-US",
		},
		Chart: ChartConfig{
			ColumnWidth:     60,
			RowHeight:       50,
			HeaderHeight:    100,
			BarCornerRadius: 3,
			BarFill:         60,
			HandleWidth:     8,
			TimeStep:        5 * time.Minute,
			ArrowIndent:     20,
			ClickThreshold:  3,
			FontSize:        14,
		},
		Colors: ColorConfig{
			BarProgress:           "#a3a3ff",
			BarProgressSelected:   "#8282f5",
			BarBackground:         "#b8c2cc",
			BarBackgroundSelected: "#aeb8c2",
			Arrow:                 "#6b7280",
			ArrowConflict:         "#ef4444",
			Today:                 "#fff5d6",
			Grid:                  "#ebeff2",
		},
		List: ListConfig{
			Width:      155,
			Breakpoint: 800,
		},
		TUI: TUIConfig{
			ColumnCells: 6,
			RowCells:    2,
			Breakpoint:  100,
			ListCells:   32,
		},
		Storage: StorageConfig{
			Driver: "sqlite",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Export: ExportConfig{
			Path: "gantt.svg",
		},
	}
}

// Load overlays the YAML file at path onto defaults. A blank path, a missing
// file or an empty file keeps the defaults.
func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

func (c Config) Validate() error {
	if !c.View.Granularity.IsValid() {
		return fmt.Errorf("invalid view.granularity: %q", c.View.Granularity)
	}
	if strings.TrimSpace(c.View.Locale) == "" {
		return errors.New("view.locale is required")
	}

	positive := []struct {
		key string
		v   float64
	}{
		{"chart.column_width", c.Chart.ColumnWidth},
		{"chart.row_height", c.Chart.RowHeight},
		{"chart.font_size", c.Chart.FontSize},
	}
	for _, p := range positive {
		if p.v <= 0 {
			return fmt.Errorf("%s must be > 0", p.key)
		}
	}
	if c.Chart.BarFill <= 0 || c.Chart.BarFill > 100 {
		return fmt.Errorf("chart.bar_fill must be in (0,100], got %v", c.Chart.BarFill)
	}
	if c.Chart.HeaderHeight < 0 || c.Chart.HandleWidth < 0 || c.Chart.ArrowIndent < 0 ||
		c.Chart.BarCornerRadius < 0 || c.Chart.ClickThreshold < 0 {
		return errors.New("chart sizes must be >= 0")
	}
	if c.Chart.TimeStep <= 0 {
		return errors.New("chart.time_step must be > 0")
	}

	colors := map[string]string{
		"colors.bar_progress":            c.Colors.BarProgress,
		"colors.bar_progress_selected":   c.Colors.BarProgressSelected,
		"colors.bar_background":          c.Colors.BarBackground,
		"colors.bar_background_selected": c.Colors.BarBackgroundSelected,
		"colors.arrow":                   c.Colors.Arrow,
		"colors.arrow_conflict":          c.Colors.ArrowConflict,
		"colors.today":                   c.Colors.Today,
		"colors.grid":                    c.Colors.Grid,
	}
	for key, v := range colors {
		if !hexColor.MatchString(v) {
			return fmt.Errorf("invalid %s: %q (want #rrggbb or #rrggbbaa)", key, v)
		}
	}

	if c.List.Width < 0 || c.List.Breakpoint < 0 {
		return errors.New("list sizes must be >= 0")
	}
	if c.TUI.ColumnCells < 1 || c.TUI.RowCells < 1 || c.TUI.ListCells < 0 || c.TUI.Breakpoint < 0 {
		return errors.New("tui.column_cells and tui.row_cells must be >= 1")
	}

	switch c.Storage.Driver {
	case "sqlite", "sqlite3":
	default:
		return fmt.Errorf("invalid storage.driver: %q", c.Storage.Driver)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	if c.Export.PreviewPort < 0 || c.Export.PreviewPort > 65535 {
		return fmt.Errorf("invalid export.preview_port: %d", c.Export.PreviewPort)
	}
	return nil
}

// Metrics returns the chart grid metrics in pixels.
func (c Config) Metrics() timescale.Metrics {
	return timescale.Metrics{
		ColumnWidth: c.Chart.ColumnWidth,
		RowHeight:   c.Chart.RowHeight,
		BarFill:     c.Chart.BarFill,
		HandleWidth: c.Chart.HandleWidth,
	}
}

// LayoutOptions returns scene options for the pixel renderers.
func (c Config) LayoutOptions() layout.Options {
	return layout.Options{
		Granularity:  c.View.Granularity,
		Metrics:      c.Metrics(),
		HeaderHeight: c.Chart.HeaderHeight,
		ArrowIndent:  c.Chart.ArrowIndent,
		Locale:       c.View.Locale,
	}
}

// InteractionOptions returns the gesture thresholds.
func (c Config) InteractionOptions() interaction.Options {
	return interaction.Options{
		ClickThreshold: c.Chart.ClickThreshold,
		TimeStep:       c.Chart.TimeStep,
	}
}
