package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/config"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/loader"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/timescale"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/version"
)

// now is the clock every command reads. Tests pin it.
var now = time.Now

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath  string
	tasksPath   string
	granularity string
	dbPath      string
	logLevel    string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "gv",
		Short: "Interactive Gantt chart viewer",
		Long: `gv draws a task plan as a Gantt chart in the terminal.

Drag bars with the mouse to move or resize tasks, drag the handle under a
bar to change its progress, and double-click a bar to edit it. Tasks are
read from tasks.yaml, tasks.jsonl or tasks.json in the current directory
unless --tasks names a file; with no file a sample plan is shown.`,
		Version:       version.Version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), o, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.PersistentFlags()
	f.StringVar(&o.configPath, "config", "", "YAML config file (defaults apply when omitted)")
	f.StringVarP(&o.tasksPath, "tasks", "t", "", "task file (.yaml, .yml, .json or .jsonl)")
	f.StringVarP(&o.granularity, "granularity", "g", "", "time scale: hour, day, week, month or year")
	f.StringVar(&o.dbPath, "db", "", "sqlite database for committed changes (in-memory when empty)")
	f.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn or error")

	cmd.AddCommand(
		newExportCmd(o, stdout, stderr),
		newPreviewCmd(o, stdout, stderr),
		newPrintCmd(o, stdout, stderr),
		newInitCmd(o, stdout),
		newVersionCmd(stdout),
	)
	return cmd
}

// loadConfig reads the config file and applies flag overrides.
func (o *rootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.configPath, config.Default())
	if err != nil {
		return config.Config{}, err
	}
	if s := strings.TrimSpace(o.granularity); s != "" {
		g, err := timescale.ParseGranularity(s)
		if err != nil {
			return config.Config{}, fmt.Errorf("--granularity: %w", err)
		}
		cfg.View.Granularity = g
	}
	if o.dbPath != "" {
		cfg.Storage.Path = o.dbPath
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// loadTasks returns the tasks to show and the file they came from. The
// path is empty when no task file exists and the sample plan is used.
func (o *rootOptions) loadTasks(logger *log.Logger) ([]model.Task, string, error) {
	path := o.tasksPath
	if path == "" {
		found, err := loader.FindTasksFile("")
		if errors.Is(err, loader.ErrNoTasksFile) {
			logger.Info("no task file found, showing the sample plan")
			return loader.Sample(now()), "", nil
		}
		if err != nil {
			return nil, "", err
		}
		path = found
	}
	tasks, err := loader.LoadTasks(path)
	if err != nil {
		return nil, "", err
	}
	logger.Debug("loaded tasks", "path", path, "count", len(tasks))
	return tasks, path, nil
}

// session is what a command needs after the flags are resolved.
type session struct {
	cfg       config.Config
	logger    *log.Logger
	tasks     []model.Task
	tasksPath string
	closeLog  func() error
}

func (s *session) Close() error {
	if s.closeLog == nil {
		return nil
	}
	return s.closeLog()
}

// open resolves config, logging and tasks. interactive mutes console
// logging so the alternate screen stays clean.
func (o *rootOptions) open(stderr io.Writer, interactive bool) (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := newLogger(cfg.Logging, stderr, interactive)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, logger: logger, closeLog: closeLog}
	s.tasks, s.tasksPath, err = o.loadTasks(logger)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// newLogger builds the process logger. A configured file gets logfmt
// output; otherwise text goes to stderr, or nowhere while the TUI owns the
// terminal.
func newLogger(c config.LoggingConfig, stderr io.Writer, interactive bool) (*log.Logger, func() error, error) {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse logging level %q: %w", c.Level, err)
	}
	opts := log.Options{
		Level:           level,
		Prefix:          "gv",
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       log.TextFormatter,
	}

	if c.File != "" {
		f, err := os.OpenFile(c.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		opts.Formatter = log.LogfmtFormatter
		return log.NewWithOptions(f, opts), f.Close, nil
	}
	if interactive {
		return log.NewWithOptions(io.Discard, opts), nil, nil
	}
	return log.NewWithOptions(stderr, opts), nil, nil
}
