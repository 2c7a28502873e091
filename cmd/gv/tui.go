package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/loader"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/storage"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/ui"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/watcher"
)

// program is the part of *tea.Program gv drives.
type program interface {
	Run() (tea.Model, error)
	Send(msg tea.Msg)
}

// programFactory builds the terminal program. Tests swap it for a fake
// that never touches the terminal.
var programFactory = func(ctx context.Context, m tea.Model) program {
	return tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
}

// runTUI opens the repository, seeds it with the loaded tasks and runs the
// chart until the user quits. Edits are committed to the repository; the
// task file is only read, and reloaded when it changes on disk.
func runTUI(ctx context.Context, o *rootOptions, stderr io.Writer) error {
	s, err := o.open(stderr, true)
	if err != nil {
		return err
	}
	defer s.Close()
	logger := s.logger

	repo, err := storage.Open(ctx, s.cfg.Storage.Driver, s.cfg.Storage.Path,
		storage.WithLogger(logger), storage.WithClock(now))
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer repo.Close()
	if err := repo.Replace(ctx, s.tasks); err != nil {
		return fmt.Errorf("seed storage: %w", err)
	}

	m := ui.New(ui.Options{
		Config:    s.cfg,
		Tasks:     s.tasks,
		Handlers:  repo.Handlers(),
		Persister: repo,
		Logger:    logger,
		Now:       now,
	})
	defer m.Close()
	p := programFactory(ctx, m)

	if s.tasksPath != "" {
		reload := func() {
			tasks, err := loader.LoadTasks(s.tasksPath)
			if err != nil {
				logger.Warn("reload failed", "path", s.tasksPath, "err", err)
				return
			}
			if err := repo.Replace(ctx, tasks); err != nil {
				logger.Warn("reseed storage failed", "err", err)
				return
			}
			p.Send(ui.ReloadMsg{Tasks: tasks})
		}
		w, err := watcher.New(s.tasksPath, reload, watcher.WithLogger(logger))
		if err != nil {
			logger.Warn("live reload disabled", "path", s.tasksPath, "err", err)
		} else {
			watchCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			defer w.Close()
			go w.Run(watchCtx)
		}
	}

	logger.Info("starting chart", "tasks", len(s.tasks), "granularity", s.cfg.View.Granularity)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	return nil
}
