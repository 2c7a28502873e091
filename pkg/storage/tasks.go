package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
)

// Replace swaps the stored collection for tasks, keeping the change log.
func (r *Repository) Replace(ctx context.Context, tasks []model.Task) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"tasks", "task_children", "task_dependencies"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		for i, t := range tasks {
			if err := insertTask(ctx, tx, t, i); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertTask(ctx context.Context, q querier, t model.Task, position int) error {
	if t.Type == "" {
		t.Type = model.TypeTask
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO tasks (id, position, name, start_ms, end_ms, progress, type, disabled, hide_children, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, position, t.Name, toMillis(t.Start), toMillis(t.End), t.Progress, string(t.Type),
		boolInt(t.Disabled), boolInt(t.HideChildren), t.Notes)
	if err != nil {
		return fmt.Errorf("insert task %s: %w", t.ID, err)
	}
	return writeLinks(ctx, q, t)
}

func writeLinks(ctx context.Context, q querier, t model.Task) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM task_children WHERE parent_id = ?`, t.ID); err != nil {
		return err
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM task_dependencies WHERE task_id = ?`, t.ID); err != nil {
		return err
	}
	for i, c := range t.Children {
		if _, err := q.ExecContext(ctx, `INSERT INTO task_children (parent_id, child_id, position) VALUES (?, ?, ?)`, t.ID, c, i); err != nil {
			return fmt.Errorf("insert child of %s: %w", t.ID, err)
		}
	}
	for i, d := range t.Dependencies {
		if _, err := q.ExecContext(ctx, `INSERT INTO task_dependencies (task_id, dep_id, position) VALUES (?, ?, ?)`, t.ID, d, i); err != nil {
			return fmt.Errorf("insert dependency of %s: %w", t.ID, err)
		}
	}
	return nil
}

// Tasks returns the stored collection in row order.
func (r *Repository) Tasks(ctx context.Context) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, start_ms, end_ms, progress, type, disabled, hide_children, notes
		FROM tasks
		ORDER BY position, id
	`)
	if err != nil {
		return nil, err
	}
	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		tasks = append(tasks, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	children, err := r.links(ctx, `SELECT parent_id, child_id FROM task_children ORDER BY parent_id, position`)
	if err != nil {
		return nil, err
	}
	deps, err := r.links(ctx, `SELECT task_id, dep_id FROM task_dependencies ORDER BY task_id, position`)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].Children = children[tasks[i].ID]
		tasks[i].Dependencies = deps[tasks[i].ID]
	}
	return tasks, nil
}

// Task returns one stored task.
func (r *Repository) Task(ctx context.Context, id string) (model.Task, error) {
	return r.task(ctx, r.db, id)
}

func (r *Repository) task(ctx context.Context, q querier, id string) (model.Task, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, name, start_ms, end_ms, progress, type, disabled, hide_children, notes
		FROM tasks
		WHERE id = ?
	`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return t, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var (
		t                  model.Task
		startMs, endMs     int64
		typ                string
		disabled, collapse int
	)
	if err := s.Scan(&t.ID, &t.Name, &startMs, &endMs, &t.Progress, &typ, &disabled, &collapse, &t.Notes); err != nil {
		return model.Task{}, err
	}
	t.Start = fromMillis(startMs)
	t.End = fromMillis(endMs)
	t.Type = model.TaskType(typ)
	t.Disabled = disabled != 0
	t.HideChildren = collapse != 0
	return t, nil
}

func (r *Repository) links(ctx context.Context, query string) (map[string][]string, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string][]string)
	for rows.Next() {
		var from, to string
		if err := rows.Scan(&from, &to); err != nil {
			return nil, err
		}
		out[from] = append(out[from], to)
	}
	return out, rows.Err()
}

// Save inserts or fully updates a task, including its link lists. New
// tasks go to the end of the row order.
func (r *Repository) Save(ctx context.Context, t model.Task) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	return r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE tasks
			SET name = ?, start_ms = ?, end_ms = ?, progress = ?, type = ?, disabled = ?, hide_children = ?, notes = ?
			WHERE id = ?
		`, t.Name, toMillis(t.Start), toMillis(t.End), t.Progress, string(t.Type),
			boolInt(t.Disabled), boolInt(t.HideChildren), t.Notes, t.ID)
		if err != nil {
			return fmt.Errorf("update task %s: %w", t.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 1 {
			if err := writeLinks(ctx, tx, t); err != nil {
				return err
			}
			return r.logChange(ctx, tx, t.ID, "save", "")
		}

		var next int
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM tasks`).Scan(&next); err != nil {
			return err
		}
		if err := insertTask(ctx, tx, t, next); err != nil {
			return err
		}
		return r.logChange(ctx, tx, t.ID, "add", "")
	})
}
