package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/interaction"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
)

// Change is one entry of the append-only change log.
type Change struct {
	ID     int64
	TaskID string
	Kind   string
	Detail string
	At     int64 // unix milliseconds
}

func (r *Repository) logChange(ctx context.Context, q querier, taskID, kind, detail string) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO changes (task_id, kind, detail, created_ms)
		VALUES (?, ?, ?, ?)
	`, taskID, kind, detail, toMillis(r.now()))
	if err != nil {
		return fmt.Errorf("log change: %w", err)
	}
	return nil
}

// Changes returns the change log of a task, oldest first.
func (r *Repository) Changes(ctx context.Context, taskID string) ([]Change, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, task_id, kind, detail, created_ms
		FROM changes
		WHERE task_id = ?
		ORDER BY id
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var changes []Change
	for rows.Next() {
		var c Change
		if err := rows.Scan(&c.ID, &c.TaskID, &c.Kind, &c.Detail, &c.At); err != nil {
			return nil, err
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}

// DateChange accepts new dates for task and its descendants in one
// transaction. A missing task, a read-only root or an inverted range
// rejects the whole change.
func (r *Repository) DateChange(ctx context.Context, task model.Task, descendants []model.Task) error {
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		stored, err := r.task(ctx, tx, task.ID)
		if err != nil {
			return err
		}
		if stored.Disabled {
			return fmt.Errorf("%w: %s", ErrReadOnly, task.ID)
		}
		for _, t := range append([]model.Task{task}, descendants...) {
			if t.End.Before(t.Start) {
				return fmt.Errorf("%w: %s ends before it starts", ErrInvalidRange, t.ID)
			}
			res, err := tx.ExecContext(ctx, `UPDATE tasks SET start_ms = ?, end_ms = ? WHERE id = ?`,
				toMillis(t.Start), toMillis(t.End), t.ID)
			if err != nil {
				return fmt.Errorf("update dates of %s: %w", t.ID, err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return fmt.Errorf("%w: %s", ErrTaskNotFound, t.ID)
			}
			detail := fmt.Sprintf("%s..%s", t.Start.Format("2006-01-02T15:04"), t.End.Format("2006-01-02T15:04"))
			if err := r.logChange(ctx, tx, t.ID, "dates", detail); err != nil {
				return err
			}
		}
		return nil
	})
	r.report("dates", task.ID, err)
	return err
}

// ProgressChange accepts a new progress value.
func (r *Repository) ProgressChange(ctx context.Context, task model.Task) error {
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		stored, err := r.task(ctx, tx, task.ID)
		if err != nil {
			return err
		}
		if stored.Disabled {
			return fmt.Errorf("%w: %s", ErrReadOnly, task.ID)
		}
		if task.Progress < 0 || task.Progress > 100 {
			return fmt.Errorf("%w: progress %.1f", ErrInvalidRange, task.Progress)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE tasks SET progress = ? WHERE id = ?`, task.Progress, task.ID); err != nil {
			return fmt.Errorf("update progress of %s: %w", task.ID, err)
		}
		return r.logChange(ctx, tx, task.ID, "progress", fmt.Sprintf("%.0f", task.Progress))
	})
	r.report("progress", task.ID, err)
	return err
}

// Delete removes a task and detaches it from every children and
// dependency list.
func (r *Repository) Delete(ctx context.Context, task model.Task) error {
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		stored, err := r.task(ctx, tx, task.ID)
		if err != nil {
			return err
		}
		if stored.Disabled {
			return fmt.Errorf("%w: %s", ErrReadOnly, task.ID)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, task.ID); err != nil {
			return fmt.Errorf("delete %s: %w", task.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM task_children WHERE parent_id = ? OR child_id = ?`, task.ID, task.ID); err != nil {
			return fmt.Errorf("detach children of %s: %w", task.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM task_dependencies WHERE task_id = ? OR dep_id = ?`, task.ID, task.ID); err != nil {
			return fmt.Errorf("detach dependencies of %s: %w", task.ID, err)
		}
		return r.logChange(ctx, tx, task.ID, "delete", stored.Name)
	})
	r.report("delete", task.ID, err)
	return err
}

func (r *Repository) report(kind, id string, err error) {
	if err != nil {
		r.logger.Warn("change rejected", "kind", kind, "task", id, "err", err)
		return
	}
	r.logger.Debug("change stored", "kind", kind, "task", id)
}

// Handlers wires the repository in as the owner of chart commits.
func (r *Repository) Handlers() interaction.Handlers {
	return interaction.Handlers{
		DateChange:     r.DateChange,
		ProgressChange: r.ProgressChange,
		Delete:         r.Delete,
	}
}
