package interaction

import (
	"context"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
)

// CommitKind is the owner callback a commit goes to.
type CommitKind string

const (
	KindDateChange     CommitKind = "date_change"
	KindProgressChange CommitKind = "progress_change"
	KindDelete         CommitKind = "delete"
)

// Commit is a proposed change awaiting the owner's answer.
type Commit struct {
	Seq                 uint64
	Kind                CommitKind
	Task                model.Task
	Descendants         []model.Task
	Original            model.Task
	OriginalDescendants []model.Task

	// prev holds, per task, the older commit that was still pending when
	// this one was issued.
	prev map[string]uint64
}

// ids lists every task the commit touches.
func (c *Commit) ids() []string {
	ids := []string{c.Task.ID}
	for _, d := range c.Descendants {
		ids = append(ids, d.ID)
	}
	return ids
}

// original returns the pre-gesture snapshot of one touched task.
func (c *Commit) original(id string) model.Task {
	if c.Original.ID == id {
		return c.Original
	}
	for _, d := range c.OriginalDescendants {
		if d.ID == id {
			return d
		}
	}
	return model.Task{}
}

// rebase replaces the snapshot of t.ID, so a later rejection restores t.
func (c *Commit) rebase(t model.Task) {
	if c.Original.ID == t.ID {
		c.Original = t.Clone()
		return
	}
	for i := range c.OriginalDescendants {
		if c.OriginalDescendants[i].ID == t.ID {
			c.OriginalDescendants[i] = t.Clone()
		}
	}
}

func (c *Controller) issue(kind CommitKind, task model.Task, desc []model.Task, orig model.Task, origDesc []model.Task) *Commit {
	c.seq++
	commit := &Commit{
		Seq:                 c.seq,
		Kind:                kind,
		Task:                task.Clone(),
		Descendants:         model.CloneTasks(desc),
		Original:            orig.Clone(),
		OriginalDescendants: model.CloneTasks(origDesc),
		prev:                make(map[string]uint64),
	}
	for _, id := range commit.ids() {
		if older, ok := c.latest[id]; ok {
			commit.prev[id] = older
		}
		c.latest[id] = commit.Seq
	}
	c.pending[commit.Seq] = commit
	c.logger.Debug("commit issued", "seq", commit.Seq, "kind", kind, "task", task.ID, "descendants", len(desc))
	return commit
}

// Call runs the owner handler for commit. It may block and is safe to run
// off the event loop; feed its result to Resolve on the loop.
func (c *Controller) Call(ctx context.Context, commit *Commit) error {
	switch commit.Kind {
	case KindDateChange:
		if c.handlers.DateChange != nil {
			return c.handlers.DateChange(ctx, commit.Task.Clone(), model.CloneTasks(commit.Descendants))
		}
	case KindProgressChange:
		if c.handlers.ProgressChange != nil {
			return c.handlers.ProgressChange(ctx, commit.Task.Clone())
		}
	case KindDelete:
		if c.handlers.Delete != nil {
			return c.handlers.Delete(ctx, commit.Task.Clone())
		}
	}
	return nil
}

// Resolve applies the owner's answer to commit seq. A nil result accepts;
// any other result rejects and restores the pre-gesture snapshot. The
// decision is made per task: tasks a newer commit has touched since keep
// their newer state, and a rejection moves that commit's snapshot back to
// this one's so it cannot restore refused dates. A task held by the current
// drag is rebased the same way. ErrStaleCommit is returned when every task
// of the commit has been superseded.
func (c *Controller) Resolve(seq uint64, result error) error {
	commit, ok := c.pending[seq]
	if !ok {
		return ErrUnknownCommit
	}
	delete(c.pending, seq)

	var live, superseded []string
	for _, id := range commit.ids() {
		if c.latest[id] == seq {
			live = append(live, id)
		} else {
			superseded = append(superseded, id)
		}
	}
	for _, id := range live {
		delete(c.latest, id)
	}

	if commit.Kind == KindDelete && result == nil {
		c.logger.Info("commit accepted", "seq", seq, "kind", commit.Kind, "task", commit.Task.ID)
		c.remove(commit.Task.ID)
		return nil
	}

	if result != nil {
		for _, id := range live {
			// An older commit still waiting on this task owns it again.
			if older, ok := commit.prev[id]; ok {
				if _, pending := c.pending[older]; pending {
					c.latest[id] = older
				}
			}
		}
		if commit.Kind != KindDelete {
			for _, id := range superseded {
				if newer, ok := c.pending[c.latest[id]]; ok {
					newer.rebase(commit.original(id))
					delete(newer.prev, id)
				}
			}
		}
	}

	if len(live) == 0 {
		c.logger.Debug("stale commit discarded", "seq", seq, "task", commit.Task.ID)
		return ErrStaleCommit
	}

	if result != nil {
		c.logger.Warn("commit rejected", "seq", seq, "kind", commit.Kind, "task", commit.Task.ID, "err", result)
		if commit.Kind != KindDelete {
			restore := make([]model.Task, 0, len(live))
			for _, id := range live {
				restore = append(restore, commit.original(id))
			}
			c.revert(restore)
		}
		return nil
	}

	c.logger.Info("commit accepted", "seq", seq, "kind", commit.Kind, "task", commit.Task.ID)
	return nil
}

// revert shows the restored tasks. Tasks the held drag covers are also
// rebased into the session, and the drag is replayed from its new origin.
func (c *Controller) revert(tasks []model.Task) {
	s := c.session
	rebased := false
	for _, t := range tasks {
		if s != nil && s.rebase(t) {
			rebased = true
		}
	}
	c.show(tasks)
	if rebased {
		s.apply(c.mapper, s.LastX, c.opts.TimeStep)
		if !s.ReadOnly {
			c.show(append([]model.Task{s.Current}, s.Descendants...))
		}
	}
}

func (c *Controller) remove(id string) {
	if i := model.IndexByID(c.tasks, id); i >= 0 {
		c.tasks = append(c.tasks[:i:i], c.tasks[i+1:]...)
	}
	if c.selectedID == id {
		c.selectedID = ""
	}
	if s := c.session; s != nil && s.covers(id) {
		c.endSession()
		c.logger.Debug("drag dropped, task deleted", "task", id)
	}
	if c.chart != nil {
		c.chart.RemoveTask(id)
	}
}

// Dispatch calls the owner and resolves the commit in one step. It returns
// the owner's rejection, ErrStaleCommit, or nil.
func (c *Controller) Dispatch(ctx context.Context, commit *Commit) error {
	if commit == nil {
		return nil
	}
	result := c.Call(ctx, commit)
	if err := c.Resolve(commit.Seq, result); err != nil {
		return err
	}
	return result
}
