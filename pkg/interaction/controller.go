// Package interaction turns pointer gestures on chart bars into committed
// date and progress changes. Commits are applied optimistically and
// reverted if the owner of the task data rejects them.
package interaction

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/timescale"
)

// Chart receives visual state changes: optimistic drag updates, reverts and
// accepted deletes.
type Chart interface {
	ApplyTasks(tasks []model.Task)
	RemoveTask(id string)
}

// Capturer grabs pointer events for the lifetime of a drag. The release
// func restores the previous listeners.
type Capturer interface {
	Capture() (release func())
}

// Handlers is the owner's callback contract. Nil commit handlers accept.
type Handlers struct {
	DateChange     func(ctx context.Context, task model.Task, descendants []model.Task) error
	ProgressChange func(ctx context.Context, task model.Task) error
	Delete         func(ctx context.Context, task model.Task) error
	DoubleClick    func(task model.Task)
	Select         func(task model.Task, selected bool)
}

// Options tunes gesture interpretation.
type Options struct {
	ClickThreshold float64       // pixels; smaller net moves are clicks
	TimeStep       time.Duration // minimum duration and snap unit
}

// DefaultOptions returns a 3 pixel click threshold and 5 minute step.
func DefaultOptions() Options {
	return Options{ClickThreshold: 3, TimeStep: 5 * time.Minute}
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHandlers sets the owner callbacks.
func WithHandlers(h Handlers) Option {
	return func(c *Controller) { c.handlers = h }
}

// WithChart sets the visual sink.
func WithChart(ch Chart) Option {
	return func(c *Controller) { c.chart = ch }
}

// WithCapturer sets the pointer capture provider.
func WithCapturer(cp Capturer) Option {
	return func(c *Controller) { c.capturer = cp }
}

// WithOptions overrides the gesture options.
func WithOptions(o Options) Option {
	return func(c *Controller) { c.opts = o }
}

// Controller is the bar gesture state machine. Call may run on another
// goroutine; every other method belongs to the event loop.
type Controller struct {
	mapper  *timescale.Mapper
	tasks   []model.Task
	session *Session

	seq     uint64
	latest  map[string]uint64
	pending map[uint64]*Commit

	selectedID string

	opts     Options
	handlers Handlers
	chart    Chart
	capturer Capturer
	logger   *log.Logger
}

// New creates a controller over the given mapping and task collection.
func New(mapper *timescale.Mapper, tasks []model.Task, opts ...Option) *Controller {
	c := &Controller{
		mapper:  mapper,
		tasks:   model.CloneTasks(tasks),
		latest:  make(map[string]uint64),
		pending: make(map[uint64]*Commit),
		opts:    DefaultOptions(),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.opts.TimeStep <= 0 {
		c.opts.TimeStep = DefaultOptions().TimeStep
	}
	return c
}

// SetScene replaces the mapping and tasks after a re-render.
func (c *Controller) SetScene(mapper *timescale.Mapper, tasks []model.Task) {
	c.mapper = mapper
	c.tasks = model.CloneTasks(tasks)
}

// Tasks returns the controller's view of the collection, including
// optimistic changes.
func (c *Controller) Tasks() []model.Task {
	return model.CloneTasks(c.tasks)
}

// Session returns the active drag, if any.
func (c *Controller) Session() (*Session, bool) {
	return c.session, c.session != nil
}

// Selected returns the selected task id.
func (c *Controller) Selected() string { return c.selectedID }

// Pending is the number of unresolved commits.
func (c *Controller) Pending() int { return len(c.pending) }

// PointerDown starts a session on target at chart x. It reports false when
// the gesture is ignored (a progress drag starting outside the bar).
func (c *Controller) PointerDown(target Target, x float64) (bool, error) {
	if c.session != nil {
		return false, ErrSessionActive
	}
	task, ok := model.FindTask(c.tasks, target.TaskID)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownTask, target.TaskID)
	}
	mode := modeFor(task, target.Region)
	if mode == ModeProgress {
		bar := c.mapper.BarGeometry(task, 0)
		if x < bar.X || x > bar.X2() {
			return false, nil
		}
	}

	s := &Session{
		TaskID:   task.ID,
		Mode:     mode,
		AnchorX:  x,
		LastX:    x,
		ReadOnly: task.Disabled,
		Original: task.Clone(),
		Current:  task.Clone(),
	}
	if mode == ModeMove {
		s.OriginalDescendants = model.Descendants(task.ID, c.tasks)
		s.Descendants = model.CloneTasks(s.OriginalDescendants)
	}
	if c.capturer != nil {
		s.release = c.capturer.Capture()
	}
	c.session = s
	c.logger.Debug("drag start", "task", task.ID, "mode", mode, "x", x)
	return true, nil
}

// PointerMove updates the held session and shows the result.
func (c *Controller) PointerMove(x float64) error {
	s := c.session
	if s == nil {
		return ErrNoSession
	}
	s.apply(c.mapper, x, c.opts.TimeStep)
	if !s.ReadOnly {
		c.show(append([]model.Task{s.Current}, s.Descendants...))
	}
	return nil
}

// PointerUp ends the session. A net move under the click threshold, or any
// gesture on a read-only task, becomes a selection and returns a nil commit.
// A gesture that changed nothing also returns nil. Otherwise the change
// stays applied and the returned commit must be resolved.
func (c *Controller) PointerUp(x float64) (*Commit, error) {
	s := c.session
	if s == nil {
		return nil, ErrNoSession
	}
	s.apply(c.mapper, x, c.opts.TimeStep)
	c.endSession()

	if s.ReadOnly || math.Abs(s.Delta()) < c.opts.ClickThreshold {
		if s.Changed() {
			c.show(append([]model.Task{s.Original}, s.OriginalDescendants...))
		}
		c.Select(s.TaskID)
		return nil, nil
	}
	if !s.Changed() {
		return nil, nil
	}

	kind := KindDateChange
	if s.Mode == ModeProgress {
		kind = KindProgressChange
	}
	commit := c.issue(kind, s.Current, s.Descendants, s.Original, s.OriginalDescendants)
	c.show(append([]model.Task{s.Current}, s.Descendants...))
	return commit, nil
}

// Cancel abandons the held session and restores the original task.
func (c *Controller) Cancel() {
	s := c.session
	if s == nil {
		return
	}
	c.endSession()
	if s.Changed() {
		c.show(append([]model.Task{s.Original}, s.OriginalDescendants...))
	}
	c.logger.Debug("drag cancelled", "task", s.TaskID)
}

// Close releases any pointer capture.
func (c *Controller) Close() {
	c.Cancel()
}

func (c *Controller) endSession() {
	if c.session.release != nil {
		c.session.release()
	}
	c.session = nil
}

// Delete proposes removing a task. Deletes are not applied until accepted.
func (c *Controller) Delete(taskID string) (*Commit, error) {
	task, ok := model.FindTask(c.tasks, taskID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTask, taskID)
	}
	if task.Disabled {
		return nil, fmt.Errorf("%w: %s", ErrTaskDisabled, taskID)
	}
	return c.issue(KindDelete, task, nil, task, nil), nil
}

// DoubleClick emits the activate event for a task.
func (c *Controller) DoubleClick(taskID string) {
	task, ok := model.FindTask(c.tasks, taskID)
	if !ok || c.handlers.DoubleClick == nil {
		return
	}
	c.handlers.DoubleClick(task)
}

// Select makes taskID the selection, notifying the previous selection with
// false before the new one with true. An empty id only deselects.
func (c *Controller) Select(taskID string) {
	prev := c.selectedID
	c.selectedID = taskID
	if c.handlers.Select == nil {
		return
	}
	if old, ok := model.FindTask(c.tasks, prev); ok && prev != "" {
		c.handlers.Select(old, false)
	}
	if cur, ok := model.FindTask(c.tasks, taskID); ok {
		c.handlers.Select(cur, true)
	}
}

func (c *Controller) show(tasks []model.Task) {
	for _, t := range tasks {
		if i := model.IndexByID(c.tasks, t.ID); i >= 0 {
			c.tasks[i] = t.Clone()
		}
	}
	if c.chart != nil {
		c.chart.ApplyTasks(model.CloneTasks(tasks))
	}
}
