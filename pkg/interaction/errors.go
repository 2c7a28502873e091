package interaction

import "errors"

var (
	// ErrNoSession is returned by pointer moves and releases with no drag
	// in progress.
	ErrNoSession = errors.New("no drag session")
	// ErrSessionActive is returned when a pointer-down arrives while a drag
	// is still held.
	ErrSessionActive = errors.New("drag session already active")
	// ErrUnknownTask is returned for a target id that is not in the chart.
	ErrUnknownTask = errors.New("unknown task")
	// ErrTaskDisabled is returned when deleting a read-only task.
	ErrTaskDisabled = errors.New("task is read-only")
	// ErrUnknownCommit is returned when resolving a sequence that was never
	// issued or was already resolved.
	ErrUnknownCommit = errors.New("unknown commit")
	// ErrStaleCommit is returned when every task of the commit was touched
	// by a newer commit before the resolution arrived.
	ErrStaleCommit = errors.New("stale commit discarded")
)
