package store

import (
	"io"

	"github.com/charmbracelet/log"
)

// Listener is notified after every dispatch with the action and new state.
type Listener func(Action, State)

// Store wraps Reduce with the current state and change listeners. It is used
// from a single event loop and is not safe for concurrent use.
type Store struct {
	state     State
	listeners []Listener
	logger    *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for dispatch tracing.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a store seeded with initial.
func New(initial State, opts ...Option) *Store {
	s := &Store{
		state:  initial.Clone(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a copy of the current state.
func (s *Store) State() State {
	return s.state.Clone()
}

// Subscribe registers l for future dispatches.
func (s *Store) Subscribe(l Listener) {
	s.listeners = append(s.listeners, l)
}

// Dispatch reduces a into the current state and notifies listeners.
func (s *Store) Dispatch(a Action) State {
	if a == nil {
		return s.State()
	}
	s.state = Reduce(s.state, a)
	s.logger.Debug("dispatch", "action", a.Kind(), "tasks", len(s.state.Tasks), "selected", s.state.SelectedID)
	for _, l := range s.listeners {
		l(a, s.state.Clone())
	}
	return s.State()
}
