// Package core provides the runtime tier of the Turing machine engine.
// Options for configuring Machine instances.
package core

import (
	"log/slog"

	"github.com/comalice/turingx/internal/primitives"
)

// WithShortcuts replaces the shortcut registry. A nil registry disables shortcuts.
func WithShortcuts(s Shortcuts) Option {
	return func(m *Machine) {
		m.shortcuts = make(Shortcuts, len(s))
		for state, sc := range s {
			m.shortcuts[state] = sc
		}
	}
}

// WithoutShortcuts disables native shortcuts, including solve_fib.
func WithoutShortcuts() Option {
	return WithShortcuts(nil)
}

// WithShortcut registers a single shortcut for state.
func WithShortcut(state primitives.State, sc Shortcut) Option {
	return func(m *Machine) {
		if m.shortcuts == nil {
			m.shortcuts = make(Shortcuts)
		}
		m.shortcuts[state] = sc
	}
}

// WithLogger configures the Machine logger. Halts are logged at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithPublisher configures the Machine with a StepPublisher.
func WithPublisher(p StepPublisher) Option {
	return func(m *Machine) {
		m.publisher = p
	}
}

// WithRunID tags logs, events and snapshots with id.
func WithRunID(id string) Option {
	return func(m *Machine) {
		m.runID = id
	}
}

// WithTable shares a prebuilt table between machines of the same definition.
func WithTable(t *primitives.Table) Option {
	return func(m *Machine) {
		m.table = t
	}
}
