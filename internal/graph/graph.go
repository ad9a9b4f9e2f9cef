// Package graph provides a small transition-table state machine
// driver. Nodes run against a shared mutable state record; after each
// node a router reads the state to pick the next node, and the
// transition is checked against the node's declared successor set.
// Illegal transitions and unregistered stages abort the run.
package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Handler runs one node against the state record. Writing the routing
// decision into the state is the handler's responsibility.
type Handler[T any] func(ctx context.Context, state T) error

// Router reads the routing decision out of the state record.
type Router[S comparable, T any] func(state T) S

// ErrorHook recovers from a handler failure. It returns the stage to
// continue from, or an error to abort the run.
type ErrorHook[S comparable, T any] func(ctx context.Context, state T, stage S, err error) (S, error)

// Machine executes a fixed transition table over a mutable state
// record, one node at a time, until the terminal stage is reached.
type Machine[S comparable, T any] struct {
	terminal S
	router   Router[S, T]
	onError  ErrorHook[S, T]
	logger   *slog.Logger
	nodes    map[S]*node[S, T]
}

type node[S comparable, T any] struct {
	run  Handler[T]
	next map[S]struct{}
}

// New creates a machine. The router is consulted after every
// successful handler; reaching terminal ends the run.
func New[S comparable, T any](terminal S, router Router[S, T]) *Machine[S, T] {
	return &Machine[S, T]{
		terminal: terminal,
		router:   router,
		nodes:    make(map[S]*node[S, T]),
	}
}

// WithLogger attaches a logger for per-stage timing and routing logs.
func (m *Machine[S, T]) WithLogger(logger *slog.Logger) *Machine[S, T] {
	m.logger = logger
	return m
}

// WithErrorHook attaches a recovery hook for handler failures. Without
// one, any handler error aborts the run.
func (m *Machine[S, T]) WithErrorHook(hook ErrorHook[S, T]) *Machine[S, T] {
	m.onError = hook
	return m
}

// Node registers a stage handler together with its legal successor
// stages. Routing to any stage outside this set is a fatal error.
func (m *Machine[S, T]) Node(id S, run Handler[T], next ...S) *Machine[S, T] {
	n := &node[S, T]{run: run, next: make(map[S]struct{}, len(next))}
	for _, s := range next {
		n.next[s] = struct{}{}
	}
	m.nodes[id] = n
	return m
}

// Run drives the machine from start until the terminal stage is
// routed to, the context is cancelled, or the run aborts.
func (m *Machine[S, T]) Run(ctx context.Context, start S, state T) error {
	cur := start
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, ok := m.nodes[cur]
		if !ok {
			return fmt.Errorf("graph: no handler registered for stage %v", cur)
		}

		began := time.Now()
		err := n.run(ctx, state)
		if m.logger != nil {
			m.logger.Debug("stage finished",
				"stage", fmt.Sprintf("%v", cur),
				"duration_ms", time.Since(began).Milliseconds(),
				"failed", err != nil)
		}

		var next S
		if err != nil {
			if m.onError == nil {
				return fmt.Errorf("graph: stage %v: %w", cur, err)
			}
			next, err = m.onError(ctx, state, cur, err)
			if err != nil {
				return err
			}
		} else {
			next = m.router(state)
		}

		if _, ok := n.next[next]; !ok {
			return fmt.Errorf("graph: illegal transition from %v to %v", cur, next)
		}
		if next == m.terminal {
			return nil
		}
		if m.logger != nil {
			m.logger.Debug("routing", "from", fmt.Sprintf("%v", cur), "to", fmt.Sprintf("%v", next))
		}
		cur = next
	}
}
