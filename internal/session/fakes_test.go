package session

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/bitavt/tablechat/internal/engine"
	"github.com/bitavt/tablechat/internal/provider"
)

// fakeLLM replays scripted replies and records every call.
type fakeLLM struct {
	replies []string
	err     error
	calls   [][]provider.Message
}

func (f *fakeLLM) Name() string    { return "fake" }
func (f *fakeLLM) Available() bool { return true }

func (f *fakeLLM) Chat(ctx context.Context, msgs []provider.Message) (string, error) {
	copied := make([]provider.Message, len(msgs))
	copy(copied, msgs)
	f.calls = append(f.calls, copied)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", errors.New("fake llm: no scripted reply")
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

// fakeEngine dispatches to function fields, with no-op defaults.
type fakeEngine struct {
	materializeFn func(filePath, tableName string) error
	executeFn     func(query string) (*engine.Result, error)

	materialized []string // table names in load order
	executed     []string // queries in execution order
}

func (f *fakeEngine) Materialize(ctx context.Context, filePath, tableName string) error {
	f.materialized = append(f.materialized, tableName)
	if f.materializeFn != nil {
		return f.materializeFn(filePath, tableName)
	}
	return nil
}

func (f *fakeEngine) Execute(ctx context.Context, query string) (*engine.Result, error) {
	f.executed = append(f.executed, query)
	if f.executeFn != nil {
		return f.executeFn(query)
	}
	return &engine.Result{}, nil
}

// shownMessage is one Message call captured by fakeTerm.
type shownMessage struct {
	Role provider.Role
	Text string
}

// fakeTerm feeds scripted input lines and records output. Once the
// script is exhausted, ReadLine returns io.EOF.
type fakeTerm struct {
	inputs []string
	shown  []shownMessage
	tables []*engine.Result
}

func (f *fakeTerm) ReadLine(prompt string) (string, error) {
	if len(f.inputs) == 0 {
		return "", io.EOF
	}
	line := f.inputs[0]
	f.inputs = f.inputs[1:]
	return line, nil
}

func (f *fakeTerm) Message(role provider.Role, text string) {
	f.shown = append(f.shown, shownMessage{Role: role, Text: text})
}

func (f *fakeTerm) Table(res *engine.Result) {
	f.tables = append(f.tables, res)
}

func testHandlers(llm *fakeLLM, db *fakeEngine, term *fakeTerm, cfg Config) *Handlers {
	if llm == nil {
		llm = &fakeLLM{}
	}
	if db == nil {
		db = &fakeEngine{}
	}
	if term == nil {
		term = &fakeTerm{}
	}
	if cfg.MaxRows == 0 {
		cfg.MaxRows = 100
	}
	return NewHandlers(llm, db, term, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}
