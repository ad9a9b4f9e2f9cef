package session

import (
	"context"
	"log/slog"

	"github.com/bitavt/tablechat/internal/engine"
	"github.com/bitavt/tablechat/internal/provider"
)

// QueryEngine is the relational collaborator: materialize a tabular
// file under a table name (replace-or-create), execute SQL.
type QueryEngine interface {
	Materialize(ctx context.Context, filePath, tableName string) error
	Execute(ctx context.Context, query string) (*engine.Result, error)
}

// Terminal is the console collaborator the handlers talk to: one line
// of input in, user-visible messages and result tables out.
type Terminal interface {
	ReadLine(prompt string) (string, error)
	Message(role provider.Role, text string)
	Table(res *engine.Result)
}

// Config holds the session's fixed, process-wide constants.
type Config struct {
	// MaxRetries is the retry bound: a bound of N permits N+1 total
	// execution attempts per question before giving up.
	MaxRetries int

	// MaxRows is the row-limit hint for the synthesis prompt.
	MaxRows int
}

// Handlers implements the five stage handlers over the session's
// collaborators. Each handler mutates the state and writes the next
// stage into it.
type Handlers struct {
	llm  provider.Generator
	db   QueryEngine
	term Terminal
	cfg  Config
	log  *slog.Logger
}

// NewHandlers wires the stage handlers to their collaborators.
func NewHandlers(llm provider.Generator, db QueryEngine, term Terminal, cfg Config, log *slog.Logger) *Handlers {
	if log == nil {
		log = slog.Default()
	}
	return &Handlers{llm: llm, db: db, term: term, cfg: cfg, log: log}
}

// say appends a user-visible message to history and shows it.
func (h *Handlers) say(st *State, role provider.Role, text string) {
	st.push(role, text)
	h.term.Message(role, text)
}
