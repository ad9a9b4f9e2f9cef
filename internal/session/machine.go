package session

import (
	"context"
	"log/slog"

	"github.com/bitavt/tablechat/internal/graph"
	"github.com/bitavt/tablechat/internal/provider"
)

// NewMachine wires the stage handlers into the session transition
// table. The router simply reads the Next field the last handler
// wrote; anything outside the declared edges aborts the run.
func NewMachine(h *Handlers, log *slog.Logger) *graph.Machine[Stage, *State] {
	router := func(st *State) Stage { return st.Next }

	m := graph.New[Stage, *State](StageTerminal, router).
		WithLogger(log).
		WithErrorHook(h.recover)

	m.Node(StageIntake, h.Intake,
		StageIntake, StageDataLoad, StageQueryBuild, StageTerminal)
	m.Node(StageDataLoad, h.DataLoad,
		StageIntake)
	m.Node(StageQueryBuild, h.QueryBuild,
		StageIntake, StageQueryExecute)
	m.Node(StageQueryExecute, h.QueryExecute,
		StageNarrate, StageQueryBuild, StageIntake)
	m.Node(StageNarrate, h.Narrate,
		StageIntake)

	return m
}

// recover is the single collaborator-boundary failure policy: log the
// failure, tell the user in plain language, and return the session to
// intake. A failure inside intake itself (the prompt is unreadable)
// ends the session instead, since re-prompting cannot make progress.
func (h *Handlers) recover(ctx context.Context, st *State, stage Stage, err error) (Stage, error) {
	h.log.Error("stage failed", "stage", stage.String(), "error", err.Error())

	if stage == StageIntake {
		st.Next = StageTerminal
		return StageTerminal, nil
	}

	h.say(st, provider.RoleSystem,
		"Something went wrong: "+err.Error()+"\nReturning to the prompt.")
	st.Next = StageIntake
	return StageIntake, nil
}
