// Package session implements the conversational state machine that
// turns natural-language questions into SQL over loaded tables: the
// session state record, the five stage handlers, and their wiring.
package session

import (
	"github.com/bitavt/tablechat/internal/engine"
	"github.com/bitavt/tablechat/internal/provider"
)

// Stage names one step of the session state machine.
type Stage int

// The closed set of stages, plus the terminal marker.
const (
	StageIntake Stage = iota
	StageDataLoad
	StageQueryBuild
	StageQueryExecute
	StageNarrate
	StageTerminal
)

func (s Stage) String() string {
	switch s {
	case StageIntake:
		return "intake"
	case StageDataLoad:
		return "data_load"
	case StageQueryBuild:
		return "query_build"
	case StageQueryExecute:
		return "query_execute"
	case StageNarrate:
		return "narrate"
	case StageTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Attempt tracks one user question's journey from synthesized query
// text through execution outcome to narration.
type Attempt struct {
	Question  string // immutable once set
	Query     string // set by QueryBuild
	Result    *engine.Result
	LastError string
	Retries   int // execution failures so far for this attempt
	Narration string
}

// LoadRequest carries a pending /load command. It exists only for the
// duration of one load cycle.
type LoadRequest struct {
	DataPath   string
	SchemaPath string
}

// State is the mutable session record threaded through the stage
// handlers. The machine driver owns the only live instance.
type State struct {
	// History is the append-only conversation, replayed verbatim to
	// the text-generation provider on every query-build call.
	History []provider.Message

	// Attempt is the active query-synthesis attempt; reset whenever a
	// new question is accepted.
	Attempt *Attempt

	// Load is the pending data-load request, if any.
	Load *LoadRequest

	// Schemas accumulates the formatted description of every table
	// loaded so far. Append-only for the session's lifetime.
	Schemas string

	// Next names the stage to run next; written by whichever handler
	// ran last and read by the router.
	Next Stage
}

const welcomeMessage = "Welcome to tablechat! This tool lets you interact with your tabular data " +
	"by generating SQL queries on your behalf.\n\n" +
	"To get started, load your data and its column description using the command:\n" +
	"  /load <data file> <schema description file>\n\n" +
	"Once your data is loaded, ask any question and I'll retrieve insights for you.\n" +
	"To exit, simply type /q."

// NewState constructs the session state, seeded with the welcome
// message and routed to intake.
func NewState() *State {
	return &State{
		History: []provider.Message{{Role: provider.RoleSystem, Content: welcomeMessage}},
		Next:    StageIntake,
	}
}

// push appends one message to the conversation history.
func (s *State) push(role provider.Role, content string) {
	s.History = append(s.History, provider.Message{Role: role, Content: content})
}
