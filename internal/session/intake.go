package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"

	"github.com/bitavt/tablechat/internal/provider"
)

const (
	quitCommand = "/q"
	loadCommand = "/load"
	loadUsage   = "/load <data file> <schema description file>"

	inputPrompt = ">>> User prompt (/q to quit, /load to load data): "
)

// Intake reads one line of user input and dispatches it: quit, load
// command, or natural-language question. Malformed load commands and
// questions asked before any data is loaded re-prompt instead of
// advancing; neither is a failure.
func (h *Handlers) Intake(ctx context.Context, st *State) error {
	line, err := h.term.ReadLine(inputPrompt)
	if err != nil {
		if errors.Is(err, io.EOF) {
			st.Next = StageTerminal
			return nil
		}
		return fmt.Errorf("reading input: %w", err)
	}

	input := strings.TrimSpace(line)
	lower := strings.ToLower(input)

	switch {
	case input == "":
		st.Next = StageIntake

	case strings.HasPrefix(lower, quitCommand):
		st.Next = StageTerminal

	case strings.HasPrefix(lower, loadCommand):
		req, err := parseLoadCommand(input)
		if err != nil {
			h.log.Warn("malformed load command", "error", err)
			h.say(st, provider.RoleSystem, "Usage: "+loadUsage)
			st.Next = StageIntake
			return nil
		}
		st.Load = req
		st.Next = StageDataLoad

	case st.Schemas == "":
		// Guard every downstream stage from an empty schema context.
		h.say(st, provider.RoleSystem,
			"Please load your data first using the command "+loadUsage+".")
		st.Next = StageIntake

	default:
		st.push(provider.RoleUser, input)
		st.Attempt = &Attempt{Question: input}
		st.Next = StageQueryBuild
	}
	return nil
}

// parseLoadCommand tokenizes a /load line. shlex splitting lets quoted
// paths contain spaces. Exactly two arguments are required.
func parseLoadCommand(input string) (*LoadRequest, error) {
	fields, err := shlex.Split(input)
	if err != nil {
		return nil, fmt.Errorf("tokenizing load command: %w", err)
	}
	if len(fields) != 3 {
		return nil, fmt.Errorf("expected 2 arguments, got %d", len(fields)-1)
	}
	return &LoadRequest{DataPath: fields[1], SchemaPath: fields[2]}, nil
}
