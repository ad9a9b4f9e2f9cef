package session

import (
	"context"
	"fmt"

	"github.com/bitavt/tablechat/internal/provider"
)

// QueryBuild sends the full conversation history, prefixed by the
// synthesis instruction built from the accumulated schemas, to the
// text-generation provider. A clarification-marked reply defers the
// question back to the user; anything else is treated as SQL.
func (h *Handlers) QueryBuild(ctx context.Context, st *State) error {
	msgs := make([]provider.Message, 0, len(st.History)+1)
	msgs = append(msgs, synthesisPrompt(st.Schemas, h.cfg.MaxRows))
	msgs = append(msgs, st.History...)

	reply, err := h.llm.Chat(ctx, msgs)
	if err != nil {
		return fmt.Errorf("generating query: %w", err)
	}

	if question, ok := clarification(reply); ok {
		h.say(st, provider.RoleAssistant,
			"Your question is ambiguous. Please provide additional details: "+question)
		st.Next = StageIntake
		return nil
	}

	query := stripFences(reply)
	h.log.Debug("query generated", "sql", query)

	// The query stays in history so later synthesis calls can repair it.
	st.push(provider.RoleAssistant, query)
	st.Attempt.Query = query
	st.Next = StageQueryExecute
	return nil
}
