package session

import (
	"context"
	"fmt"

	"github.com/bitavt/tablechat/internal/provider"
)

// Narrate turns the raw result rows into a human-readable summary. The
// raw rows go into history first for transparency; the summarization
// itself uses a fresh, narrowly-scoped message sequence rather than
// the full history, to keep the prompt focused.
func (h *Handlers) Narrate(ctx context.Context, st *State) error {
	raw := "SQL results are: " + st.Attempt.Result.Tuples()
	st.push(provider.RoleAssistant, raw)

	msgs := []provider.Message{
		narrationPrompt(st.Schemas),
		{Role: provider.RoleUser, Content: st.Attempt.Question},
		{Role: provider.RoleAssistant, Content: "Generated SQL Text is: " + st.Attempt.Query},
		{Role: provider.RoleAssistant, Content: raw},
	}

	reply, err := h.llm.Chat(ctx, msgs)
	if err != nil {
		return fmt.Errorf("narrating results: %w", err)
	}

	h.term.Table(st.Attempt.Result)
	h.say(st, provider.RoleAssistant, reply)
	st.Attempt.Narration = reply
	st.Next = StageIntake
	return nil
}
