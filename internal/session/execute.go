package session

import (
	"context"
	"fmt"

	"github.com/bitavt/tablechat/internal/provider"
)

// QueryExecute runs the synthesized query against the engine. On
// failure the error text is appended to history and the machine loops
// back to query-build so the next synthesis call can repair the query;
// past the retry bound it gives up and returns control to the user.
func (h *Handlers) QueryExecute(ctx context.Context, st *State) error {
	res, err := h.db.Execute(ctx, st.Attempt.Query)
	if err == nil {
		st.Attempt.Result = res
		st.Attempt.LastError = ""
		st.Next = StageNarrate
		return nil
	}

	st.Attempt.Result = nil
	st.Attempt.LastError = err.Error()
	st.Attempt.Retries++
	h.log.Debug("query execution failed",
		"error", st.Attempt.LastError, "retries", st.Attempt.Retries)

	// Strictly greater than: a bound of N permits N+1 total attempts.
	if st.Attempt.Retries > h.cfg.MaxRetries {
		h.say(st, provider.RoleAssistant, fmt.Sprintf(
			"Unfortunately, I was unable to execute your request after %d attempts.",
			h.cfg.MaxRetries))
		st.Next = StageIntake
		return nil
	}

	h.say(st, provider.RoleAssistant,
		"The generated SQL query raised this error:\n"+st.Attempt.LastError)
	st.Next = StageQueryBuild
	return nil
}
