package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitavt/tablechat/internal/engine"
	"github.com/bitavt/tablechat/internal/provider"
)

func TestQueryExecute_Success(t *testing.T) {
	t.Parallel()

	res := &engine.Result{Columns: []string{"total"}, Rows: [][]string{{"30"}}}
	db := &fakeEngine{executeFn: func(string) (*engine.Result, error) { return res, nil }}
	h := testHandlers(nil, db, nil, Config{MaxRetries: 3})
	st := questionState("total sales")
	st.Attempt.Query = "SELECT SUM(amount) FROM sales"
	st.Attempt.LastError = "stale error from a previous cycle"

	require.NoError(t, h.QueryExecute(context.Background(), st))
	assert.Equal(t, StageNarrate, st.Next)
	assert.Same(t, res, st.Attempt.Result)
	assert.Empty(t, st.Attempt.LastError, "success clears the last error")
	assert.Equal(t, []string{"SELECT SUM(amount) FROM sales"}, db.executed)
}

func TestQueryExecute_FailureUnderBoundLoopsToBuild(t *testing.T) {
	t.Parallel()

	db := &fakeEngine{executeFn: func(string) (*engine.Result, error) {
		return nil, errors.New("no such column: amout")
	}}
	h := testHandlers(nil, db, nil, Config{MaxRetries: 3})
	st := questionState("total sales")
	st.Attempt.Query = "SELECT SUM(amout) FROM sales"

	require.NoError(t, h.QueryExecute(context.Background(), st))
	assert.Equal(t, StageQueryBuild, st.Next)
	assert.Equal(t, 1, st.Attempt.Retries)
	assert.Equal(t, "no such column: amout", st.Attempt.LastError)
	assert.Nil(t, st.Attempt.Result)

	last := st.History[len(st.History)-1]
	assert.Equal(t, provider.RoleAssistant, last.Role)
	assert.Contains(t, last.Content, "raised this error")
	assert.Contains(t, last.Content, "no such column: amout",
		"the error stays in history so the next synthesis call sees it")
}

func TestQueryExecute_BoundExhaustedGivesUp(t *testing.T) {
	t.Parallel()

	db := &fakeEngine{executeFn: func(string) (*engine.Result, error) {
		return nil, errors.New("syntax error")
	}}
	h := testHandlers(nil, db, nil, Config{MaxRetries: 1})
	st := questionState("total sales")
	st.Attempt.Query = "SELEC"

	// First failure: retries=1, not > 1, loop back to build.
	require.NoError(t, h.QueryExecute(context.Background(), st))
	assert.Equal(t, StageQueryBuild, st.Next)
	assert.Equal(t, 1, st.Attempt.Retries)

	// Second failure: retries=2 > 1, give up.
	require.NoError(t, h.QueryExecute(context.Background(), st))
	assert.Equal(t, StageIntake, st.Next)
	assert.Equal(t, 2, st.Attempt.Retries)

	last := st.History[len(st.History)-1]
	assert.Equal(t, provider.RoleAssistant, last.Role)
	assert.Contains(t, last.Content, "after 1 attempts",
		"the give-up message embeds the configured bound")
}

func TestQueryExecute_ZeroBoundGivesUpAfterOneAttempt(t *testing.T) {
	t.Parallel()

	db := &fakeEngine{executeFn: func(string) (*engine.Result, error) {
		return nil, errors.New("syntax error")
	}}
	h := testHandlers(nil, db, nil, Config{MaxRetries: 0})
	st := questionState("total sales")
	st.Attempt.Query = "SELEC"

	require.NoError(t, h.QueryExecute(context.Background(), st))
	assert.Equal(t, StageIntake, st.Next, "bound 0 permits exactly one attempt")
	assert.Len(t, db.executed, 1)
}
