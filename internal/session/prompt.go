package session

import (
	"fmt"

	"github.com/bitavt/tablechat/internal/provider"
)

// synthesisPrompt builds the system instruction prefixed to the full
// conversation history on every query-build call.
func synthesisPrompt(schemas string, maxRows int) provider.Message {
	content := fmt.Sprintf(
		"You are an intelligent assistant that converts natural language questions "+
			"into correct SQLite SQL queries.\n"+
			"Your goal is to generate a SQL query by considering the user's intent, "+
			"previous interactions, and the table schemas.\n\n"+
			"Return format:\n"+
			"1. If the intent is clear, generate a complete SQLite SQL query that satisfies "+
			"the request. Return only the SQL query text without any extra commentary. Limit "+
			"query response to %d rows at most.\n"+
			"2. If the intent is ambiguous, ask a follow-up clarification question that "+
			"requests additional details. Prefix your clarification question with "+
			"%q as output.\n\n"+
			"Instructions:\n"+
			"1. Consider the user's intent based on the current question.\n"+
			"2. If any previous SQL query resulted in an error, incorporate the error "+
			"message and generate a corrected query.\n"+
			"3. If previous user questions or clarifications are relevant, include them "+
			"in your analysis.\n\n"+
			"Table schemas: %s",
		maxRows, ClarificationMarker, schemas)
	return provider.Message{Role: provider.RoleSystem, Content: content}
}

// narrationPrompt builds the system instruction for the result
// summarization call.
func narrationPrompt(schemas string) provider.Message {
	content := fmt.Sprintf(
		"You are an intelligent assistant that summarizes SQL query results based on "+
			"given table schemas. \nTable Schemas: %s", schemas)
	return provider.Message{Role: provider.RoleSystem, Content: content}
}
