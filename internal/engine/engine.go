// Package engine provides the embedded relational engine that backs
// tablechat sessions. Tables are materialized from CSV files into an
// in-memory SQLite database and queried with plain SQL.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Engine wraps a single in-memory SQLite database. It is not safe for
// concurrent use; the session loop is strictly sequential.
type Engine struct {
	db *sql.DB
}

// Open creates a fresh in-memory engine. Contents live for the process
// lifetime of one session and are never persisted.
func Open() (*Engine, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps every statement on the same in-memory
	// database and matches the single-writer session model.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Engine{db: db}, nil
}

// Close closes the database connection.
func (e *Engine) Close() error {
	return e.db.Close()
}

// Result holds the outcome of a successful query: column names plus
// rows rendered as strings (NULL becomes an empty string).
type Result struct {
	Columns []string
	Rows    [][]string
}

// Tuples renders the rows in a compact tuple list, e.g.
// [(1, north), (2, south)]. Used when replaying raw results into the
// conversation history.
func (r *Result) Tuples() string {
	var b strings.Builder
	b.WriteString("[")
	for i, row := range r.Rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		b.WriteString(strings.Join(row, ", "))
		b.WriteString(")")
	}
	b.WriteString("]")
	return b.String()
}

// Execute runs a SQL statement and returns its rows. Errors are
// surfaced as opaque text from the engine; callers inspect only the
// fact of failure, never the content.
func (e *Engine) Execute(ctx context.Context, query string) (*Result, error) {
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	res := &Result{Columns: cols}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make([]string, len(cols))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		res.Rows = append(res.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case string:
		return t
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", t), "0"), ".")
	default:
		return fmt.Sprintf("%v", t)
	}
}

// TableName derives a table identifier from a file path: the base name
// with its extension stripped, lowered, with anything outside
// [a-z0-9_] replaced by an underscore. A leading digit gets a "t_"
// prefix so the identifier stays bare-word usable in queries.
func TableName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ToLower(base)

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := b.String()
	if name == "" {
		return "t"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "t_" + name
	}
	return name
}

// quoteIdent quotes an identifier for direct inclusion in SQL.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
