package engine

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Materialize loads a CSV file into the given table, replacing any
// existing table of the same name. The first record is the header row;
// column types are inferred from the data (INTEGER, REAL, or TEXT).
func (e *Engine) Materialize(ctx context.Context, filePath, tableName string) error {
	header, records, err := readCSV(filePath)
	if err != nil {
		return err
	}

	types := inferColumnTypes(records, len(header))

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting load transaction: %w", err)
	}
	defer tx.Rollback()

	// Replace-or-create: reloading the same file is idempotent.
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(tableName)); err != nil {
		return fmt.Errorf("dropping existing table: %w", err)
	}

	defs := make([]string, len(header))
	for i, col := range header {
		defs[i] = quoteIdent(strings.TrimSpace(col)) + " " + types[i]
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(tableName), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("creating table %s: %w", tableName, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(header)), ", ")
	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(tableName), placeholders)
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(header))
	for _, record := range records {
		for i := range header {
			var v string
			if i < len(record) {
				v = record[i]
			}
			if v == "" && types[i] != "TEXT" {
				args[i] = nil
			} else {
				args[i] = v
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load: %w", err)
	}
	return nil
}

// readCSV reads the whole file, returning the header row and data
// records. Records are allowed to have fewer fields than the header;
// missing trailing fields load as empty.
func readCSV(filePath string) ([]string, [][]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, nil, fmt.Errorf("%s: missing header row", filePath)
	}
	return records[0], records[1:], nil
}

// inferColumnTypes picks the narrowest SQLite type that fits every
// non-empty value in a column: INTEGER, then REAL, then TEXT. SQLite
// column affinity converts the string values on insert.
func inferColumnTypes(records [][]string, cols int) []string {
	types := make([]string, cols)
	for i := 0; i < cols; i++ {
		isInt, isReal, seen := true, true, false
		for _, record := range records {
			if i >= len(record) || record[i] == "" {
				continue
			}
			seen = true
			v := strings.TrimSpace(record[i])
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				isInt = false
			}
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				isReal = false
			}
			if !isInt && !isReal {
				break
			}
		}
		switch {
		case !seen:
			types[i] = "TEXT"
		case isInt:
			types[i] = "INTEGER"
		case isReal:
			types[i] = "REAL"
		default:
			types[i] = "TEXT"
		}
	}
	return types
}
