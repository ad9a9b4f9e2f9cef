package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := Open()
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const salesCSV = "id,amount,date\n1,10,2026-07-01\n2,20,2026-07-15\n"

func TestMaterializeAndExecute(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	path := writeCSV(t, "sales.csv", salesCSV)
	require.NoError(t, e.Materialize(context.Background(), path, "sales"))

	res, err := e.Execute(context.Background(), "SELECT id, amount FROM sales ORDER BY id")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "amount"}, res.Columns)
	assert.Equal(t, [][]string{{"1", "10"}, {"2", "20"}}, res.Rows)
}

func TestMaterialize_NumericAffinity(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	path := writeCSV(t, "sales.csv", salesCSV)
	require.NoError(t, e.Materialize(context.Background(), path, "sales"))

	res, err := e.Execute(context.Background(), "SELECT SUM(amount) FROM sales")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "30", res.Rows[0][0], "integer columns must sum, not concatenate")

	res, err = e.Execute(context.Background(), "SELECT AVG(amount) FROM sales")
	require.NoError(t, err)
	assert.Equal(t, "15", res.Rows[0][0])
}

func TestMaterialize_RealAndTextColumns(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	path := writeCSV(t, "mix.csv", "name,price\nwidget,1.5\ngadget,2.25\n")
	require.NoError(t, e.Materialize(context.Background(), path, "mix"))

	res, err := e.Execute(context.Background(), "SELECT AVG(price) FROM mix")
	require.NoError(t, err)
	assert.Equal(t, "1.875", res.Rows[0][0])

	res, err = e.Execute(context.Background(), "SELECT name FROM mix WHERE price > 2")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"gadget"}}, res.Rows)
}

func TestMaterialize_ReloadReplaces(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	path := writeCSV(t, "sales.csv", salesCSV)

	require.NoError(t, e.Materialize(context.Background(), path, "sales"))
	require.NoError(t, e.Materialize(context.Background(), path, "sales"))

	res, err := e.Execute(context.Background(), "SELECT COUNT(*) FROM sales")
	require.NoError(t, err)
	assert.Equal(t, "2", res.Rows[0][0], "reloading must replace, not append")
}

func TestMaterialize_EmptyValuesLoadAsNull(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	path := writeCSV(t, "gaps.csv", "id,amount\n1,\n2,20\n")
	require.NoError(t, e.Materialize(context.Background(), path, "gaps"))

	res, err := e.Execute(context.Background(), "SELECT COUNT(amount) FROM gaps")
	require.NoError(t, err)
	assert.Equal(t, "1", res.Rows[0][0])
}

func TestMaterialize_MissingFile(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	err := e.Materialize(context.Background(), "/nonexistent/sales.csv", "sales")
	require.Error(t, err)
}

func TestMaterialize_EmptyFile(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	path := writeCSV(t, "empty.csv", "")
	err := e.Materialize(context.Background(), path, "empty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing header row")
}

func TestExecute_ErrorSurfacesAsText(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	_, err := e.Execute(context.Background(), "SELECT * FROM nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestResult_Tuples(t *testing.T) {
	t.Parallel()

	res := &Result{
		Columns: []string{"id", "region"},
		Rows:    [][]string{{"1", "north"}, {"2", "south"}},
	}
	assert.Equal(t, "[(1, north), (2, south)]", res.Tuples())
	assert.Equal(t, "[]", (&Result{Columns: []string{"id"}}).Tuples())
}

func TestTableName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"sales.csv", "sales"},
		{"/data/2026 Sales Report.csv", "t_2026_sales_report"},
		{"照.csv", "_"},
		{"users", "users"},
		{"weird-name.v2.csv", "weird_name_v2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TableName(tt.path), "path %q", tt.path)
	}
}

func TestInferColumnTypes(t *testing.T) {
	t.Parallel()

	records := [][]string{
		{"1", "1.5", "abc", ""},
		{"2", "2", "3", ""},
	}
	assert.Equal(t, []string{"INTEGER", "REAL", "TEXT", "TEXT"}, inferColumnTypes(records, 4))
}
