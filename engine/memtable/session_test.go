package memtable_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvil-lang/anvil/engine"
	"github.com/anvil-lang/anvil/engine/memtable"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "t.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadTableInfersCellTypes(t *testing.T) {
	path := writeCSV(t, "a,b,c\n1,2.5,hello\n")
	sess := memtable.NewSession()
	tbl, err := sess.ReadTable(ctx(), path, "csv", nil)
	require.NoError(t, err)
	got := rows(t, tbl)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0][0])
	assert.Equal(t, 2.5, got[0][1])
	assert.Equal(t, "hello", got[0][2])
}

func TestReadTableEmptyCellIsNil(t *testing.T) {
	path := writeCSV(t, "a\n\"\"\n")
	sess := memtable.NewSession()
	tbl, err := sess.ReadTable(ctx(), path, "csv", nil)
	require.NoError(t, err)
	assert.Nil(t, rows(t, tbl)[0][0])
}

func TestReadTableRejectsNonCSVFormat(t *testing.T) {
	sess := memtable.NewSession()
	_, err := sess.ReadTable(ctx(), "x.parquet", "parquet", nil)
	assert.Error(t, err)
}

func TestRegisterAndLookupTable(t *testing.T) {
	path := writeCSV(t, "a\n1\n")
	sess := memtable.NewSession()
	_, err := sess.RegisterTable(ctx(), "foo", path, "csv", nil)
	require.NoError(t, err)

	got, err := sess.LookupTable(ctx(), "foo")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Schema()[0].Name)

	_, err = sess.LookupTable(ctx(), "missing")
	assert.Error(t, err)
}

func TestWriteTableOverwriteAndAppend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	sess := memtable.NewSession()
	tbl := memtable.New(schema("a"), []engine.Row{{int64(1)}})

	require.NoError(t, sess.WriteTable(ctx(), tbl, path, "csv", "overwrite", false))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n", string(data))

	require.NoError(t, sess.WriteTable(ctx(), tbl, path, "csv", "append", false))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n1\na\n1\n", string(data)) // WriteTable always writes its own header line
}

func TestWriteTableRejectsUnknownMode(t *testing.T) {
	sess := memtable.NewSession()
	tbl := memtable.New(schema("a"), []engine.Row{{int64(1)}})
	err := sess.WriteTable(ctx(), tbl, filepath.Join(t.TempDir(), "o.csv"), "csv", "bogus", false)
	assert.Error(t, err)
}

func TestParseSQLExprValidatesSyntaxOnly(t *testing.T) {
	sess := memtable.NewSession()
	_, err := sess.ParseSQLExpr("a + b")
	assert.Error(t, err) // syntax ok, but evaluation unimplemented by this reference engine

	_, err = sess.ParseSQLExpr("((( not valid")
	assert.Error(t, err)
}

func TestRunSQLSelectStarFromRegisteredTable(t *testing.T) {
	path := writeCSV(t, "a\n1\n2\n")
	sess := memtable.NewSession()
	_, err := sess.RegisterTable(ctx(), "foo", path, "csv", nil)
	require.NoError(t, err)

	tbl, err := sess.RunSQL(ctx(), "SELECT * FROM foo")
	require.NoError(t, err)
	assert.Len(t, rows(t, tbl), 2)
}

func TestRunSQLDescribeReturnsFixedSchema(t *testing.T) {
	sess := memtable.NewSession()
	tbl, err := sess.RunSQL(ctx(), "describe")
	require.NoError(t, err)
	assert.Equal(t, "name", tbl.Schema()[0].Name)
}

func TestRunSQLRejectsUnsupportedStatements(t *testing.T) {
	sess := memtable.NewSession()
	_, err := sess.RunSQL(ctx(), "DELETE FROM foo")
	assert.Error(t, err)
}

func TestRunSQLRejectsInvalidSyntax(t *testing.T) {
	sess := memtable.NewSession()
	_, err := sess.RunSQL(ctx(), "SELECT * FROM (((")
	assert.Error(t, err)
}

func TestSchemaTableMaterializesColumns(t *testing.T) {
	sess := memtable.NewSession()
	s := engine.Schema{{Name: "a", Type: "int64", Size: 8, Nullable: false}}
	tbl, err := sess.SchemaTable(ctx(), s)
	require.NoError(t, err)
	got := rows(t, tbl)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0][0])
	assert.Equal(t, "int64", got[0][2])
	assert.Equal(t, false, got[0][3])
}

func TestExpressionConstructorsEvaluate(t *testing.T) {
	sess := memtable.NewSession()
	tbl := memtable.New(schema("a", "b"), []engine.Row{{int64(2), int64(3)}})

	expr := sess.Binary("+", sess.Col("a"), sess.Col("b"))
	out, err := tbl.Select(ctx(), []engine.Expression{expr})
	require.NoError(t, err)
	got := rows(t, out)
	assert.Equal(t, int64(5), got[0][0])
}

func TestCallRejectsUnknownFunction(t *testing.T) {
	sess := memtable.NewSession()
	_, err := sess.Call("bogus", nil)
	assert.Error(t, err)
}

func TestCallBuiltinAvgAndStddev(t *testing.T) {
	sess := memtable.NewSession()
	avg, err := sess.Call("avg", []engine.Expression{sess.Lit(int64(2)), sess.Lit(int64(4))})
	require.NoError(t, err)
	v, err := avg.Eval(ctx(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	sd, err := sess.Call("stddev", []engine.Expression{sess.Lit(int64(2)), sess.Lit(int64(4))})
	require.NoError(t, err)
	v, err = sd.Eval(ctx(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

func TestNotRejectsNonBoolean(t *testing.T) {
	sess := memtable.NewSession()
	expr := sess.Not(sess.Lit(int64(1)))
	_, err := expr.Eval(ctx(), nil)
	assert.Error(t, err)
}
