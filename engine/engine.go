// Package engine defines the contract Anvil's compiled core holds the
// relational/columnar "table engine" to (spec.md §6). The table engine
// itself — joins, filters, aggregates, file I/O — is an external,
// opaque collaborator; this package only fixes the shape a
// conforming engine must present, modeled on the teacher's own
// sql.Expression / sql.Row / sql.Schema shape (inferable from the
// constructor idiom preserved in the retrieval pack's
// parse/expression_test.go: expression.NewIdentifier, expression.NewLiteral,
// and from the teacher's sql.Context/driver.ContextBuilder pattern in
// driver/context.go).
package engine

import "context"

// Context carries the ambient request-scoped state (cancellation,
// run correlation id) across every engine call, the same role
// the teacher's *sql.Context plays for every Table/Expression method.
type Context struct {
	context.Context
	RunID string
}

// NewContext wraps a stdlib context with an Anvil run id.
func NewContext(ctx context.Context, runID string) *Context {
	return &Context{Context: ctx, RunID: runID}
}

// Row is one row of a Table: a slice of column values in schema order.
type Row []interface{}

// Column describes one field of a Schema.
type Column struct {
	Name     string
	Size     int64
	Type     string
	Nullable bool
}

// Schema is an ordered list of Columns.
type Schema []*Column

// RowIter streams the rows of a Table.
type RowIter interface {
	// Next returns the next Row, or io.EOF when exhausted.
	Next(ctx *Context) (Row, error)
	Close(ctx *Context) error
}

// JoinType enumerates the join kinds the join tool accepts.
type JoinType int

const (
	InnerJoin JoinType = iota
	OuterJoin
	LeftJoin
	RightJoin
)

// SortField is one entry of a sort() tool's column list: a column
// name, ascending/descending, and nulls-first/nulls-last.
type SortField struct {
	Column      string
	Ascending   bool
	NullsFirst  bool
}

// Expression is the table engine's own lowered expression type — the
// target of internal/exprlower (spec.md §4.2).
type Expression interface {
	Eval(ctx *Context, row Row) (interface{}, error)
	Type() string
	Children() []Expression
	String() string
}

// Table is the opaque columnar table value tools consume and produce.
type Table interface {
	Schema() Schema
	Rows(ctx *Context) (RowIter, error)

	Filter(ctx *Context, pred Expression) (Table, error)
	Select(ctx *Context, exprs []Expression) (Table, error)
	Sort(ctx *Context, fields []SortField) (Table, error)
	Join(ctx *Context, other Table, typ JoinType, ltCols, rtCols []string) (Table, error)
	Intersect(ctx *Context, other Table) (Table, error)
	Union(ctx *Context, other Table) (Table, error)
	Distinct(ctx *Context) (Table, error)
	Describe(ctx *Context) (Table, error)
	DropColumns(ctx *Context, names []string) (Table, error)
	FillNull(ctx *Context, value int64, cols []string) (Table, error)
	Count(ctx *Context, col string) (Table, error)
	Limit(ctx *Context, skip int64, count *int64) (Table, error)
	Select2(ctx *Context, cols []SelectColumn) (Table, error)
}

// SelectColumn is one entry of a select() tool's column list: the
// source column name and an optional rename ("old:new").
type SelectColumn struct {
	Name    string
	Rename  string // empty if no rename
}

// Session is the engine's per-run handle: file readers/writers, the
// registered-table catalog, and the engine's own SQL-expression and
// SQL-statement parsers (used by the sql tool).
type Session interface {
	ReadTable(ctx *Context, path, format string, opts map[string]string) (Table, error)
	RegisterTable(ctx *Context, name, path, format string, opts map[string]string) (Table, error)
	LookupTable(ctx *Context, name string) (Table, error)
	WriteTable(ctx *Context, t Table, path, format, mode string, single bool) error

	ParseSQLExpr(text string) (Expression, error)
	RunSQL(ctx *Context, stmt string) (Table, error)

	// SchemaTable materializes s as a literal 4-column
	// (name, size, type, nullable) table, backing the schema() tool.
	SchemaTable(ctx *Context, s Schema) (Table, error)

	// Builtin expression constructors, mirroring the teacher's
	// expression-package constructor idiom (expression.NewLiteral,
	// expression.NewEquals, ...): Col/Lit/Binary/Not plus the six
	// built-in aggregate functions named in spec.md §4.2.
	Col(name string) Expression
	Lit(v interface{}) Expression
	Binary(op string, l, r Expression) Expression
	Not(x Expression) Expression
	Alias(name string, x Expression) Expression
	Call(name string, args []Expression) (Expression, error)
}
