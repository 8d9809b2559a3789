package memtable

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/dolthub/vitess/go/vt/sqlparser"

	"github.com/anvil-lang/anvil/engine"
)

// Session is a throwaway in-memory engine.Session: a registered-table
// catalog plus CSV file I/O. CSV is the only format this reference
// engine actually parses — avro/arrow/parquet are accepted by the
// input()/register() tools' format inference but rejected here, since
// real format support belongs to the opaque, out-of-scope table
// engine this package stands in for during tests.
type Session struct {
	tables map[string]*Table
}

// NewSession builds an empty Session.
func NewSession() *Session {
	return &Session{tables: make(map[string]*Table)}
}

func (s *Session) ReadTable(ctx *engine.Context, path, format string, opts map[string]string) (engine.Table, error) {
	if format != "csv" {
		return nil, fmt.Errorf("memtable: unsupported format %q (only csv)", format)
	}
	return readCSV(path)
}

func (s *Session) RegisterTable(ctx *engine.Context, name, path, format string, opts map[string]string) (engine.Table, error) {
	t, err := s.ReadTable(ctx, path, format, opts)
	if err != nil {
		return nil, err
	}
	mt := t.(*Table)
	s.tables[name] = mt
	return mt, nil
}

func (s *Session) LookupTable(ctx *engine.Context, name string) (engine.Table, error) {
	t, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("memtable: no table registered as %q", name)
	}
	return t, nil
}

func (s *Session) WriteTable(ctx *engine.Context, t engine.Table, path, format, mode string, single bool) error {
	if format != "csv" {
		return fmt.Errorf("memtable: unsupported format %q (only csv)", format)
	}
	flags := os.O_CREATE | os.O_WRONLY
	switch mode {
	case "append":
		flags |= os.O_APPEND
	case "overwrite", "replace":
		flags |= os.O_TRUNC
	default:
		return fmt.Errorf("memtable: unknown write mode %q", mode)
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := make([]string, len(t.Schema()))
	for i, c := range t.Schema() {
		header[i] = c.Name
	}
	if err := w.Write(header); err != nil {
		return err
	}
	iter, err := t.Rows(ctx)
	if err != nil {
		return err
	}
	defer iter.Close(ctx)
	for {
		row, err := iter.Next(ctx)
		if err != nil {
			break
		}
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = fmt.Sprint(v)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// ParseSQLExpr validates text as a standalone SQL expression via
// vitess's parser and returns its syntax error if it has one. A valid
// expression is not evaluated: this reference engine has no SQL
// expression evaluator, so it then always returns an error.
func (s *Session) ParseSQLExpr(text string) (engine.Expression, error) {
	if _, err := sqlparser.ParseExpr(text); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("memtable: SQL expression evaluation is not implemented by this reference engine")
}

// RunSQL supports exactly the reference engine's own narrow subset:
// `SELECT * FROM table` (table lookup, WHERE-less) and `DESCRIBE`
// (an empty table with the name/size/type/nullable schema-description
// columns). Anything richer is the job of a real
// table engine, not this test double; vitess's parser still gates
// syntax before the crude table-name extraction below runs.
func (s *Session) RunSQL(ctx *engine.Context, stmt string) (engine.Table, error) {
	trimmed := strings.TrimSpace(stmt)
	if strings.EqualFold(trimmed, "DESCRIBE") {
		return New(engine.Schema{
			{Name: "name", Type: "string"}, {Name: "size", Type: "int64"},
			{Name: "type", Type: "string"}, {Name: "nullable", Type: "bool"},
		}, nil), nil
	}
	if _, err := sqlparser.Parse(stmt); err != nil {
		return nil, err
	}
	upper := strings.ToUpper(trimmed)
	const prefix = "SELECT * FROM "
	if !strings.HasPrefix(upper, prefix) {
		return nil, fmt.Errorf("memtable: only `SELECT * FROM table` is supported")
	}
	tableName := strings.Trim(strings.TrimSpace(trimmed[len(prefix):]), "`;")
	return s.LookupTable(ctx, tableName)
}

func (s *Session) SchemaTable(ctx *engine.Context, schema engine.Schema) (engine.Table, error) {
	out := make([]engine.Row, len(schema))
	for i, c := range schema {
		out[i] = engine.Row{c.Name, c.Size, c.Type, c.Nullable}
	}
	return New(engine.Schema{
		{Name: "name", Type: "string"}, {Name: "size", Type: "int64"},
		{Name: "type", Type: "string"}, {Name: "nullable", Type: "bool"},
	}, out), nil
}

func (s *Session) Col(name string) engine.Expression { return &colExpr{Name: name, idx: -1} }

func (s *Session) Lit(v interface{}) engine.Expression { return &litExpr{Val: v} }

func (s *Session) Binary(op string, l, r engine.Expression) engine.Expression {
	return &binaryExpr{Op: op, L: l, R: r}
}

func (s *Session) Not(x engine.Expression) engine.Expression { return &notExpr{X: x} }

func (s *Session) Alias(name string, x engine.Expression) engine.Expression {
	return &aliasExpr{Name: name, X: x}
}

func (s *Session) Call(name string, args []engine.Expression) (engine.Expression, error) {
	fn, ok := aggregateFuncs[name]
	if !ok {
		return nil, fmt.Errorf("memtable: unknown function %q", name)
	}
	return &callExpr{Name: name, Args: args, fn: fn}, nil
}

var aggregateFuncs = map[string]func([]interface{}) (interface{}, error){
	"abs": func(args []interface{}) (interface{}, error) {
		f, ok := toFloat(args[0])
		if !ok {
			return nil, fmt.Errorf("memtable: abs needs a numeric argument")
		}
		if f < 0 {
			f = -f
		}
		return f, nil
	},
	"avg":    reduceFloat(func(acc, v float64) float64 { return acc + v }, true),
	"sum":    reduceFloat(func(acc, v float64) float64 { return acc + v }, false),
	"min":    reduceFloat(min, false),
	"max":    reduceFloat(max, false),
	"stddev": stddevFunc,
}

func min(a, b float64) float64 {
	if b < a {
		return b
	}
	return a
}
func max(a, b float64) float64 {
	if b > a {
		return b
	}
	return a
}

// reduceFloat folds args pairwise through combine; avg additionally
// divides by the argument count. These built-ins operate over a
// call's argument list, not a column of rows — the engine's own
// aggregate planning (grouping, windowing) is out of scope here.
func reduceFloat(combine func(acc, v float64) float64, isAvg bool) func([]interface{}) (interface{}, error) {
	return func(args []interface{}) (interface{}, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("memtable: aggregate needs at least one argument")
		}
		acc, ok := toFloat(args[0])
		if !ok {
			return nil, fmt.Errorf("memtable: aggregate needs numeric arguments")
		}
		for _, a := range args[1:] {
			f, ok := toFloat(a)
			if !ok {
				return nil, fmt.Errorf("memtable: aggregate needs numeric arguments")
			}
			acc = combine(acc, f)
		}
		if isAvg {
			acc /= float64(len(args))
		}
		return acc, nil
	}
}

func stddevFunc(args []interface{}) (interface{}, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("memtable: stddev needs at least one argument")
	}
	var sum float64
	vals := make([]float64, 0, len(args))
	for _, a := range args {
		f, ok := toFloat(a)
		if !ok {
			return nil, fmt.Errorf("memtable: stddev needs numeric arguments")
		}
		vals = append(vals, f)
		sum += f
	}
	mean := sum / float64(len(vals))
	var variance float64
	for _, v := range vals {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(vals))
	return math.Sqrt(variance), nil
}

func readCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return New(nil, nil), nil
	}
	schema := make(engine.Schema, len(records[0]))
	for i, name := range records[0] {
		schema[i] = &engine.Column{Name: name, Type: "string", Nullable: true}
	}
	rows := make([]engine.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(engine.Row, len(rec))
		for i, cell := range rec {
			row[i] = inferCell(cell)
		}
		rows = append(rows, row)
	}
	return New(schema, rows), nil
}

func inferCell(s string) interface{} {
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
