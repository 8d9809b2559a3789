package memtable

import (
	"fmt"
	"io"
	"sort"

	"github.com/anvil-lang/anvil/engine"
)

// Table is an in-memory, fully materialized engine.Table: a schema
// plus a slice of rows, copied (not aliased) on every operation so
// callers can hold onto an old Table after deriving a new one.
type Table struct {
	schema engine.Schema
	rows   []engine.Row
}

// New builds a Table from a schema and rows. Rows are not copied.
func New(schema engine.Schema, rows []engine.Row) *Table {
	return &Table{schema: schema, rows: rows}
}

func (t *Table) Schema() engine.Schema { return t.schema }

func (t *Table) Rows(ctx *engine.Context) (engine.RowIter, error) {
	return &sliceIter{rows: t.rows}, nil
}

type sliceIter struct {
	rows []engine.Row
	pos  int
}

func (it *sliceIter) Next(ctx *engine.Context) (engine.Row, error) {
	if it.pos >= len(it.rows) {
		return nil, io.EOF
	}
	r := it.rows[it.pos]
	it.pos++
	return r, nil
}
func (it *sliceIter) Close(ctx *engine.Context) error { return nil }

func (t *Table) Filter(ctx *engine.Context, pred engine.Expression) (engine.Table, error) {
	resolve(pred, t.schema)
	var out []engine.Row
	for _, row := range t.rows {
		v, err := pred.Eval(ctx, row)
		if err != nil {
			return nil, err
		}
		if b, ok := v.(bool); ok && b {
			out = append(out, row)
		}
	}
	return New(t.schema, out), nil
}

func (t *Table) Select(ctx *engine.Context, exprs []engine.Expression) (engine.Table, error) {
	for _, e := range exprs {
		resolve(e, t.schema)
	}
	schema := make(engine.Schema, len(exprs))
	for i, e := range exprs {
		schema[i] = &engine.Column{Name: outputName(e), Type: e.Type()}
	}
	out := make([]engine.Row, len(t.rows))
	for i, row := range t.rows {
		nr := make(engine.Row, len(exprs))
		for j, e := range exprs {
			v, err := e.Eval(ctx, row)
			if err != nil {
				return nil, err
			}
			nr[j] = v
		}
		out[i] = nr
	}
	return New(schema, out), nil
}

func (t *Table) Sort(ctx *engine.Context, fields []engine.SortField) (engine.Table, error) {
	idx := make([]int, len(fields))
	for i, f := range fields {
		idx[i] = t.colIndex(f.Column)
	}
	out := append([]engine.Row(nil), t.rows...)
	sort.SliceStable(out, func(a, b int) bool {
		for i, f := range fields {
			ci := idx[i]
			if ci < 0 {
				continue
			}
			av, bv := out[a][ci], out[b][ci]
			if compareEq(av, bv) {
				continue
			}
			less := lessThan(av, bv, f.NullsFirst)
			if f.Ascending || av == nil || bv == nil {
				return less
			}
			return !less
		}
		return false
	})
	return New(t.schema, out), nil
}

func lessThan(a, b interface{}, nullsFirst bool) bool {
	if a == nil || b == nil {
		if a == nil && b == nil {
			return false
		}
		if a == nil {
			return nullsFirst
		}
		return !nullsFirst
	}
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af < bf
		}
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func (t *Table) colIndex(name string) int {
	for i, c := range t.schema {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (t *Table) Join(ctx *engine.Context, other engine.Table, typ engine.JoinType, ltCols, rtCols []string) (engine.Table, error) {
	o, ok := other.(*Table)
	if !ok {
		return nil, fmt.Errorf("memtable: Join requires another memtable.Table")
	}
	lIdx := make([]int, len(ltCols))
	for i, c := range ltCols {
		lIdx[i] = t.colIndex(c)
	}
	rIdx := make([]int, len(rtCols))
	for i, c := range rtCols {
		rIdx[i] = o.colIndex(c)
	}

	schema := append(append(engine.Schema{}, t.schema...), o.schema...)
	var out []engine.Row
	rightMatched := make([]bool, len(o.rows))

	for _, lr := range t.rows {
		matched := false
		for ri, rr := range o.rows {
			if joinKeysEqual(lr, rr, lIdx, rIdx) {
				matched = true
				rightMatched[ri] = true
				out = append(out, concatRows(lr, rr))
			}
		}
		if !matched && (typ == engine.LeftJoin || typ == engine.OuterJoin) {
			out = append(out, concatRows(lr, nullRow(len(o.schema))))
		}
	}
	if typ == engine.RightJoin || typ == engine.OuterJoin {
		for ri, rr := range o.rows {
			if !rightMatched[ri] {
				out = append(out, concatRows(nullRow(len(t.schema)), rr))
			}
		}
	}
	return New(schema, out), nil
}

func joinKeysEqual(l, r engine.Row, lIdx, rIdx []int) bool {
	for i := range lIdx {
		if lIdx[i] < 0 || rIdx[i] < 0 {
			return false
		}
		if !compareEq(l[lIdx[i]], r[rIdx[i]]) {
			return false
		}
	}
	return true
}

func concatRows(a, b engine.Row) engine.Row {
	out := make(engine.Row, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

func nullRow(n int) engine.Row { return make(engine.Row, n) }

func (t *Table) Intersect(ctx *engine.Context, other engine.Table) (engine.Table, error) {
	o, ok := other.(*Table)
	if !ok {
		return nil, fmt.Errorf("memtable: Intersect requires another memtable.Table")
	}
	var out []engine.Row
	for _, lr := range t.rows {
		for _, rr := range o.rows {
			if rowsEqual(lr, rr) {
				out = append(out, lr)
				break
			}
		}
	}
	return New(t.schema, out), nil
}

func (t *Table) Union(ctx *engine.Context, other engine.Table) (engine.Table, error) {
	o, ok := other.(*Table)
	if !ok {
		return nil, fmt.Errorf("memtable: Union requires another memtable.Table")
	}
	out := append(append([]engine.Row{}, t.rows...), o.rows...)
	return New(t.schema, out), nil
}

func (t *Table) Distinct(ctx *engine.Context) (engine.Table, error) {
	var out []engine.Row
	for _, row := range t.rows {
		dup := false
		for _, seen := range out {
			if rowsEqual(row, seen) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, row)
		}
	}
	return New(t.schema, out), nil
}

func rowsEqual(a, b engine.Row) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !compareEq(a[i], b[i]) {
			return false
		}
	}
	return true
}

func (t *Table) Describe(ctx *engine.Context) (engine.Table, error) {
	schema := engine.Schema{
		{Name: "column", Type: "string"},
		{Name: "count", Type: "int64"},
		{Name: "mean", Type: "float64"},
		{Name: "min", Type: "float64"},
		{Name: "max", Type: "float64"},
	}
	var out []engine.Row
	for ci, col := range t.schema {
		var n int64
		var sum, min, max float64
		first := true
		for _, row := range t.rows {
			f, ok := toFloat(row[ci])
			if !ok {
				continue
			}
			n++
			sum += f
			if first || f < min {
				min = f
			}
			if first || f > max {
				max = f
			}
			first = false
		}
		mean := 0.0
		if n > 0 {
			mean = sum / float64(n)
		}
		out = append(out, engine.Row{col.Name, n, mean, min, max})
	}
	return New(schema, out), nil
}

func (t *Table) DropColumns(ctx *engine.Context, names []string) (engine.Table, error) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	var keepIdx []int
	var schema engine.Schema
	for i, c := range t.schema {
		if !drop[c.Name] {
			keepIdx = append(keepIdx, i)
			schema = append(schema, c)
		}
	}
	out := make([]engine.Row, len(t.rows))
	for i, row := range t.rows {
		nr := make(engine.Row, len(keepIdx))
		for j, ci := range keepIdx {
			nr[j] = row[ci]
		}
		out[i] = nr
	}
	return New(schema, out), nil
}

func (t *Table) FillNull(ctx *engine.Context, value int64, cols []string) (engine.Table, error) {
	targets := make(map[int]bool)
	if len(cols) == 0 {
		for i := range t.schema {
			targets[i] = true
		}
	} else {
		for _, c := range cols {
			if idx := t.colIndex(c); idx >= 0 {
				targets[idx] = true
			}
		}
	}
	out := make([]engine.Row, len(t.rows))
	for i, row := range t.rows {
		nr := append(engine.Row(nil), row...)
		for ci := range targets {
			if nr[ci] == nil {
				nr[ci] = value
			}
		}
		out[i] = nr
	}
	return New(t.schema, out), nil
}

func (t *Table) Count(ctx *engine.Context, col string) (engine.Table, error) {
	schema := engine.Schema{{Name: "count", Type: "int64"}}
	if col == "" || col == "*" {
		return New(schema, []engine.Row{{int64(len(t.rows))}}), nil
	}
	idx := t.colIndex(col)
	if idx < 0 {
		return nil, fmt.Errorf("memtable: unknown column %q", col)
	}
	var n int64
	for _, row := range t.rows {
		if row[idx] != nil {
			n++
		}
	}
	return New(schema, []engine.Row{{n}}), nil
}

func (t *Table) Limit(ctx *engine.Context, skip int64, count *int64) (engine.Table, error) {
	rows := t.rows
	if skip > 0 {
		if skip >= int64(len(rows)) {
			rows = nil
		} else {
			rows = rows[skip:]
		}
	}
	if count != nil && *count >= 0 && *count < int64(len(rows)) {
		rows = rows[:*count]
	}
	return New(t.schema, append([]engine.Row(nil), rows...)), nil
}

func (t *Table) Select2(ctx *engine.Context, cols []engine.SelectColumn) (engine.Table, error) {
	idx := make([]int, len(cols))
	schema := make(engine.Schema, len(cols))
	for i, c := range cols {
		ci := t.colIndex(c.Name)
		idx[i] = ci
		name := c.Name
		if c.Rename != "" {
			name = c.Rename
		}
		var typ string
		if ci >= 0 {
			typ = t.schema[ci].Type
		}
		schema[i] = &engine.Column{Name: name, Type: typ}
	}
	out := make([]engine.Row, len(t.rows))
	for i, row := range t.rows {
		nr := make(engine.Row, len(idx))
		for j, ci := range idx {
			if ci >= 0 {
				nr[j] = row[ci]
			}
		}
		out[i] = nr
	}
	return New(schema, out), nil
}
