// Package memtable is a minimal in-memory implementation of the
// engine.Session/engine.Table contract, grounded on the teacher's own
// throwaway in-memory catalog (mem/, exercised in the retrieval pack
// only through mem/table_test.go and mem/database_test.go): a
// storage/query engine that exists purely so the rest of the system
// can be exercised without a real database behind it. It backs Anvil's
// tests and the _example demo, never production use.
package memtable

import (
	"fmt"

	"github.com/anvil-lang/anvil/engine"
)

// colExpr is a column reference. idx is resolved lazily against a
// concrete Table's Schema right before row evaluation — mirroring how
// a real query engine binds a parsed column name to a physical
// position once, rather than re-resolving it on every row.
type colExpr struct {
	Name string
	idx  int
}

func (e *colExpr) Eval(ctx *engine.Context, row engine.Row) (interface{}, error) {
	if e.idx < 0 {
		return nil, fmt.Errorf("memtable: unresolved column %q", e.Name)
	}
	return row[e.idx], nil
}
func (e *colExpr) Type() string               { return "" }
func (e *colExpr) Children() []engine.Expression { return nil }
func (e *colExpr) String() string             { return e.Name }

type litExpr struct{ Val interface{} }

func (e *litExpr) Eval(*engine.Context, engine.Row) (interface{}, error) { return e.Val, nil }
func (e *litExpr) Type() string                                         { return fmt.Sprintf("%T", e.Val) }
func (e *litExpr) Children() []engine.Expression                        { return nil }
func (e *litExpr) String() string                                       { return fmt.Sprint(e.Val) }

type binaryExpr struct {
	Op   string
	L, R engine.Expression
}

func (e *binaryExpr) Eval(ctx *engine.Context, row engine.Row) (interface{}, error) {
	l, err := e.L.Eval(ctx, row)
	if err != nil {
		return nil, err
	}
	r, err := e.R.Eval(ctx, row)
	if err != nil {
		return nil, err
	}
	return applyBinary(e.Op, l, r)
}
func (e *binaryExpr) Type() string  { return "" }
func (e *binaryExpr) Children() []engine.Expression { return []engine.Expression{e.L, e.R} }
func (e *binaryExpr) String() string { return fmt.Sprintf("(%s %s %s)", e.L, e.Op, e.R) }

type notExpr struct{ X engine.Expression }

func (e *notExpr) Eval(ctx *engine.Context, row engine.Row) (interface{}, error) {
	v, err := e.X.Eval(ctx, row)
	if err != nil {
		return nil, err
	}
	b, ok := v.(bool)
	if !ok {
		return nil, fmt.Errorf("memtable: NOT applied to non-boolean %v", v)
	}
	return !b, nil
}
func (e *notExpr) Type() string               { return "bool" }
func (e *notExpr) Children() []engine.Expression { return []engine.Expression{e.X} }
func (e *notExpr) String() string             { return "!" + e.X.String() }

type aliasExpr struct {
	Name string
	X    engine.Expression
}

func (e *aliasExpr) Eval(ctx *engine.Context, row engine.Row) (interface{}, error) {
	return e.X.Eval(ctx, row)
}
func (e *aliasExpr) Type() string               { return e.X.Type() }
func (e *aliasExpr) Children() []engine.Expression { return []engine.Expression{e.X} }
func (e *aliasExpr) String() string             { return e.X.String() + " AS " + e.Name }

type callExpr struct {
	Name string
	Args []engine.Expression
	fn   func(args []interface{}) (interface{}, error)
}

func (e *callExpr) Eval(ctx *engine.Context, row engine.Row) (interface{}, error) {
	vals := make([]interface{}, len(e.Args))
	for i, a := range e.Args {
		v, err := a.Eval(ctx, row)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return e.fn(vals)
}
func (e *callExpr) Type() string               { return "" }
func (e *callExpr) Children() []engine.Expression { return e.Args }
func (e *callExpr) String() string {
	return fmt.Sprintf("%s(...)", e.Name)
}

// resolve walks e, binding every colExpr's idx against schema. Called
// once per Table operation, before any row is evaluated.
func resolve(e engine.Expression, schema engine.Schema) {
	switch v := e.(type) {
	case *colExpr:
		for i, c := range schema {
			if c.Name == v.Name {
				v.idx = i
				return
			}
		}
		v.idx = -1
	case *binaryExpr:
		resolve(v.L, schema)
		resolve(v.R, schema)
	case *notExpr:
		resolve(v.X, schema)
	case *aliasExpr:
		resolve(v.X, schema)
	case *callExpr:
		for _, a := range v.Args {
			resolve(a, schema)
		}
	}
}

// outputName returns the column name e should produce in a Select
// result: an alias's name, a bare column's own name, or its String()
// for anything computed and unnamed.
func outputName(e engine.Expression) string {
	switch v := e.(type) {
	case *aliasExpr:
		return v.Name
	case *colExpr:
		return v.Name
	default:
		return e.String()
	}
}

func applyBinary(op string, l, r interface{}) (interface{}, error) {
	switch op {
	case "&&":
		return toBool(l) && toBool(r), nil
	case "||":
		return toBool(l) || toBool(r), nil
	case "==":
		return compareEq(l, r), nil
	case "!=":
		return !compareEq(l, r), nil
	}
	lf, lok := toFloat(l)
	rf, rok := toFloat(r)
	if !lok || !rok {
		return nil, fmt.Errorf("memtable: operator %s needs numeric operands, got %v, %v", op, l, r)
	}
	switch op {
	case ">":
		return lf > rf, nil
	case "<":
		return lf < rf, nil
	case ">=":
		return lf >= rf, nil
	case "<=":
		return lf <= rf, nil
	case "+":
		return numResult(l, r, lf+rf), nil
	case "-":
		return numResult(l, r, lf-rf), nil
	case "*":
		return numResult(l, r, lf*rf), nil
	case "/":
		if rf == 0 {
			return nil, fmt.Errorf("memtable: division by zero")
		}
		return lf / rf, nil
	case "%":
		return int64(lf) % int64(rf), nil
	default:
		return nil, fmt.Errorf("memtable: unknown operator %s", op)
	}
}

func numResult(l, r interface{}, f float64) interface{} {
	_, lInt := l.(int64)
	_, rInt := r.(int64)
	if lInt && rInt {
		return int64(f)
	}
	return f
}

func toBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func compareEq(l, r interface{}) bool {
	if lf, lok := toFloat(l); lok {
		if rf, rok := toFloat(r); rok {
			return lf == rf
		}
	}
	return fmt.Sprint(l) == fmt.Sprint(r)
}
