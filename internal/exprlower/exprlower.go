// Package exprlower translates internal/expr's AST into the table
// engine's own expression type (spec.md §4.2), resolving function
// calls against a fixed built-in set plus the engine's own function
// registry.
package exprlower

import (
	"github.com/anvil-lang/anvil/engine"
	"github.com/anvil-lang/anvil/internal/errs"
	"github.com/anvil-lang/anvil/internal/expr"
)

// builtins is the fixed set of call names spec.md §4.2 names directly.
// Lower does not consult it: every call, built-in or not, is resolved
// through Session.Call.
var builtins = map[string]bool{
	"abs": true, "avg": true, "min": true, "max": true, "sum": true, "stddev": true,
}

// Lower translates n into an engine.Expression using sess's
// constructors. allowAssign controls whether an Assign node is legal
// at this position — true only for projection contexts (project,
// select-like key=expr forms); false for filter/sort/count/sql-filter
// contexts, where an assignment would alias a value that has nowhere
// to go.
func Lower(sess engine.Session, n expr.Node, allowAssign bool) (engine.Expression, error) {
	switch v := n.(type) {
	case *expr.Column:
		return sess.Col(v.Name), nil

	case *expr.Literal:
		switch v.Kind {
		case expr.IntLit:
			return sess.Lit(v.Int), nil
		case expr.FloatLit:
			return sess.Lit(v.Float), nil
		default:
			return sess.Lit(v.Bool), nil
		}

	case *expr.Unary:
		x, err := Lower(sess, v.X, false)
		if err != nil {
			return nil, err
		}
		if v.Op == expr.Not {
			return sess.Not(x), nil
		}
		// Unary minus lowers to "0 - x" — the engine contract only
		// exposes a binary subtraction builder.
		return sess.Binary("-", sess.Lit(int64(0)), x), nil

	case *expr.Binary:
		l, err := Lower(sess, v.L, false)
		if err != nil {
			return nil, err
		}
		r, err := Lower(sess, v.R, false)
		if err != nil {
			return nil, err
		}
		return sess.Binary(binaryOpText(v.Op), l, r), nil

	case *expr.Assign:
		if !allowAssign {
			return nil, errs.ErrParse.New("assignment is only legal in a projection expression")
		}
		val, err := Lower(sess, v.Value, false)
		if err != nil {
			return nil, err
		}
		return sess.Alias(v.Target.Name, val), nil

	case *expr.Call:
		args := make([]engine.Expression, len(v.Args))
		for i, a := range v.Args {
			lowered, err := Lower(sess, a, false)
			if err != nil {
				return nil, err
			}
			args[i] = lowered
		}
		// Every call name is resolved through the engine's own
		// function registry; any error it returns is reported as
		// ErrUnknownFunction.
		result, err := sess.Call(v.Name, args)
		if err != nil {
			return nil, errs.ErrUnknownFunction.New(v.Name)
		}
		return result, nil

	default:
		return nil, errs.ErrParse.New("unsupported expression node")
	}
}

func binaryOpText(op expr.BinaryOp) string {
	switch op {
	case expr.Or:
		return "||"
	case expr.And:
		return "&&"
	case expr.Eq:
		return "=="
	case expr.Neq:
		return "!="
	case expr.Gt:
		return ">"
	case expr.Lt:
		return "<"
	case expr.Ge:
		return ">="
	case expr.Le:
		return "<="
	case expr.Add:
		return "+"
	case expr.Sub:
		return "-"
	case expr.Mul:
		return "*"
	case expr.Div:
		return "/"
	default:
		return "%"
	}
}
