package tool

import (
	"github.com/anvil-lang/anvil/engine"
	"github.com/anvil-lang/anvil/internal/argbind"
	"github.com/anvil-lang/anvil/internal/ast"
	"github.com/anvil-lang/anvil/internal/expr"
	"github.com/anvil-lang/anvil/internal/exprlower"
	"github.com/anvil-lang/anvil/internal/rt"
	"github.com/anvil-lang/anvil/internal/symbol"
)

// Filter is the single-input, dual-output "filter(pred)" tool: the
// one tool whose Run legitimately returns two entries, routed to the
// branch-block ports "true" and "false" (Property 6, spec.md §8).
type Filter struct {
	id   ast.ToolId
	Pred string
}

func newFilter(ref *ast.ToolRef) (*Filter, error) {
	b, err := argbind.New("filter", ref.Args, nil)
	if err != nil {
		return nil, err
	}
	pred, err := b.RequiredPositionalString()
	if err != nil {
		return nil, err
	}
	return &Filter{id: ref.ID, Pred: pred}, nil
}

func (t *Filter) ID() ast.ToolId     { return t.id }
func (t *Filter) Name() string       { return "filter" }
func (t *Filter) IsSource() bool     { return false }
func (t *Filter) NeedsEngine() bool  { return false }
func (t *Filter) Expand() []SidePort { return nil }

func (t *Filter) Run(rc *rt.Context, in rt.Values, sess engine.Session) (rt.Values, error) {
	src, err := oneInput(t.Name(), in)
	if err != nil {
		return nil, err
	}
	n, err := expr.Parse(t.Pred)
	if err != nil {
		return nil, err
	}
	pred, err := exprlower.Lower(sess, n, false)
	if err != nil {
		return nil, err
	}
	truthy, err := src.Filter(rc.Context, pred)
	if err != nil {
		return nil, err
	}
	// The false port is the complement of the true port, not
	// Filter(Not(pred)): under three-valued logic a row whose
	// predicate is null belongs in F (Property 6), and Not(null) is
	// itself null rather than true, so deriving F by negating pred
	// would drop that row from both ports.
	falsy, err := src.Filter(rc.Context, &notTrue{pred: pred})
	if err != nil {
		return nil, err
	}
	return rt.Values{symbol.True: truthy, symbol.False: falsy}, nil
}

// notTrue is filter's own complement predicate: it holds a row out of
// the true port whenever pred does not evaluate to exactly the
// boolean true, which includes a null or non-boolean result as well
// as an ordinary false, unlike sess.Not, which only inverts an
// already-boolean value and otherwise errors.
type notTrue struct{ pred engine.Expression }

func (e *notTrue) Eval(ctx *engine.Context, row engine.Row) (interface{}, error) {
	v, err := e.pred.Eval(ctx, row)
	if err != nil {
		return true, nil
	}
	b, ok := v.(bool)
	return !ok || !b, nil
}

func (e *notTrue) Type() string                  { return "bool" }
func (e *notTrue) Children() []engine.Expression { return []engine.Expression{e.pred} }
func (e *notTrue) String() string                { return "NOT(" + e.pred.String() + ")" }
