package tool

import (
	"github.com/anvil-lang/anvil/engine"
	"github.com/anvil-lang/anvil/internal/argbind"
	"github.com/anvil-lang/anvil/internal/ast"
	"github.com/anvil-lang/anvil/internal/errs"
	"github.com/anvil-lang/anvil/internal/rt"
	"github.com/anvil-lang/anvil/internal/symbol"
)

// Intersect is the "intersect(left_flow, right_flow)" tool: both
// operands are side-flows discovered by Expand and fed into the
// "left" and "right" ports, never the enclosing pipe's default port
// (spec.md §4.4, scenario 3 in §7).
type Intersect struct {
	id                  ast.ToolId
	leftFlow, rightFlow *ast.Flow
}

func newIntersect(ref *ast.ToolRef) (*Intersect, error) {
	b, err := argbind.New("intersect", ref.Args, nil)
	if err != nil {
		return nil, err
	}
	left, err := b.RequiredPositionalFlow()
	if err != nil {
		return nil, err
	}
	right, err := b.RequiredPositionalFlow()
	if err != nil {
		return nil, err
	}
	return &Intersect{id: ref.ID, leftFlow: left, rightFlow: right}, nil
}

func (t *Intersect) ID() ast.ToolId    { return t.id }
func (t *Intersect) Name() string      { return "intersect" }
func (t *Intersect) IsSource() bool    { return false }
func (t *Intersect) NeedsEngine() bool { return false }
func (t *Intersect) Expand() []SidePort {
	return []SidePort{
		{Port: symbol.Left, Flow: t.leftFlow},
		{Port: symbol.Right, Flow: t.rightFlow},
	}
}

func (t *Intersect) Run(rc *rt.Context, in rt.Values, sess engine.Session) (rt.Values, error) {
	left, right, err := twoInputs(t.Name(), in)
	if err != nil {
		return nil, err
	}
	out, err := left.Intersect(rc.Context, right)
	if err != nil {
		return nil, err
	}
	return rt.NewValues(out), nil
}

// twoInputs fetches the left/right tables a multi-input tool expects,
// keyed by the well-known Left and Right symbols (spec.md §4.3's
// port-routing rules).
func twoInputs(name string, in rt.Values) (engine.Table, engine.Table, error) {
	left, ok := in[symbol.Left]
	if !ok {
		return nil, nil, errs.ErrPortMismatch.New(name, symbol.Left.String())
	}
	right, ok := in[symbol.Right]
	if !ok {
		return nil, nil, errs.ErrPortMismatch.New(name, symbol.Right.String())
	}
	return left, right, nil
}
