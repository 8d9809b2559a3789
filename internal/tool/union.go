package tool

import (
	"github.com/anvil-lang/anvil/engine"
	"github.com/anvil-lang/anvil/internal/argbind"
	"github.com/anvil-lang/anvil/internal/ast"
	"github.com/anvil-lang/anvil/internal/rt"
	"github.com/anvil-lang/anvil/internal/symbol"
)

// Union is the "union(left_flow, right_flow)" tool, fed the same way
// as Intersect.
type Union struct {
	id                  ast.ToolId
	leftFlow, rightFlow *ast.Flow
}

func newUnion(ref *ast.ToolRef) (*Union, error) {
	b, err := argbind.New("union", ref.Args, nil)
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
	return &Union{id: ref.ID, leftFlow: left, rightFlow: right}, nil
}

func (t *Union) ID() ast.ToolId    { return t.id }
func (t *Union) Name() string      { return "union" }
func (t *Union) IsSource() bool    { return false }
func (t *Union) NeedsEngine() bool { return false }
func (t *Union) Expand() []SidePort {
	return []SidePort{
		{Port: symbol.Left, Flow: t.leftFlow},
		{Port: symbol.Right, Flow: t.rightFlow},
	}
}

func (t *Union) Run(rc *rt.Context, in rt.Values, sess engine.Session) (rt.Values, error) {
	left, right, err := twoInputs(t.Name(), in)
	if err != nil {
		return nil, err
	}
	out, err := left.Union(rc.Context, right)
	if err != nil {
		return nil, err
	}
	return rt.NewValues(out), nil
}
