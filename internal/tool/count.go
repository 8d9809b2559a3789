package tool

import (
	"github.com/anvil-lang/anvil/engine"
	"github.com/anvil-lang/anvil/internal/argbind"
	"github.com/anvil-lang/anvil/internal/ast"
	"github.com/anvil-lang/anvil/internal/rt"
)

// Count is the single-input "count(col=*)" tool: counts rows, or
// non-null values of col when given.
type Count struct {
	id  ast.ToolId
	Col string
}

func newCount(ref *ast.ToolRef) (*Count, error) {
	b, err := argbind.New("count", ref.Args, []string{"col"})
	if err != nil {
		return nil, err
	}
	col, err := b.OptionalString("col", "*")
	if err != nil {
		return nil, err
	}
	return &Count{id: ref.ID, Col: col}, nil
}

func (t *Count) ID() ast.ToolId     { return t.id }
func (t *Count) Name() string       { return "count" }
func (t *Count) IsSource() bool     { return false }
func (t *Count) NeedsEngine() bool  { return true }
func (t *Count) Expand() []SidePort { return nil }

func (t *Count) Run(rc *rt.Context, in rt.Values, sess engine.Session) (rt.Values, error) {
	src, err := oneInput(t.Name(), in)
	if err != nil {
		return nil, err
	}
	out, err := src.Count(rc.Context, t.Col)
	if err != nil {
		return nil, err
	}
	return rt.NewValues(out), nil
}
