package tool

import (
	"github.com/anvil-lang/anvil/engine"
	"github.com/anvil-lang/anvil/internal/argbind"
	"github.com/anvil-lang/anvil/internal/ast"
	"github.com/anvil-lang/anvil/internal/rt"
)

// Drop is the single-input "drop(cols)" tool: drops a comma-separated
// column list.
type Drop struct {
	id   ast.ToolId
	Cols []string
}

func newDrop(ref *ast.ToolRef) (*Drop, error) {
	b, err := argbind.New("drop", ref.Args, nil)
	if err != nil {
		return nil, err
	}
	cols, err := b.RequiredPositionalString()
	if err != nil {
		return nil, err
	}
	return &Drop{id: ref.ID, Cols: splitCSV(cols)}, nil
}

func (t *Drop) ID() ast.ToolId     { return t.id }
func (t *Drop) Name() string       { return "drop" }
func (t *Drop) IsSource() bool     { return false }
func (t *Drop) NeedsEngine() bool  { return false }
func (t *Drop) Expand() []SidePort { return nil }

func (t *Drop) Run(rc *rt.Context, in rt.Values, sess engine.Session) (rt.Values, error) {
	src, err := oneInput(t.Name(), in)
	if err != nil {
		return nil, err
	}
	out, err := src.DropColumns(rc.Context, t.Cols)
	if err != nil {
		return nil, err
	}
	return rt.NewValues(out), nil
}
