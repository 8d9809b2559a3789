package tool

import (
	"github.com/anvil-lang/anvil/engine"
	"github.com/anvil-lang/anvil/internal/argbind"
	"github.com/anvil-lang/anvil/internal/ast"
	"github.com/anvil-lang/anvil/internal/rt"
)

// Fill is the single-input "fill(value, cols=...)" tool: replaces null
// cells with value, optionally restricted to a comma-separated column
// list.
type Fill struct {
	id    ast.ToolId
	Value int64
	Cols  []string
}

func newFill(ref *ast.ToolRef) (*Fill, error) {
	b, err := argbind.New("fill", ref.Args, []string{"cols"})
	if err != nil {
		return nil, err
	}
	value, err := b.RequiredPositionalInteger()
	if err != nil {
		return nil, err
	}
	cols, err := b.OptionalString("cols", "")
	if err != nil {
		return nil, err
	}
	return &Fill{id: ref.ID, Value: value, Cols: splitCSV(cols)}, nil
}

func (t *Fill) ID() ast.ToolId     { return t.id }
func (t *Fill) Name() string       { return "fill" }
func (t *Fill) IsSource() bool     { return false }
func (t *Fill) NeedsEngine() bool  { return false }
func (t *Fill) Expand() []SidePort { return nil }

func (t *Fill) Run(rc *rt.Context, in rt.Values, sess engine.Session) (rt.Values, error) {
	src, err := oneInput(t.Name(), in)
	if err != nil {
		return nil, err
	}
	out, err := src.FillNull(rc.Context, t.Value, t.Cols)
	if err != nil {
		return nil, err
	}
	return rt.NewValues(out), nil
}
