package tool

import (
	"github.com/anvil-lang/anvil/engine"
	"github.com/anvil-lang/anvil/internal/argbind"
	"github.com/anvil-lang/anvil/internal/ast"
	"github.com/anvil-lang/anvil/internal/rt"
)

// Distinct is the single-input "distinct" tool: row deduplication.
type Distinct struct{ id ast.ToolId }

func newDistinct(ref *ast.ToolRef) (*Distinct, error) {
	if _, err := argbind.New("distinct", ref.Args, nil); err != nil {
		return nil, err
	}
	return &Distinct{id: ref.ID}, nil
}

func (t *Distinct) ID() ast.ToolId     { return t.id }
func (t *Distinct) Name() string       { return "distinct" }
func (t *Distinct) IsSource() bool     { return false }
func (t *Distinct) NeedsEngine() bool  { return false }
func (t *Distinct) Expand() []SidePort { return nil }

func (t *Distinct) Run(rc *rt.Context, in rt.Values, sess engine.Session) (rt.Values, error) {
	src, err := oneInput(t.Name(), in)
	if err != nil {
		return nil, err
	}
	out, err := src.Distinct(rc.Context)
	if err != nil {
		return nil, err
	}
	return rt.NewValues(out), nil
}
