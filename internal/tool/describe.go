package tool

import (
	"github.com/anvil-lang/anvil/engine"
	"github.com/anvil-lang/anvil/internal/argbind"
	"github.com/anvil-lang/anvil/internal/ast"
	"github.com/anvil-lang/anvil/internal/rt"
)

// Describe is the single-input "describe" tool: summary statistics.
type Describe struct{ id ast.ToolId }

func newDescribe(ref *ast.ToolRef) (*Describe, error) {
	if _, err := argbind.New("describe", ref.Args, nil); err != nil {
		return nil, err
	}
	return &Describe{id: ref.ID}, nil
}

func (t *Describe) ID() ast.ToolId     { return t.id }
func (t *Describe) Name() string       { return "describe" }
func (t *Describe) IsSource() bool     { return false }
func (t *Describe) NeedsEngine() bool  { return false }
func (t *Describe) Expand() []SidePort { return nil }

func (t *Describe) Run(rc *rt.Context, in rt.Values, sess engine.Session) (rt.Values, error) {
	src, err := oneInput(t.Name(), in)
	if err != nil {
		return nil, err
	}
	out, err := src.Describe(rc.Context)
	if err != nil {
		return nil, err
	}
	return rt.NewValues(out), nil
}
