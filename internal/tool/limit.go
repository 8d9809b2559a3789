package tool

import (
	"github.com/anvil-lang/anvil/engine"
	"github.com/anvil-lang/anvil/internal/argbind"
	"github.com/anvil-lang/anvil/internal/ast"
	"github.com/anvil-lang/anvil/internal/rt"
)

// Limit is the single-input "limit(count, skip=0)" tool.
type Limit struct {
	id    ast.ToolId
	Count int64
	Skip  int64
}

func newLimit(ref *ast.ToolRef) (*Limit, error) {
	b, err := argbind.New("limit", ref.Args, []string{"skip"})
	if err != nil {
		return nil, err
	}
	count, err := b.RequiredPositionalInteger()
	if err != nil {
		return nil, err
	}
	skip, err := b.OptionalInteger("skip", 0)
	if err != nil {
		return nil, err
	}
	return &Limit{id: ref.ID, Count: count, Skip: skip}, nil
}

func (t *Limit) ID() ast.ToolId     { return t.id }
func (t *Limit) Name() string       { return "limit" }
func (t *Limit) IsSource() bool     { return false }
func (t *Limit) NeedsEngine() bool  { return false }
func (t *Limit) Expand() []SidePort { return nil }

func (t *Limit) Run(rc *rt.Context, in rt.Values, sess engine.Session) (rt.Values, error) {
	src, err := oneInput(t.Name(), in)
	if err != nil {
		return nil, err
	}
	count := t.Count
	out, err := src.Limit(rc.Context, t.Skip, &count)
	if err != nil {
		return nil, err
	}
	return rt.NewValues(out), nil
}
