package tool

import (
	"github.com/anvil-lang/anvil/engine"
	"github.com/anvil-lang/anvil/internal/argbind"
	"github.com/anvil-lang/anvil/internal/ast"
	"github.com/anvil-lang/anvil/internal/errs"
	"github.com/anvil-lang/anvil/internal/rt"
	"github.com/anvil-lang/anvil/internal/symbol"
)

// Join is the "join(left_flow, right_flow, cols_lt=, cols_rt=,
// type=inner|outer|left|right)" tool: an equi-join on two
// comma-separated column lists, one per side.
type Join struct {
	id                  ast.ToolId
	leftFlow, rightFlow *ast.Flow
	LtCols, RtCols      []string
	Type                engine.JoinType
}

var joinTypes = map[string]engine.JoinType{
	"inner": engine.InnerJoin,
	"outer": engine.OuterJoin,
	"left":  engine.LeftJoin,
	"right": engine.RightJoin,
}

func newJoin(ref *ast.ToolRef) (*Join, error) {
	b, err := argbind.New("join", ref.Args, []string{"cols_lt", "cols_rt", "type"})
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
	ltSpec, err := b.RequiredString("cols_lt")
	if err != nil {
		return nil, err
	}
	rtSpec, err := b.RequiredString("cols_rt")
	if err != nil {
		return nil, err
	}
	def := "inner"
	if config != nil && config.DefaultJoinType != "" {
		def = config.DefaultJoinType
	}
	typeName, err := b.OptionalString("type", def)
	if err != nil {
		return nil, err
	}
	jt, ok := joinTypes[typeName]
	if !ok {
		return nil, errs.ErrArg.New("join", "unknown join type "+typeName)
	}
	lt, rt := splitCSV(ltSpec), splitCSV(rtSpec)
	if len(lt) != len(rt) {
		return nil, errs.ErrArg.New("join", "cols_lt and cols_rt must name the same number of columns")
	}
	return &Join{id: ref.ID, leftFlow: left, rightFlow: right, LtCols: lt, RtCols: rt, Type: jt}, nil
}

func (t *Join) ID() ast.ToolId    { return t.id }
func (t *Join) Name() string      { return "join" }
func (t *Join) IsSource() bool    { return false }
func (t *Join) NeedsEngine() bool { return false }
func (t *Join) Expand() []SidePort {
	return []SidePort{
		{Port: symbol.Left, Flow: t.leftFlow},
		{Port: symbol.Right, Flow: t.rightFlow},
	}
}

func (t *Join) Run(rc *rt.Context, in rt.Values, sess engine.Session) (rt.Values, error) {
	left, right, err := twoInputs(t.Name(), in)
	if err != nil {
		return nil, err
	}
	out, err := left.Join(rc.Context, right, t.Type, t.LtCols, t.RtCols)
	if err != nil {
		return nil, err
	}
	return rt.NewValues(out), nil
}
