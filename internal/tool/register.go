package tool

import (
	"github.com/anvil-lang/anvil/engine"
	"github.com/anvil-lang/anvil/internal/argbind"
	"github.com/anvil-lang/anvil/internal/ast"
	"github.com/anvil-lang/anvil/internal/errs"
	"github.com/anvil-lang/anvil/internal/rt"
)

// Register is the "register(path, format=..., table=...)" source
// tool: like input, but also registers the table under a name in the
// session catalog.
type Register struct {
	id     ast.ToolId
	Path   string
	Format string
	Table  string
}

func newRegister(ref *ast.ToolRef) (*Register, error) {
	b, err := argbind.New("register", ref.Args, []string{"format", "table"})
	if err != nil {
		return nil, err
	}
	path, err := b.RequiredPositionalString()
	if err != nil {
		return nil, err
	}
	format, err := b.OptionalString("format", "")
	if err != nil {
		return nil, err
	}
	format, err = inferFormat(path, format)
	if err != nil {
		return nil, err
	}
	table, err := b.OptionalString("table", "tbl")
	if err != nil {
		return nil, err
	}
	return &Register{id: ref.ID, Path: path, Format: format, Table: table}, nil
}

func (t *Register) ID() ast.ToolId     { return t.id }
func (t *Register) Name() string       { return "register" }
func (t *Register) IsSource() bool     { return true }
func (t *Register) NeedsEngine() bool  { return true }
func (t *Register) Expand() []SidePort { return nil }

func (t *Register) Run(rc *rt.Context, in rt.Values, sess engine.Session) (rt.Values, error) {
	tbl, err := sess.RegisterTable(rc.Context, t.Table, t.Path, t.Format, nil)
	if err != nil {
		return nil, errs.ErrFile.Wrap(err, "registering "+t.Table+" from "+t.Path)
	}
	return rt.NewValues(tbl), nil
}
