package tool

import (
	"strings"

	"github.com/anvil-lang/anvil/engine"
	"github.com/anvil-lang/anvil/internal/argbind"
	"github.com/anvil-lang/anvil/internal/ast"
	"github.com/anvil-lang/anvil/internal/rt"
)

// Select is the single-input "select(cols)" tool: a comma-separated
// column list, each entry optionally renamed via "old:new".
type Select struct {
	id   ast.ToolId
	Cols []engine.SelectColumn
}

func newSelect(ref *ast.ToolRef) (*Select, error) {
	b, err := argbind.New("select", ref.Args, nil)
	if err != nil {
		return nil, err
	}
	spec, err := b.RequiredPositionalString()
	if err != nil {
		return nil, err
	}
	return &Select{id: ref.ID, Cols: parseSelectCols(spec)}, nil
}

func parseSelectCols(spec string) []engine.SelectColumn {
	var cols []engine.SelectColumn
	for _, entry := range splitCSV(spec) {
		parts := strings.SplitN(entry, ":", 2)
		c := engine.SelectColumn{Name: strings.TrimSpace(parts[0])}
		if len(parts) == 2 {
			c.Rename = strings.TrimSpace(parts[1])
		}
		cols = append(cols, c)
	}
	return cols
}

func (t *Select) ID() ast.ToolId     { return t.id }
func (t *Select) Name() string       { return "select" }
func (t *Select) IsSource() bool     { return false }
func (t *Select) NeedsEngine() bool  { return false }
func (t *Select) Expand() []SidePort { return nil }

func (t *Select) Run(rc *rt.Context, in rt.Values, sess engine.Session) (rt.Values, error) {
	src, err := oneInput(t.Name(), in)
	if err != nil {
		return nil, err
	}
	out, err := src.Select2(rc.Context, t.Cols)
	if err != nil {
		return nil, err
	}
	return rt.NewValues(out), nil
}
