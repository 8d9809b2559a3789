package tool

import (
	"github.com/anvil-lang/anvil/engine"
	"github.com/anvil-lang/anvil/internal/argbind"
	"github.com/anvil-lang/anvil/internal/ast"
	"github.com/anvil-lang/anvil/internal/rt"
)

// Schema is the single-input "schema" tool: yields a 4-column table
// describing the input's own schema (name, size, type, nullable).
type Schema struct{ id ast.ToolId }

func newSchema(ref *ast.ToolRef) (*Schema, error) {
	if _, err := argbind.New("schema", ref.Args, nil); err != nil {
		return nil, err
	}
	return &Schema{id: ref.ID}, nil
}

func (t *Schema) ID() ast.ToolId     { return t.id }
func (t *Schema) Name() string       { return "schema" }
func (t *Schema) IsSource() bool     { return false }
func (t *Schema) NeedsEngine() bool  { return false }
func (t *Schema) Expand() []SidePort { return nil }

func (t *Schema) Run(rc *rt.Context, in rt.Values, sess engine.Session) (rt.Values, error) {
	src, err := oneInput(t.Name(), in)
	if err != nil {
		return nil, err
	}
	out, err := sess.SchemaTable(rc.Context, src.Schema())
	if err != nil {
		return nil, err
	}
	return rt.NewValues(out), nil
}
