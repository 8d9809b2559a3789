package tool

import (
	"github.com/anvil-lang/anvil/engine"
	"github.com/anvil-lang/anvil/internal/argbind"
	"github.com/anvil-lang/anvil/internal/ast"
	"github.com/anvil-lang/anvil/internal/errs"
	"github.com/anvil-lang/anvil/internal/expr"
	"github.com/anvil-lang/anvil/internal/exprlower"
	"github.com/anvil-lang/anvil/internal/rt"
)

// Project is the single-input "project(col=expr, ...)" tool: each
// keyword argument names an output column and an expression text
// parsed against internal/expr's grammar, computing a new or replaced
// column (spec.md §4.2, §4.4).
type Project struct {
	id    ast.ToolId
	names []string
	texts []string
}

func newProject(ref *ast.ToolRef) (*Project, error) {
	b, err := argbind.New("project", ref.Args, allKeywordNames(ref.Args))
	if err != nil {
		return nil, err
	}
	p := &Project{id: ref.ID}
	for _, sym := range sortedKeys(b.KeywordKeys()) {
		v, err := asExprText(b.Keyword(sym))
		if err != nil {
			return nil, errs.ErrArg.New("project", err.Error())
		}
		p.names = append(p.names, sym.String())
		p.texts = append(p.texts, v)
	}
	return p, nil
}

// allKeywordNames lets project accept any keyword spelling, since its
// keyword set is the payload rather than a fixed schema.
func allKeywordNames(args []ast.ToolArg) []string {
	var names []string
	for _, a := range args {
		if a.Name != nil {
			names = append(names, a.Name.String())
		}
	}
	return names
}

func asExprText(v ast.ArgValue) (string, error) {
	switch val := v.(type) {
	case ast.StringValue:
		return string(val), nil
	case ast.IdentValue:
		return string(val), nil
	default:
		return "", errs.ErrArg.New("project", "expected an expression string")
	}
}

func (t *Project) ID() ast.ToolId     { return t.id }
func (t *Project) Name() string       { return "project" }
func (t *Project) IsSource() bool     { return false }
func (t *Project) NeedsEngine() bool  { return true }
func (t *Project) Expand() []SidePort { return nil }

func (t *Project) Run(rc *rt.Context, in rt.Values, sess engine.Session) (rt.Values, error) {
	src, err := oneInput(t.Name(), in)
	if err != nil {
		return nil, err
	}
	exprs := make([]engine.Expression, 0, len(t.texts))
	for i, text := range t.texts {
		n, err := expr.Parse(text)
		if err != nil {
			return nil, err
		}
		lowered, err := exprlower.Lower(sess, n, true)
		if err != nil {
			return nil, err
		}
		if _, ok := n.(*expr.Assign); !ok {
			lowered = sess.Alias(t.names[i], lowered)
		}
		exprs = append(exprs, lowered)
	}
	out, err := src.Select(rc.Context, exprs)
	if err != nil {
		return nil, err
	}
	return rt.NewValues(out), nil
}
