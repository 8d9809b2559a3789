package tool

import (
	"github.com/dolthub/vitess/go/vt/sqlparser"

	"github.com/anvil-lang/anvil/engine"
	"github.com/anvil-lang/anvil/internal/argbind"
	"github.com/anvil-lang/anvil/internal/ast"
	"github.com/anvil-lang/anvil/internal/errs"
	"github.com/anvil-lang/anvil/internal/expr"
	"github.com/anvil-lang/anvil/internal/exprlower"
	"github.com/anvil-lang/anvil/internal/rt"
)

// SQL is the dual-mode "sql(...)" tool (spec.md §9 Open Question 2,
// resolved: the two modes are mutually exclusive).
//
// In source mode, sql("SELECT ...") runs a full SQL statement through
// the engine's own parser/planner and takes no input. In filter mode,
// sql(col=expr, ...) is a single-input per-column filter/projection
// expressed as internal/expr text, the same grammar project() uses.
type SQL struct {
	id       ast.ToolId
	stmt     string // source mode
	names    []string
	texts    []string // filter mode
	isSource bool
}

func newSQL(ref *ast.ToolRef) (*SQL, error) {
	b, err := argbind.New("sql", ref.Args, allKeywordNames(ref.Args))
	if err != nil {
		return nil, err
	}
	stmt, hasStmt := "", false
	// A positional argument, if present, is the full SQL statement.
	if s, err := b.OptionalPositionalString(""); err != nil {
		return nil, err
	} else if s != "" {
		stmt, hasStmt = s, true
	}
	keys := sortedKeys(b.KeywordKeys())
	if hasStmt && len(keys) > 0 {
		return nil, errs.ErrArg.New("sql", "cannot combine a SQL statement with keyword expressions")
	}
	if hasStmt {
		// Validate syntax at plan time rather than deferring every
		// malformed statement to the table engine's own error path.
		if _, err := sqlparser.Parse(stmt); err != nil {
			return nil, errs.ErrParse.New("sql: " + err.Error())
		}
		return &SQL{id: ref.ID, stmt: stmt, isSource: true}, nil
	}
	if len(keys) == 0 {
		return nil, errs.ErrArg.New("sql", "expected a SQL statement or at least one column=expr argument")
	}
	s := &SQL{id: ref.ID}
	for _, sym := range keys {
		text, err := asExprText(b.Keyword(sym))
		if err != nil {
			return nil, err
		}
		s.names = append(s.names, sym.String())
		s.texts = append(s.texts, text)
	}
	return s, nil
}

func (t *SQL) ID() ast.ToolId     { return t.id }
func (t *SQL) Name() string       { return "sql" }
func (t *SQL) IsSource() bool     { return t.isSource }
func (t *SQL) NeedsEngine() bool  { return true }
func (t *SQL) Expand() []SidePort { return nil }

func (t *SQL) Run(rc *rt.Context, in rt.Values, sess engine.Session) (rt.Values, error) {
	if t.isSource {
		out, err := sess.RunSQL(rc.Context, t.stmt)
		if err != nil {
			return nil, err
		}
		return rt.NewValues(out), nil
	}

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
