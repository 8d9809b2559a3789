package tool

import (
	"fmt"
	"io"
	"os"

	"github.com/anvil-lang/anvil/engine"
	"github.com/anvil-lang/anvil/internal/argbind"
	"github.com/anvil-lang/anvil/internal/ast"
	"github.com/anvil-lang/anvil/internal/rt"
)

// Print is the single-input "print(limit=20)" tool: a pass-through
// that renders rows to the run's writer as a side effect, used for
// interactive inspection inside a pipeline.
type Print struct {
	id    ast.ToolId
	Limit int64
	w     io.Writer
}

func newPrint(ref *ast.ToolRef) (*Print, error) {
	b, err := argbind.New("print", ref.Args, []string{"limit"})
	if err != nil {
		return nil, err
	}
	limit, err := b.OptionalInteger("limit", 20)
	if err != nil {
		return nil, err
	}
	return &Print{id: ref.ID, Limit: limit, w: os.Stdout}, nil
}

func (t *Print) ID() ast.ToolId     { return t.id }
func (t *Print) Name() string       { return "print" }
func (t *Print) IsSource() bool     { return false }
func (t *Print) NeedsEngine() bool  { return false }
func (t *Print) Expand() []SidePort { return nil }

func (t *Print) Run(rc *rt.Context, in rt.Values, sess engine.Session) (rt.Values, error) {
	src, err := oneInput(t.Name(), in)
	if err != nil {
		return nil, err
	}
	iter, err := src.Rows(rc.Context)
	if err != nil {
		return nil, err
	}
	defer iter.Close(rc.Context)

	schema := src.Schema()
	fmt.Fprintln(t.w, schemaHeader(schema))
	for n := int64(0); t.Limit <= 0 || n < t.Limit; n++ {
		row, err := iter.Next(rc.Context)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(t.w, row)
	}
	return rt.NewValues(src), nil
}

func schemaHeader(s engine.Schema) string {
	names := make([]interface{}, 0, len(s))
	for _, c := range s {
		names = append(names, c.Name)
	}
	return fmt.Sprint(names...)
}
