package tool

import (
	"strings"

	"github.com/spf13/cast"

	"github.com/anvil-lang/anvil/engine"
	"github.com/anvil-lang/anvil/internal/argbind"
	"github.com/anvil-lang/anvil/internal/ast"
	"github.com/anvil-lang/anvil/internal/errs"
	"github.com/anvil-lang/anvil/internal/rt"
)

// Sort is the single-input "sort(cols)" tool: a comma-separated column
// list, each entry "col[:asc|desc[:nulls_first|nulls_last]]"; either
// flag may also be spelled "true"/"false" (asc and nulls_first).
type Sort struct {
	id     ast.ToolId
	Fields []engine.SortField
}

func newSort(ref *ast.ToolRef) (*Sort, error) {
	b, err := argbind.New("sort", ref.Args, nil)
	if err != nil {
		return nil, err
	}
	spec, err := b.RequiredPositionalString()
	if err != nil {
		return nil, err
	}
	fields, err := parseSortFields(spec)
	if err != nil {
		return nil, err
	}
	return &Sort{id: ref.ID, Fields: fields}, nil
}

func parseSortFields(spec string) ([]engine.SortField, error) {
	var fields []engine.SortField
	for _, entry := range splitCSV(spec) {
		parts := strings.Split(entry, ":")
		f := engine.SortField{Column: strings.TrimSpace(parts[0]), Ascending: true, NullsFirst: false}
		if len(parts) >= 2 {
			switch strings.ToLower(strings.TrimSpace(parts[1])) {
			case "asc", "true":
				f.Ascending = true
			case "desc", "false":
				f.Ascending = false
			default:
				return nil, errs.ErrArg.New("sort", "expected asc or desc, found "+parts[1])
			}
		}
		if len(parts) >= 3 {
			nf, err := cast.ToBoolE(strings.TrimSpace(parts[2]))
			if err != nil {
				switch strings.ToLower(strings.TrimSpace(parts[2])) {
				case "nulls_first":
					nf = true
				case "nulls_last":
					nf = false
				default:
					return nil, errs.ErrArg.New("sort", "expected nulls_first or nulls_last, found "+parts[2])
				}
			}
			f.NullsFirst = nf
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func (t *Sort) ID() ast.ToolId     { return t.id }
func (t *Sort) Name() string       { return "sort" }
func (t *Sort) IsSource() bool     { return false }
func (t *Sort) NeedsEngine() bool  { return false }
func (t *Sort) Expand() []SidePort { return nil }

func (t *Sort) Run(rc *rt.Context, in rt.Values, sess engine.Session) (rt.Values, error) {
	src, err := oneInput(t.Name(), in)
	if err != nil {
		return nil, err
	}
	out, err := src.Sort(rc.Context, t.Fields)
	if err != nil {
		return nil, err
	}
	return rt.NewValues(out), nil
}
