package tool

import (
	"path/filepath"
	"strings"

	"github.com/anvil-lang/anvil/anvilcfg"
	"github.com/anvil-lang/anvil/engine"
	"github.com/anvil-lang/anvil/internal/argbind"
	"github.com/anvil-lang/anvil/internal/ast"
	"github.com/anvil-lang/anvil/internal/errs"
	"github.com/anvil-lang/anvil/internal/rt"
)

var supportedFormats = map[string]bool{
	"csv": true, "avro": true, "json": true, "arrow": true, "parquet": true,
}

// config is the ambient anvilcfg.Config consulted by format inference.
// Build happens deep inside the planner with no per-call plumbing for
// configuration (spec.md §4.3's lowering rules take only an AST node),
// so embedding programs wire it once via SetConfig before planning.
var config *anvilcfg.Config

// SetConfig installs the ambient configuration consulted by
// format-inferring tools (input, register, output). A nil cfg resets
// to built-in defaults.
func SetConfig(cfg *anvilcfg.Config) { config = cfg }

func inferFormat(path, explicit string) (string, error) {
	if explicit != "" {
		if !supportedFormats[explicit] {
			return "", errs.ErrFile.New("unsupported format " + explicit)
		}
		return explicit, nil
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if f, ok := config.ResolveFormat(ext); ok {
		return f, nil
	}
	if !supportedFormats[ext] {
		return "", errs.ErrFile.New("cannot infer format from path " + path)
	}
	return ext, nil
}

// Input is the "input(path, format=...)" source tool.
type Input struct {
	id     ast.ToolId
	Path   string
	Format string
}

func newInput(ref *ast.ToolRef) (*Input, error) {
	b, err := argbind.New("input", ref.Args, []string{"format"})
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
	return &Input{id: ref.ID, Path: path, Format: format}, nil
}

func (t *Input) ID() ast.ToolId       { return t.id }
func (t *Input) Name() string         { return "input" }
func (t *Input) IsSource() bool       { return true }
func (t *Input) NeedsEngine() bool    { return true }
func (t *Input) Expand() []SidePort   { return nil }

func (t *Input) Run(rc *rt.Context, in rt.Values, sess engine.Session) (rt.Values, error) {
	tbl, err := sess.ReadTable(rc.Context, t.Path, t.Format, nil)
	if err != nil {
		return nil, errs.ErrFile.Wrap(err, "reading "+t.Path)
	}
	return rt.NewValues(tbl), nil
}
