package tool

import (
	"github.com/anvil-lang/anvil/engine"
	"github.com/anvil-lang/anvil/internal/argbind"
	"github.com/anvil-lang/anvil/internal/ast"
	"github.com/anvil-lang/anvil/internal/errs"
	"github.com/anvil-lang/anvil/internal/rt"
)

var writeModes = map[string]bool{"append": true, "overwrite": true, "replace": true}

// Output is the single-input sink "output(path, format=..., mode=overwrite,
// single=false)" tool: the terminal node of a flow, writing the input
// table out and producing no output port of its own.
type Output struct {
	id     ast.ToolId
	Path   string
	Format string
	Mode   string
	Single bool
}

func newOutput(ref *ast.ToolRef) (*Output, error) {
	b, err := argbind.New("output", ref.Args, []string{"format", "mode", "single"})
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
	mode, err := b.OptionalString("mode", "overwrite")
	if err != nil {
		return nil, err
	}
	if !writeModes[mode] {
		return nil, errs.ErrArg.New("output", "unknown write mode "+mode)
	}
	single, err := b.OptionalBool("single", false)
	if err != nil {
		return nil, err
	}
	return &Output{id: ref.ID, Path: path, Format: format, Mode: mode, Single: single}, nil
}

func (t *Output) ID() ast.ToolId     { return t.id }
func (t *Output) Name() string       { return "output" }
func (t *Output) IsSource() bool     { return false }
func (t *Output) NeedsEngine() bool  { return false }
func (t *Output) Expand() []SidePort { return nil }

func (t *Output) Run(rc *rt.Context, in rt.Values, sess engine.Session) (rt.Values, error) {
	src, err := oneInput(t.Name(), in)
	if err != nil {
		return nil, err
	}
	if err := sess.WriteTable(rc.Context, src, t.Path, t.Format, t.Mode, t.Single); err != nil {
		return nil, errs.ErrFile.Wrap(err, "writing "+t.Path)
	}
	return rt.Values{}, nil
}
