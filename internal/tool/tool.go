// Package tool is Anvil's tool catalog (spec.md §4.4): a closed sum of
// ~19 variants, each with a dispatch name, an argument-binding rule, a
// run contract, and a source/sink/stateful classification. Following
// the teacher's own design-notes preference (spec.md §9:
// "Polymorphism without dynamic dispatch... avoids a dispatch table
// and lets the compiler verify exhaustiveness"), each variant is its
// own Go type implementing the Tool interface, and Build is the single
// place that switches over the catalog.
package tool

import (
	"sort"
	"strings"

	"github.com/anvil-lang/anvil/internal/ast"
	"github.com/anvil-lang/anvil/internal/errs"
	"github.com/anvil-lang/anvil/internal/rt"
	"github.com/anvil-lang/anvil/internal/suggest"
	"github.com/anvil-lang/anvil/internal/symbol"

	"github.com/anvil-lang/anvil/engine"
)

// Tool is the uniform contract every catalog variant implements.
type Tool interface {
	// ID returns the ToolId this instance was built from.
	ID() ast.ToolId
	// Name returns the tool's dispatch name.
	Name() string
	// IsSource reports whether the tool takes no input.
	IsSource() bool
	// NeedsEngine reports whether the tool needs the table-engine
	// session to run (count, input, register, project, sql).
	NeedsEngine() bool
	// Expand returns the side-port sub-flows a multi-input tool feeds
	// (join/intersect/union); nil for every other tool.
	Expand() []SidePort
	// Run executes the tool against in, using sess for any table-engine
	// work, and returns the produced Values.
	Run(rc *rt.Context, in rt.Values, sess engine.Session) (rt.Values, error)
}

// SidePort is one (port, sub-flow) pair discovered by Expand.
type SidePort struct {
	Port symbol.Symbol
	Flow *ast.Flow
}

// catalog names every dispatchable tool, used both by Build and to
// produce "unknown tool, did you mean" suggestions.
var catalog = []string{
	"input", "register", "describe", "distinct", "drop", "fill", "limit",
	"print", "project", "schema", "select", "sort", "count", "filter",
	"intersect", "union", "join", "sql", "output",
}

// Build constructs a typed Tool from a parsed ToolRef, binding and
// validating its arguments against the variant's schema.
func Build(ref *ast.ToolRef) (Tool, error) {
	name := ref.Name.String()
	switch name {
	case "input":
		return newInput(ref)
	case "register":
		return newRegister(ref)
	case "describe":
		return newDescribe(ref)
	case "distinct":
		return newDistinct(ref)
	case "drop":
		return newDrop(ref)
	case "fill":
		return newFill(ref)
	case "limit":
		return newLimit(ref)
	case "print":
		return newPrint(ref)
	case "project":
		return newProject(ref)
	case "schema":
		return newSchema(ref)
	case "select":
		return newSelect(ref)
	case "sort":
		return newSort(ref)
	case "count":
		return newCount(ref)
	case "filter":
		return newFilter(ref)
	case "intersect":
		return newIntersect(ref)
	case "union":
		return newUnion(ref)
	case "join":
		return newJoin(ref)
	case "sql":
		return newSQL(ref)
	case "output":
		return newOutput(ref)
	default:
		msg := name
		if s := suggest.Closest(name, catalog); s != "" {
			msg += "; did you mean " + s + "?"
		}
		return nil, errs.ErrUnknownTool.New(msg)
	}
}

// sortedKeys renders a deterministic key order, alphabetical by name
// (not the order the keywords were written in), used anywhere tool
// construction needs to walk keyword arguments (map iteration order is
// not stable; argbind.KeywordKeys does not promise an order either).
func sortedKeys(keys []symbol.Symbol) []symbol.Symbol {
	out := append([]symbol.Symbol(nil), keys...)
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// oneInput fetches the sole input table a single-input tool expects,
// failing with ErrPortMismatch if none arrived.
func oneInput(name string, in rt.Values) (engine.Table, error) {
	t, ok := in.GetOne()
	if !ok {
		return nil, errs.ErrPortMismatch.New(name, symbol.Default.String())
	}
	return t, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
