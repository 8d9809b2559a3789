package plan_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/anvil-lang/anvil/internal/ast"
	"github.com/anvil-lang/anvil/internal/plan"
)

// chainSrc builds a linear `input(...) | limit(n) | limit(n) | ... ;`
// program of the requested length, one statement per program so every
// generated ToolRef's ID is exercised.
func chainSrc(n int) string {
	items := make([]string, 0, n+1)
	items = append(items, `input("a.csv")`)
	for i := 0; i < n; i++ {
		items = append(items, fmt.Sprintf("limit(%d)", i+1))
	}
	return strings.Join(items, " | ") + ";"
}

// TestPropertyToolIDsAreUnique covers spec §8 Property 1: every ToolRef
// in a parsed program carries a distinct ToolId, for any chain length.
func TestPropertyToolIDsAreUnique(t *testing.T) {
	props := gopter.NewProperties(nil)
	props.Property("every ToolRef.ID in a parsed program is distinct", prop.ForAll(
		func(n int) bool {
			prog, err := ast.Parse(strings.NewReader(chainSrc(n)))
			if err != nil {
				return false
			}
			seen := make(map[ast.ToolId]bool)
			var walk func(f *ast.Flow) bool
			walk = func(f *ast.Flow) bool {
				for _, item := range f.Items {
					if ti, ok := item.(ast.ToolItem); ok {
						if seen[ti.Tool.ID] {
							return false
						}
						seen[ti.Tool.ID] = true
					}
				}
				return true
			}
			for _, stmt := range prog.Statements {
				if !walk(stmt.Flow) {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 20),
	))
	props.TestingRun(t)
}

// TestPropertyOneToolNodePerID covers spec §8 Property 2: the planner
// emits exactly one Tool node per ToolId, even when the same variable
// is referenced by multiple downstream statements (so the same variable
// node is wired into several edges without being duplicated).
func TestPropertyOneToolNodePerID(t *testing.T) {
	props := gopter.NewProperties(nil)
	props.Property("a variable referenced N times yields one source node, not N", prop.ForAll(
		func(n int) bool {
			var b strings.Builder
			b.WriteString(`input("a.csv") => $t;`)
			for i := 0; i < n; i++ {
				fmt.Fprintf(&b, ` $t | limit(%d);`, i+1)
			}
			prog, err := ast.Parse(strings.NewReader(b.String()))
			if err != nil {
				return false
			}
			g, err := plan.Build(prog)
			if err != nil {
				return false
			}
			// exactly one source ("input") tool node plus the shared
			// variable node plus one limit node per reference.
			return len(g.Nodes) == 2+n
		},
		gen.IntRange(0, 15),
	))
	props.TestingRun(t)
}

// TestPropertyRebindIsAlwaysAnError covers the planner half of spec §8
// Property 3 (acyclicity via well-formedness): rebinding a variable
// that already has a binding statement is rejected regardless of how
// many bindings precede it.
func TestPropertyRebindIsAlwaysAnError(t *testing.T) {
	props := gopter.NewProperties(nil)
	props.Property("rebinding $t after any number of unrelated statements errors", prop.ForAll(
		func(n int) bool {
			var b strings.Builder
			b.WriteString(`input("a.csv") => $t;`)
			for i := 0; i < n; i++ {
				fmt.Fprintf(&b, ` input("b%d.csv") => $u%d;`, i, i)
			}
			b.WriteString(`input("c.csv") => $t;`)
			prog, err := ast.Parse(strings.NewReader(b.String()))
			if err != nil {
				return false
			}
			_, err = plan.Build(prog)
			return err != nil
		},
		gen.IntRange(0, 10),
	))
	props.TestingRun(t)
}
