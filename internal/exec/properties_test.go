package exec_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/anvil-lang/anvil/engine/memtable"
	"github.com/anvil-lang/anvil/internal/ast"
	"github.com/anvil-lang/anvil/internal/exec"
	"github.com/anvil-lang/anvil/internal/plan"
)

// TestPropertyManySourcesRunToCompletion builds a plan with N+1 source
// (input) nodes feeding a single downstream union chain and checks that
// it executes without error for any N. It does not observe the order in
// which nodes are scheduled.
func TestPropertyManySourcesRunToCompletion(t *testing.T) {
	props := gopter.NewProperties(nil)
	props.Property("a union chain over N+1 sources runs without error", prop.ForAll(
		func(n int) bool {
			dir, err := os.MkdirTemp("", "anvilprop")
			if err != nil {
				return false
			}
			defer os.RemoveAll(dir)

			// union() takes exactly two positional flows, so N extra
			// sources are folded in left-associatively:
			// union(union(union(s0, s1), s2), s3)...
			expr := fmt.Sprintf(`input("%s")`, writeTiny(t, dir, "s0.csv"))
			for i := 1; i <= n; i++ {
				expr = fmt.Sprintf(`union(%s, input("%s"))`, expr, writeTiny(t, dir, fmt.Sprintf("s%d.csv", i)))
			}
			src := expr + " | count;"

			prog, err := ast.Parse(strings.NewReader(src))
			if err != nil {
				return false
			}
			g, err := plan.Build(prog)
			if err != nil {
				return false
			}
			ex := exec.New(nil)
			_, err = ex.Run(context.Background(), g, memtable.NewSession())
			return err == nil
		},
		gen.IntRange(0, 4),
	))
	props.TestingRun(t)
}

func writeTiny(t *testing.T, dir, name string) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("a\n1\n2\n"), 0644); err != nil {
		t.Fatalf("writeTiny: %v", err)
	}
	return path
}

// TestPropertyFilterPartitionsWithoutOverlap covers spec §8 Property 6:
// the row counts of filter(pred)'s true and false outputs add up to the
// input's row count, for any slice of ages and any threshold. Row
// contents are not compared.
func TestPropertyFilterPartitionsWithoutOverlap(t *testing.T) {
	props := gopter.NewProperties(nil)
	props.Property("true-count + false-count == input row count", prop.ForAll(
		func(ages []int, threshold int) bool {
			dir := t.TempDir()
			var b strings.Builder
			b.WriteString("age\n")
			for _, a := range ages {
				fmt.Fprintf(&b, "%d\n", a)
			}
			in := filepath.Join(dir, "in.csv")
			if err := os.WriteFile(in, []byte(b.String()), 0644); err != nil {
				return false
			}
			trueOut := filepath.Join(dir, "t.csv")
			falseOut := filepath.Join(dir, "f.csv")

			src := fmt.Sprintf(
				`input("%s") | filter("age > %d") { true -> output("%s"), false -> output("%s") }`,
				in, threshold, trueOut, falseOut,
			)
			prog, err := ast.Parse(strings.NewReader(src))
			if err != nil {
				return false
			}
			g, err := plan.Build(prog)
			if err != nil {
				return false
			}
			ex := exec.New(nil)
			if _, err := ex.Run(context.Background(), g, memtable.NewSession()); err != nil {
				return false
			}

			trueRows := countDataLines(t, trueOut)
			falseRows := countDataLines(t, falseOut)
			return trueRows+falseRows == len(ages)
		},
		gen.SliceOfN(6, gen.IntRange(-10, 10)),
		gen.IntRange(-10, 10),
	))
	props.TestingRun(t)
}

func countDataLines(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("countDataLines: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return 0
	}
	return len(lines) - 1 // minus header
}
