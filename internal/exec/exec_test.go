package exec_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvil-lang/anvil/engine/memtable"
	"github.com/anvil-lang/anvil/internal/ast"
	"github.com/anvil-lang/anvil/internal/exec"
	"github.com/anvil-lang/anvil/internal/plan"
	"github.com/anvil-lang/anvil/internal/symbol"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runScript(t *testing.T, src string) (interface{}, error) {
	t.Helper()
	prog, err := ast.Parse(strings.NewReader(src))
	require.NoError(t, err)
	g, err := plan.Build(prog)
	require.NoError(t, err)
	ex := exec.New(nil)
	sess := memtable.NewSession()
	return ex.Run(context.Background(), g, sess)
}

func TestRunLinearPipeline(t *testing.T) {
	dir := t.TempDir()
	in := writeCSV(t, dir, "in.csv", "a,b\n1,2\n3,4\n")
	out := filepath.Join(dir, "out.csv")

	_, err := runScript(t, `input("`+in+`") | select("a") | output("`+out+`")`)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "a\n")
}

func TestRunBranchSplitsRowsAcrossPorts(t *testing.T) {
	dir := t.TempDir()
	in := writeCSV(t, dir, "in.csv", "age\n5\n0\n9\n")
	adultsOut := filepath.Join(dir, "adults.csv")
	kidsOut := filepath.Join(dir, "kids.csv")

	src := `input("` + in + `") | filter("age > 1") { true -> output("` + adultsOut + `"), false -> output("` + kidsOut + `") }`
	_, err := runScript(t, src)
	require.NoError(t, err)

	adults, err := os.ReadFile(adultsOut)
	require.NoError(t, err)
	kids, err := os.ReadFile(kidsOut)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(adults), "\n")) // header + 2 rows
	assert.Equal(t, 2, strings.Count(string(kids), "\n"))   // header + 1 row
}

func TestRunCycleDetected(t *testing.T) {
	// internal/ast's grammar cannot itself produce a cyclic plan (flows
	// are always acyclic by construction), so this exercises topoSort's
	// error path directly against a hand-built two-node cycle instead
	// of going through plan.Build.
	g := &plan.Graph{
		Nodes: []plan.ExecNode{{}, {}},
		Edges: []plan.ExecEdge{
			{Src: 0, Dst: 1, Port: symbol.Default},
			{Src: 1, Dst: 0, Port: symbol.Default},
		},
	}
	ex := exec.New(nil)
	_, err := ex.Run(context.Background(), g, memtable.NewSession())
	assert.Error(t, err)
}

func TestRunVariableReferenceCarriesTableForward(t *testing.T) {
	dir := t.TempDir()
	in := writeCSV(t, dir, "in.csv", "a\n1\n2\n")
	out := filepath.Join(dir, "out.csv")

	src := `input("` + in + `") => $t; $t | output("` + out + `")`
	_, err := runScript(t, src)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "1")
}

func TestRunJoinAcrossTwoSources(t *testing.T) {
	dir := t.TempDir()
	left := writeCSV(t, dir, "l.csv", "k,v\n1,a\n2,b\n")
	right := writeCSV(t, dir, "r.csv", "k,w\n1,x\n")
	out := filepath.Join(dir, "out.csv")

	src := `join(input("` + left + `"), input("` + right + `"), cols_lt="k", cols_rt="k") | output("` + out + `")`
	_, err := runScript(t, src)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n")) // header + 1 matched row
}
