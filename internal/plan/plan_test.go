package plan_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvil-lang/anvil/internal/ast"
	"github.com/anvil-lang/anvil/internal/plan"
)

func build(t *testing.T, src string) *plan.Graph {
	t.Helper()
	prog, err := ast.Parse(strings.NewReader(src))
	require.NoError(t, err)
	g, err := plan.Build(prog)
	require.NoError(t, err)
	return g
}

func TestBuildLinearFlow(t *testing.T) {
	g := build(t, `input("a.csv") | select("a,b") | output("o.csv")`)
	assert.Len(t, g.Nodes, 3)
	assert.Len(t, g.Edges, 2)
}

func TestBuildBindsOutputVariable(t *testing.T) {
	g := build(t, `input("a.csv") => $tbl`)
	assert.Len(t, g.Nodes, 2)
	assert.True(t, g.Nodes[1].IsVariable())
	assert.Equal(t, "tbl", g.Nodes[1].Variable.String())
}

func TestBuildVariableRebindIsAnError(t *testing.T) {
	prog, err := ast.Parse(strings.NewReader(`input("a.csv") => $t; input("b.csv") => $t`))
	require.NoError(t, err)
	_, err = plan.Build(prog)
	assert.Error(t, err)
}

func TestBuildUndefinedVariableReferenceIsAnError(t *testing.T) {
	prog, err := ast.Parse(strings.NewReader(`$missing | output("o.csv")`))
	require.NoError(t, err)
	_, err = plan.Build(prog)
	assert.Error(t, err)
}

func TestBuildVariableReferenceWiresEdge(t *testing.T) {
	g := build(t, `input("a.csv") => $t; $t | output("o.csv")`)
	// nodes: input, var t, output
	require.Len(t, g.Nodes, 3)
	found := false
	for _, e := range g.Edges {
		if e.Src == 1 && e.Dst == 2 {
			found = true
		}
	}
	assert.True(t, found, "expected an edge from the variable node to output")
}

func TestBuildBranchBlockWiresBothPorts(t *testing.T) {
	g := build(t, `input("a.csv") | filter("age > 1") { true -> $adults, false -> $kids }`)
	require.Len(t, g.Nodes, 4) // input, filter, var adults, var kids
	var ports []string
	for _, e := range g.Edges {
		ports = append(ports, e.Port.String())
	}
	assert.Contains(t, ports, "true")
	assert.Contains(t, ports, "false")
}

func TestBuildMultiInputToolWiresSidePorts(t *testing.T) {
	g := build(t, `join(input("l.csv"), input("r.csv"), cols_lt="k", cols_rt="k") => $j`)
	// nodes: join, input l, input r, var j
	require.Len(t, g.Nodes, 4)
	var ports []string
	for _, e := range g.Edges {
		ports = append(ports, e.Port.String())
	}
	assert.Contains(t, ports, "left")
	assert.Contains(t, ports, "right")
}

func TestBuildEdgesHaveNoExactTripleDuplicates(t *testing.T) {
	g := build(t, `input("a.csv") | filter("age > 1") { true -> $adults, false -> $kids }`)
	seen := make(map[string]bool)
	for _, e := range g.Edges {
		key := fmt.Sprintf("%d/%d/%s", e.Src, e.Dst, e.Port.String())
		assert.False(t, seen[key], "duplicate edge triple %s", key)
		seen[key] = true
	}
}

func TestBuildToolIdsAreNotDuplicatedAcrossReferences(t *testing.T) {
	g := build(t, `input("a.csv") => $a; $a | output("o1.csv"); $a | output("o2.csv")`)
	// nodes: input, var a, output1, output2 — the variable node must be
	// shared, not re-created per reference.
	assert.Len(t, g.Nodes, 4)
}
