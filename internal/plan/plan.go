// Package plan lowers a parsed Program into a typed execution DAG
// (spec.md §4.3): tool and variable nodes joined by port-labeled
// edges, deduplicated by ToolId/Symbol, ready for internal/exec to
// topologically schedule.
package plan

import (
	"github.com/mitchellh/hashstructure"

	"github.com/anvil-lang/anvil/internal/ast"
	"github.com/anvil-lang/anvil/internal/errs"
	"github.com/anvil-lang/anvil/internal/symbol"
	"github.com/anvil-lang/anvil/internal/tool"
)

// NodeIndex identifies one node in a Graph's node slice.
type NodeIndex int

// ExecNode is the sum {Tool, Variable} a Graph node carries.
type ExecNode struct {
	Tool     tool.Tool     // nil for a Variable node
	Variable symbol.Symbol // the zero Symbol for a Tool node
	isVar    bool
}

// IsVariable reports whether this node is a Variable node.
func (n ExecNode) IsVariable() bool { return n.isVar }

// ExecEdge is one edge of the plan: a source node, destination node,
// and the port symbol the downstream consumes it on.
type ExecEdge struct {
	Src, Dst NodeIndex
	Port     symbol.Symbol
}

// Graph is the planned DAG: nodes plus the edges between them, built
// in deterministic, program-order insertion order (spec.md §4.3
// "Determinism").
type Graph struct {
	Nodes []ExecNode
	Edges []ExecEdge

	vars    map[symbol.Symbol]NodeIndex
	tools   map[ast.ToolId]NodeIndex
	edgeSet map[uint64]bool
}

// New builds an empty Graph, ready to have statements built into it.
// A Graph is stateful across statements so later statements may
// reference variables bound by earlier ones; reuse the same Graph
// across an entire Program's statements.
func New() *Graph {
	return &Graph{
		vars:    make(map[symbol.Symbol]NodeIndex),
		tools:   make(map[ast.ToolId]NodeIndex),
		edgeSet: make(map[uint64]bool),
	}
}

// Build lowers an entire Program into a Graph, in statement order.
func Build(prog *ast.Program) (*Graph, error) {
	g := New()
	for _, stmt := range prog.Statements {
		if err := g.buildStatement(stmt); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *Graph) addToolNode(id ast.ToolId, t tool.Tool) NodeIndex {
	if idx, ok := g.tools[id]; ok {
		return idx
	}
	idx := NodeIndex(len(g.Nodes))
	g.Nodes = append(g.Nodes, ExecNode{Tool: t})
	g.tools[id] = idx
	return idx
}

// bindVar creates a new Variable node for sym, the node's single
// binding site. Rebinding an already-bound variable is a hard error
// (spec.md §9 Open Question 1, resolved against silent overwrite).
func (g *Graph) bindVar(sym symbol.Symbol) (NodeIndex, error) {
	if _, ok := g.vars[sym]; ok {
		return -1, errs.ErrVariableRedefined.New(sym.String())
	}
	idx := NodeIndex(len(g.Nodes))
	g.Nodes = append(g.Nodes, ExecNode{Variable: sym, isVar: true})
	g.vars[sym] = idx
	return idx, nil
}

func (g *Graph) lookupVar(sym symbol.Symbol) (NodeIndex, bool) {
	idx, ok := g.vars[sym]
	return idx, ok
}

type edgeKey struct {
	Src, Dst NodeIndex
	Port     symbol.Symbol
}

// addEdge inserts src->dst on port, rejecting an exact (src,dst,port)
// duplicate (spec.md §4.3 "Errors").
func (g *Graph) addEdge(src, dst NodeIndex, port symbol.Symbol) error {
	h, err := hashstructure.Hash(edgeKey{src, dst, port}, nil)
	if err != nil {
		return errs.ErrEngine.Wrap(err, "hashing plan edge")
	}
	if g.edgeSet[h] {
		return nil
	}
	g.edgeSet[h] = true
	g.Edges = append(g.Edges, ExecEdge{Src: src, Dst: dst, Port: port})
	return nil
}

// buildStatement lowers one Statement: its flow, its branches, and
// its own output binding, per spec.md §4.3 rules 1-5.
func (g *Graph) buildStatement(stmt *ast.Statement) error {
	_, node, err := g.buildFlow(stmt.Flow, symbol.Default, -1)
	if err != nil {
		return err
	}

	if stmt.Output != nil {
		varNode, err := g.bindVar(*stmt.Output)
		if err != nil {
			return err
		}
		if err := g.addEdge(node, varNode, symbol.Default); err != nil {
			return err
		}
	}

	for _, br := range stmt.Branches {
		if err := g.buildBranch(br, node); err != nil {
			return err
		}
	}

	return nil
}

func (g *Graph) buildBranch(br *ast.Branch, from NodeIndex) error {
	switch target := br.Target.(type) {
	case ast.VarTarget:
		varNode, err := g.bindVar(target.Name)
		if err != nil {
			return err
		}
		return g.addEdge(from, varNode, br.Port)
	case ast.FlowTarget:
		_, finalNode, err := g.buildFlow(target.Flow, br.Port, from)
		if err != nil {
			return err
		}
		if target.Output != nil {
			varNode, err := g.bindVar(*target.Output)
			if err != nil {
				return err
			}
			return g.addEdge(finalNode, varNode, symbol.Default)
		}
		return nil
	default:
		return errs.ErrParse.New("unknown branch target")
	}
}

// buildFlow lowers one Flow left to right, starting from an optional
// incoming node (incomingNode < 0 means the flow's first item
// sources). It returns the final item's (port, node) pair, per
// spec.md §4.3 rule 1.
func (g *Graph) buildFlow(flow *ast.Flow, incomingPort symbol.Symbol, incomingNode NodeIndex) (symbol.Symbol, NodeIndex, error) {
	curPort, curNode := incomingPort, incomingNode
	for _, item := range flow.Items {
		switch it := item.(type) {
		case ast.ToolItem:
			next, err := g.buildToolItem(it, curPort, curNode)
			if err != nil {
				return symbol.Default, -1, err
			}
			curPort, curNode = symbol.Default, next
		case ast.VarItem:
			next, err := g.buildVarItem(it, curPort, curNode)
			if err != nil {
				return symbol.Default, -1, err
			}
			curPort, curNode = symbol.Default, next
		default:
			return symbol.Default, -1, errs.ErrParse.New("unknown flow item")
		}
	}
	return curPort, curNode, nil
}

func (g *Graph) buildToolItem(it ast.ToolItem, incomingPort symbol.Symbol, incomingNode NodeIndex) (NodeIndex, error) {
	t, err := tool.Build(it.Tool)
	if err != nil {
		return -1, err
	}
	node := g.addToolNode(it.Tool.ID, t)

	if incomingNode >= 0 {
		if err := g.addEdge(incomingNode, node, incomingPort); err != nil {
			return -1, err
		}
	}

	for _, side := range t.Expand() {
		_, sideFinal, err := g.buildFlow(side.Flow, symbol.Default, -1)
		if err != nil {
			return -1, err
		}
		if err := g.addEdge(sideFinal, node, side.Port); err != nil {
			return -1, err
		}
	}

	return node, nil
}

func (g *Graph) buildVarItem(it ast.VarItem, incomingPort symbol.Symbol, incomingNode NodeIndex) (NodeIndex, error) {
	node, ok := g.lookupVar(it.Name)
	if !ok {
		return -1, errs.ErrUndefinedVariable.New(it.Name.String())
	}
	if incomingNode >= 0 {
		if err := g.addEdge(incomingNode, node, incomingPort); err != nil {
			return -1, err
		}
	}
	return node, nil
}
