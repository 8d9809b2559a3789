// Package exec topologically schedules a plan.Graph and runs it
// against a table-engine Session (spec.md §4.5): sources first, then
// the rest, gathering per-port inputs and routing per-port outputs
// through a single-threaded port store.
package exec

import (
	"context"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"

	"github.com/anvil-lang/anvil/engine"
	"github.com/anvil-lang/anvil/internal/errs"
	"github.com/anvil-lang/anvil/internal/plan"
	"github.com/anvil-lang/anvil/internal/rt"
	"github.com/anvil-lang/anvil/internal/symbol"
)

// Executor runs one plan.Graph to completion against a Session.
type Executor struct {
	Log    *logrus.Logger
	Tracer opentracing.Tracer
}

// New builds an Executor with the given structured logger. A nil
// logger falls back to logrus's standard logger, matching the
// teacher's own sql/analyzer default-logger convention.
func New(log *logrus.Logger) *Executor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Executor{Log: log, Tracer: opentracing.GlobalTracer()}
}

// portKey is the port store's key: a node plus the port it produced.
type portKey struct {
	Node plan.NodeIndex
	Port symbol.Symbol
}

// Run topologically sorts g, executes its sources then its
// non-sources, and returns the terminal Values produced by the last
// node scheduled (primarily useful for tests and the REPL adapter;
// most scripts route their results through `output` or a variable
// binding instead of the return value).
func (e *Executor) Run(ctx context.Context, g *plan.Graph, sess engine.Session) (rt.Values, error) {
	order, err := topoSort(g)
	if err != nil {
		return nil, err
	}
	sources, rest := partitionSources(g, order)

	runID := uuid.NewV4().String()
	span, spanCtx := opentracing.StartSpanFromContextWithTracer(ctx, e.Tracer, "anvil.exec.run")
	defer span.Finish()
	span.SetTag("anvil.run_id", runID)

	store := make(map[portKey]engine.Table)
	rc := &rt.Context{
		Context: engine.NewContext(spanCtx, runID),
		Log:     e.Log.WithField("run_id", runID),
		Span:    span,
	}

	var last rt.Values
	for _, idx := range append(sources, rest...) {
		out, err := e.runNode(rc, g, idx, store, sess)
		if err != nil {
			return nil, err
		}
		last = out
		routeOutputs(g, idx, out, store)
	}
	return last, nil
}

func (e *Executor) runNode(rc *rt.Context, g *plan.Graph, idx plan.NodeIndex, store map[portKey]engine.Table, sess engine.Session) (rt.Values, error) {
	node := g.Nodes[idx]
	in := gatherInputs(g, idx, store)

	nodeSpan, nodeCtx := opentracing.StartSpanFromContextWithTracer(rc.Context.Context, e.Tracer, nodeLabel(node))
	defer nodeSpan.Finish()
	nodeRC := &rt.Context{
		Context: engine.NewContext(nodeCtx, rc.Context.RunID),
		Log:     rc.Log.WithField("node", nodeLabel(node)),
		Span:    nodeSpan,
	}

	if node.IsVariable() {
		t, ok := in.GetOne()
		if !ok {
			return nil, errs.ErrUninitializedVariable.New(node.Variable.String())
		}
		nodeRC.Log.Debug("variable passthrough")
		return rt.NewValues(t), nil
	}

	nodeRC.Log.WithField("tool", node.Tool.Name()).Debug("running tool")
	out, err := node.Tool.Run(nodeRC, in, sess)
	if err != nil {
		return nil, errs.ErrEngine.Wrap(err, node.Tool.Name())
	}
	return out, nil
}

func nodeLabel(n plan.ExecNode) string {
	if n.IsVariable() {
		return "var:" + n.Variable.String()
	}
	return "tool:" + n.Tool.Name()
}

// gatherInputs scans g's edges into idx, reading each upstream
// (source_node, port) entry from store and assembling the Values map
// a node's Run expects (spec.md §4.5 step 4a).
func gatherInputs(g *plan.Graph, idx plan.NodeIndex, store map[portKey]engine.Table) rt.Values {
	in := make(rt.Values)
	for _, e := range g.Edges {
		if e.Dst != idx {
			continue
		}
		if t, ok := store[portKey{Node: e.Src, Port: e.Port}]; ok {
			in[e.Port] = t
			continue
		}
		if t, ok := store[portKey{Node: e.Src, Port: symbol.Default}]; ok {
			in[e.Port] = t
		}
	}
	return in
}

// routeOutputs stores out's ports under this node's index so
// downstream gatherInputs calls can find them (spec.md §4.5 step 4c).
func routeOutputs(g *plan.Graph, idx plan.NodeIndex, out rt.Values, store map[portKey]engine.Table) {
	for port, t := range out {
		store[portKey{Node: idx, Port: port}] = t
	}
}

// partitionSources splits a topologically sorted node-index list into
// sources and non-sources, each preserving its relative order (spec.md
// §4.5 step 2).
func partitionSources(g *plan.Graph, order []plan.NodeIndex) (sources, rest []plan.NodeIndex) {
	for _, idx := range order {
		n := g.Nodes[idx]
		if !n.IsVariable() && n.Tool.IsSource() {
			sources = append(sources, idx)
		} else {
			rest = append(rest, idx)
		}
	}
	return sources, rest
}

// topoSort runs Kahn's algorithm over g, breaking ties by ascending
// node index so the order is deterministic given insertion order
// (spec.md §4.3 "Determinism").
func topoSort(g *plan.Graph) ([]plan.NodeIndex, error) {
	indeg := make([]int, len(g.Nodes))
	adj := make([][]plan.NodeIndex, len(g.Nodes))
	for _, e := range g.Edges {
		indeg[e.Dst]++
		adj[e.Src] = append(adj[e.Src], e.Dst)
	}

	ready := make([]plan.NodeIndex, 0, len(g.Nodes))
	for i, d := range indeg {
		if d == 0 {
			ready = append(ready, plan.NodeIndex(i))
		}
	}

	var order []plan.NodeIndex
	for len(ready) > 0 {
		// ready is kept in ascending index order: it starts sorted,
		// and every newly ready node is placed with insertSorted, so
		// popping the front respects the tie-break rule.
		idx := ready[0]
		ready = ready[1:]
		order = append(order, idx)
		for _, next := range adj[idx] {
			indeg[next]--
			if indeg[next] == 0 {
				ready = insertSorted(ready, next)
			}
		}
	}

	if len(order) != len(g.Nodes) {
		for i, d := range indeg {
			if d > 0 {
				return nil, errs.ErrCycleDetected.New(i)
			}
		}
		return nil, errs.ErrCycleDetected.New(-1)
	}
	return order, nil
}

func insertSorted(ready []plan.NodeIndex, v plan.NodeIndex) []plan.NodeIndex {
	i := 0
	for i < len(ready) && ready[i] < v {
		i++
	}
	ready = append(ready, 0)
	copy(ready[i+1:], ready[i:])
	ready[i] = v
	return ready
}
