package flowgraph

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Graph is a set of node specs keyed by name. The set is fixed for the
// duration of a run; only the store mutates while the graph executes.
type Graph struct {
	name  string
	nodes map[string]*NodeSpec
}

// New creates an empty graph.
func New(name string) *Graph {
	return &Graph{
		name:  name,
		nodes: make(map[string]*NodeSpec),
	}
}

// Name returns the graph's name.
func (g *Graph) Name() string { return g.name }

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.nodes) }

// AddNode registers a node. Node names are unique within a graph.
func (g *Graph) AddNode(node *NodeSpec) error {
	if node == nil {
		return fmt.Errorf("flowgraph: nil node")
	}
	if _, ok := g.nodes[node.name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateNode, node.name)
	}
	g.nodes[node.name] = node
	return nil
}

// Node returns the node with the given name, if present.
func (g *Graph) Node(name string) (*NodeSpec, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Run executes every reachable node exactly once, in an order consistent
// with its dependencies, using a fixed worker pool. It blocks until the
// graph is terminal and returns the first node error, if any. An empty
// graph returns immediately.
func (g *Graph) Run(ctx context.Context, ws *Store, opts ...RunOption) error {
	o := defaultRunOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p, err := buildPlan(g.nodes)
	if err != nil {
		return err
	}
	if len(g.nodes) == 0 {
		return nil
	}

	return newScheduler(g, p, ws, o).run(ctx)
}

// Print writes a tree-format dump of reachability from the graph's roots.
// A node that was already printed on another path is marked (...) and not
// expanded again.
func (g *Graph) Print(w io.Writer) error {
	p, err := buildPlan(g.nodes)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "graph %q (%d nodes)\n", g.name, len(g.nodes))

	roots := append([]string(nil), p.roots...)
	sort.Strings(roots)

	visited := make(map[string]bool, len(g.nodes))
	var dump func(name string, depth int)
	dump = func(name string, depth int) {
		indent := strings.Repeat("  ", depth)
		if visited[name] {
			fmt.Fprintf(w, "%s%s (...)\n", indent, name)
			return
		}
		visited[name] = true
		fmt.Fprintf(w, "%s%s\n", indent, name)

		succs := append([]string(nil), p.successors[name]...)
		sort.Strings(succs)
		for _, succ := range succs {
			dump(succ, depth+1)
		}
	}
	for _, root := range roots {
		dump(root, 1)
	}
	return nil
}
