/*
Package flowgraph is an in-process execution engine for dataflow graphs:
directed acyclic graphs whose vertices are computational nodes and whose
edges are named data or control dependencies resolved through a shared,
typed key-value store.

Every reachable node runs exactly once, in an order consistent with its
dependencies, across a fixed pool of workers. Control signals prune whole
subgraphs, graphs compose hierarchically via subgraph nodes, per-node
timings are collected on demand, and the first node error fails the run
fast.

Basic usage:

	ws := flowgraph.NewStore()
	ws.Set("x", 10)

	g := flowgraph.New("pipeline")
	g.AddNode(flowgraph.NewNode("double",
		flowgraph.WithInputs("x"),
		flowgraph.WithOutputs("y"),
		flowgraph.WithExec(func(ctx context.Context, ws *flowgraph.Store) error {
			x, err := flowgraph.Get[int](ws, "x")
			if err != nil {
				return err
			}
			ws.Set("y", x*2)
			return nil
		}),
	))

	if err := g.Run(ctx, ws, flowgraph.WithWorkers(4)); err != nil {
		return err
	}
	y, _ := flowgraph.Get[int](ws, "y")

Conditional branches use control inputs. A router writes a ControlSignal to
the branch that should stay live; branches whose control key is absent when
their dependencies resolve are pruned, and pruning propagates through data
edges to their successors.

Graphs can also be loaded from JSON documents with the config package and
composed from registered node types; see config and builtin.
*/
package flowgraph
