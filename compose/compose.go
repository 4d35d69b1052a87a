// Package compose builds larger pipelines out of whole graphs: subgraph
// nodes that run a nested graph against a private store, and helpers for
// running several graphs sequentially or concurrently.
package compose

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/flowgraph"
)

// SubgraphOption configures a subgraph node.
type SubgraphOption func(*subgraphOptions)

type subgraphOptions struct {
	workers int
}

// WithWorkers sets the worker count for the nested run. Defaults to the
// hardware concurrency.
func WithWorkers(n int) SubgraphOption {
	return func(o *subgraphOptions) {
		o.workers = n
	}
}

// Subgraph wraps a nested graph as an ordinary node. When executed, it
// creates a private store, copies each declared input from the parent store
// into it, runs the nested graph to completion, and copies each declared
// output back. Nothing else crosses the boundary: intermediate keys of the
// nested run are discarded with the private store. A nested failure
// surfaces as this node's error under the usual fail-fast rules.
//
// The nested run is unprofiled; profile the outer graph instead to see the
// subgraph node's total cost.
func Subgraph(name string, sub *flowgraph.Graph, inputs, outputs []string, opts ...SubgraphOption) *flowgraph.NodeSpec {
	o := subgraphOptions{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(&o)
	}

	return flowgraph.NewNode(name,
		flowgraph.WithInputs(inputs...),
		flowgraph.WithOutputs(outputs...),
		flowgraph.WithExec(func(ctx context.Context, ws *flowgraph.Store) error {
			private := flowgraph.NewStore()
			for _, key := range inputs {
				v, err := ws.GetAny(key)
				if err != nil {
					return fmt.Errorf("subgraph %q: copy input: %w", name, err)
				}
				private.Set(key, v)
			}

			if err := sub.Run(ctx, private, flowgraph.WithWorkers(o.workers)); err != nil {
				return fmt.Errorf("subgraph %q: %w", name, err)
			}

			for _, key := range outputs {
				v, err := private.GetAny(key)
				if err != nil {
					return fmt.Errorf("subgraph %q: copy output: %w", name, err)
				}
				ws.Set(key, v)
			}
			return nil
		}),
	)
}

// Run pairs a graph with the store and options it should run against.
type Run struct {
	Graph   *flowgraph.Graph
	Store   *flowgraph.Store
	Options []flowgraph.RunOption
}

// Sequential executes runs in order, stopping at the first error.
func Sequential(ctx context.Context, runs ...Run) error {
	for _, r := range runs {
		if err := r.Graph.Run(ctx, r.Store, r.Options...); err != nil {
			return fmt.Errorf("graph %q: %w", r.Graph.Name(), err)
		}
	}
	return nil
}

// Parallel executes runs concurrently and returns the first error. Each run
// has its own store, so there is no shared state between them.
func Parallel(ctx context.Context, runs ...Run) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, r := range runs {
		r := r
		g.Go(func() error {
			if err := r.Graph.Run(ctx, r.Store, r.Options...); err != nil {
				return fmt.Errorf("graph %q: %w", r.Graph.Name(), err)
			}
			return nil
		})
	}
	return g.Wait()
}
