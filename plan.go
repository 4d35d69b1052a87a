package flowgraph

import (
	"fmt"
	"sync/atomic"
)

// plan is the per-run derivation of successor lists and initial in-degrees
// from a graph. In-degrees are live-mutated during the run; the graph itself
// is not.
type plan struct {
	successors map[string][]string
	inDegree   map[string]*atomic.Int64
	roots      []string
}

// buildPlan scans every node's outputs to find each key's producer, then
// derives edges from data and control inputs alike. Keys with no internal
// producer are external inputs and contribute no edge; they are expected to
// be in the store at run start. Duplicate edges are kept: a node reading two
// outputs of the same producer has in-degree two.
func buildPlan(nodes map[string]*NodeSpec) (*plan, error) {
	producer := make(map[string]string, len(nodes))
	for name, node := range nodes {
		for _, out := range node.outputs {
			if prev, ok := producer[out]; ok {
				return nil, fmt.Errorf("%w: key %q produced by both %q and %q", ErrDuplicateProducer, out, prev, name)
			}
			producer[out] = name
		}
	}

	p := &plan{
		successors: make(map[string][]string, len(nodes)),
		inDegree:   make(map[string]*atomic.Int64, len(nodes)),
	}
	for name := range nodes {
		p.inDegree[name] = new(atomic.Int64)
	}

	for name, node := range nodes {
		deps := make([]string, 0, len(node.inputs)+len(node.controlInputs))
		deps = append(deps, node.inputs...)
		deps = append(deps, node.controlInputs...)
		for _, key := range deps {
			src, ok := producer[key]
			if !ok {
				continue
			}
			p.successors[src] = append(p.successors[src], name)
			p.inDegree[name].Add(1)
		}
	}

	for name, deg := range p.inDegree {
		if deg.Load() == 0 {
			p.roots = append(p.roots, name)
		}
	}
	if len(nodes) > 0 && len(p.roots) == 0 {
		return nil, ErrCycle
	}

	return p, nil
}
