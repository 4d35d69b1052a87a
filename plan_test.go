package flowgraph

import (
	"errors"
	"testing"
)

func specs(nodes ...*NodeSpec) map[string]*NodeSpec {
	m := make(map[string]*NodeSpec, len(nodes))
	for _, n := range nodes {
		m[n.Name()] = n
	}
	return m
}

func TestPlanLinear(t *testing.T) {
	p, err := buildPlan(specs(
		NewNode("A", WithInputs("x"), WithOutputs("y")),
		NewNode("B", WithInputs("y"), WithOutputs("z")),
	))
	if err != nil {
		t.Fatalf("buildPlan: %v", err)
	}

	if got := p.successors["A"]; len(got) != 1 || got[0] != "B" {
		t.Errorf("successors[A] = %v, want [B]", got)
	}
	if deg := p.inDegree["B"].Load(); deg != 1 {
		t.Errorf("inDegree[B] = %d, want 1", deg)
	}
	if deg := p.inDegree["A"].Load(); deg != 0 {
		t.Errorf("inDegree[A] = %d, want 0", deg)
	}
	if len(p.roots) != 1 || p.roots[0] != "A" {
		t.Errorf("roots = %v, want [A]", p.roots)
	}
}

func TestPlanExternalInputsContributeNoEdge(t *testing.T) {
	p, err := buildPlan(specs(
		NewNode("A", WithInputs("external"), WithOutputs("y")),
	))
	if err != nil {
		t.Fatalf("buildPlan: %v", err)
	}
	if deg := p.inDegree["A"].Load(); deg != 0 {
		t.Errorf("inDegree[A] = %d, want 0 for external input", deg)
	}
}

func TestPlanDuplicateEdges(t *testing.T) {
	// B reads two outputs of A, so it gains two edges.
	p, err := buildPlan(specs(
		NewNode("A", WithOutputs("p", "q")),
		NewNode("B", WithInputs("p", "q"), WithOutputs("r")),
	))
	if err != nil {
		t.Fatalf("buildPlan: %v", err)
	}
	if deg := p.inDegree["B"].Load(); deg != 2 {
		t.Errorf("inDegree[B] = %d, want 2", deg)
	}
	if got := p.successors["A"]; len(got) != 2 {
		t.Errorf("successors[A] = %v, want two entries", got)
	}
}

func TestPlanControlInputsCountAsEdges(t *testing.T) {
	p, err := buildPlan(specs(
		NewNode("Router", WithOutputs("route_a")),
		NewNode("Branch", WithControlInputs("route_a"), WithOutputs("out")),
	))
	if err != nil {
		t.Fatalf("buildPlan: %v", err)
	}
	if deg := p.inDegree["Branch"].Load(); deg != 1 {
		t.Errorf("inDegree[Branch] = %d, want 1", deg)
	}
}

func TestPlanDuplicateProducer(t *testing.T) {
	_, err := buildPlan(specs(
		NewNode("A", WithOutputs("k")),
		NewNode("B", WithOutputs("k")),
	))
	if !errors.Is(err, ErrDuplicateProducer) {
		t.Errorf("err = %v, want ErrDuplicateProducer", err)
	}
}

func TestPlanCycle(t *testing.T) {
	_, err := buildPlan(specs(
		NewNode("A", WithInputs("b"), WithOutputs("a")),
		NewNode("B", WithInputs("a"), WithOutputs("b")),
	))
	if !errors.Is(err, ErrCycle) {
		t.Errorf("err = %v, want ErrCycle", err)
	}
}

func TestPlanEmpty(t *testing.T) {
	p, err := buildPlan(specs())
	if err != nil {
		t.Fatalf("buildPlan: %v", err)
	}
	if len(p.roots) != 0 {
		t.Errorf("roots = %v, want none", p.roots)
	}
}
