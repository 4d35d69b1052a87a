package flowgraph_test

import (
	"context"
	"testing"

	"github.com/agentstation/flowgraph"
)

func TestNewNodeOptions(t *testing.T) {
	n := flowgraph.NewNode("n",
		flowgraph.WithInputs("a", "b"),
		flowgraph.WithControlInputs("go"),
		flowgraph.WithOutputs("c"),
	)

	if n.Name() != "n" {
		t.Errorf("Name = %q", n.Name())
	}
	if got := n.Inputs(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Inputs = %v", got)
	}
	if got := n.ControlInputs(); len(got) != 1 || got[0] != "go" {
		t.Errorf("ControlInputs = %v", got)
	}
	if got := n.Outputs(); len(got) != 1 || got[0] != "c" {
		t.Errorf("Outputs = %v", got)
	}
}

func TestNewNodeDefaultExecIsNoop(t *testing.T) {
	n := flowgraph.NewNode("noop")
	if err := n.Exec()(context.Background(), flowgraph.NewStore()); err != nil {
		t.Errorf("default exec: %v", err)
	}
}
