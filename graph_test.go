package flowgraph_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/agentstation/flowgraph"
)

func mustAdd(t *testing.T, g *flowgraph.Graph, nodes ...*flowgraph.NodeSpec) {
	t.Helper()
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.Name(), err)
		}
	}
}

func TestRunLinearPipeline(t *testing.T) {
	g := flowgraph.New("linear")
	mustAdd(t, g,
		flowgraph.NewNode("A",
			flowgraph.WithInputs("x"),
			flowgraph.WithOutputs("y"),
			flowgraph.WithExec(func(ctx context.Context, ws *flowgraph.Store) error {
				x, err := flowgraph.Get[int](ws, "x")
				if err != nil {
					return err
				}
				ws.Set("y", x+1)
				return nil
			}),
		),
		flowgraph.NewNode("B",
			flowgraph.WithInputs("y"),
			flowgraph.WithOutputs("z"),
			flowgraph.WithExec(func(ctx context.Context, ws *flowgraph.Store) error {
				y, err := flowgraph.Get[int](ws, "y")
				if err != nil {
					return err
				}
				ws.Set("z", y*2)
				return nil
			}),
		),
	)

	ws := flowgraph.NewStore()
	ws.Set("x", 10)

	if err := g.Run(context.Background(), ws, flowgraph.WithWorkers(1)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	z, err := flowgraph.Get[int](ws, "z")
	if err != nil {
		t.Fatalf("Get z: %v", err)
	}
	if z != 22 {
		t.Errorf("z = %d, want 22", z)
	}
}

func TestRunDiamondParallelism(t *testing.T) {
	g := flowgraph.New("diamond")
	mustAdd(t, g,
		flowgraph.NewNode("A",
			flowgraph.WithInputs("x"),
			flowgraph.WithOutputs("p"),
			flowgraph.WithExec(func(ctx context.Context, ws *flowgraph.Store) error {
				x, err := flowgraph.Get[int](ws, "x")
				if err != nil {
					return err
				}
				ws.Set("p", x+1)
				return nil
			}),
		),
		flowgraph.NewNode("B",
			flowgraph.WithInputs("x"),
			flowgraph.WithOutputs("q"),
			flowgraph.WithExec(func(ctx context.Context, ws *flowgraph.Store) error {
				x, err := flowgraph.Get[int](ws, "x")
				if err != nil {
					return err
				}
				ws.Set("q", x*2)
				return nil
			}),
		),
	)

	ws := flowgraph.NewStore()
	ws.Set("x", 10)

	if err := g.Run(context.Background(), ws, flowgraph.WithWorkers(2)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	p, _ := flowgraph.Get[int](ws, "p")
	q, _ := flowgraph.Get[int](ws, "q")
	if p != 11 || q != 20 {
		t.Errorf("p, q = %d, %d, want 11, 20", p, q)
	}
}

func TestRunEmptyGraph(t *testing.T) {
	g := flowgraph.New("empty")
	if err := g.Run(context.Background(), flowgraph.NewStore()); err != nil {
		t.Errorf("Run empty graph: %v", err)
	}
}

func TestRunSingleNodeNoInputs(t *testing.T) {
	g := flowgraph.New("single")
	mustAdd(t, g, flowgraph.NewNode("only",
		flowgraph.WithOutputs("out"),
		flowgraph.WithExec(func(ctx context.Context, ws *flowgraph.Store) error {
			ws.Set("out", "done")
			return nil
		}),
	))

	ws := flowgraph.NewStore()
	if err := g.Run(context.Background(), ws); err != nil {
		t.Fatalf("Run: %v", err)
	}
	out, err := flowgraph.Get[string](ws, "out")
	if err != nil || out != "done" {
		t.Errorf("out = %q, %v, want done", out, err)
	}
}

func TestRunZeroWorkers(t *testing.T) {
	g := flowgraph.New("zero-workers")
	mustAdd(t, g, flowgraph.NewNode("only",
		flowgraph.WithOutputs("out"),
		flowgraph.WithExec(func(ctx context.Context, ws *flowgraph.Store) error {
			ws.Set("out", 1)
			return nil
		}),
	))

	ws := flowgraph.NewStore()
	if err := g.Run(context.Background(), ws, flowgraph.WithWorkers(0)); err != nil {
		t.Fatalf("Run with 0 workers: %v", err)
	}
	if !ws.Has("out") {
		t.Error("node did not execute with coerced worker count")
	}
}

func TestRunCycleRejected(t *testing.T) {
	g := flowgraph.New("cycle")
	executed := false
	mustAdd(t, g,
		flowgraph.NewNode("A",
			flowgraph.WithInputs("b"),
			flowgraph.WithOutputs("a"),
			flowgraph.WithExec(func(ctx context.Context, ws *flowgraph.Store) error {
				executed = true
				return nil
			}),
		),
		flowgraph.NewNode("B",
			flowgraph.WithInputs("a"),
			flowgraph.WithOutputs("b"),
			flowgraph.WithExec(func(ctx context.Context, ws *flowgraph.Store) error {
				executed = true
				return nil
			}),
		),
	)

	err := g.Run(context.Background(), flowgraph.NewStore())
	if !errors.Is(err, flowgraph.ErrCycle) {
		t.Fatalf("err = %v, want ErrCycle", err)
	}
	if executed {
		t.Error("a node executed despite the cycle")
	}
}

func TestAddNodeDuplicateName(t *testing.T) {
	g := flowgraph.New("dup")
	if err := g.AddNode(flowgraph.NewNode("n")); err != nil {
		t.Fatalf("first AddNode: %v", err)
	}
	if err := g.AddNode(flowgraph.NewNode("n")); !errors.Is(err, flowgraph.ErrDuplicateNode) {
		t.Errorf("second AddNode: err = %v, want ErrDuplicateNode", err)
	}
}

func TestGraphDuplicateProducerRejected(t *testing.T) {
	g := flowgraph.New("dup-producer")
	mustAdd(t, g,
		flowgraph.NewNode("A", flowgraph.WithOutputs("k")),
		flowgraph.NewNode("B", flowgraph.WithOutputs("k")),
	)

	err := g.Run(context.Background(), flowgraph.NewStore())
	if !errors.Is(err, flowgraph.ErrDuplicateProducer) {
		t.Errorf("err = %v, want ErrDuplicateProducer", err)
	}
}

func TestGraphPrint(t *testing.T) {
	g := flowgraph.New("printable")
	mustAdd(t, g,
		flowgraph.NewNode("A", flowgraph.WithOutputs("p", "q")),
		flowgraph.NewNode("B", flowgraph.WithInputs("p"), flowgraph.WithOutputs("r")),
		flowgraph.NewNode("C", flowgraph.WithInputs("q"), flowgraph.WithOutputs("s")),
		flowgraph.NewNode("D", flowgraph.WithInputs("r", "s"), flowgraph.WithOutputs("t")),
	)

	var buf bytes.Buffer
	if err := g.Print(&buf); err != nil {
		t.Fatalf("Print: %v", err)
	}
	out := buf.String()

	for _, name := range []string{"A", "B", "C", "D"} {
		if !strings.Contains(out, name) {
			t.Errorf("dump missing node %s:\n%s", name, out)
		}
	}
	// D is reachable through both branches; the second visit is marked.
	if !strings.Contains(out, "(...)") {
		t.Errorf("dump missing revisit marker:\n%s", out)
	}
}
