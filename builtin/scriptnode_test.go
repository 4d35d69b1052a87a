package builtin_test

import (
	"context"
	"strings"
	"testing"

	"github.com/agentstation/flowgraph"
)

func TestScriptNode(t *testing.T) {
	loader, _ := newLoader(t)
	doc := `{"nodes": [{"type": "script", "name": "classify", "inputs": ["score"], "outputs": ["label"],
	  "params": {"source": "function exec(inputs)\n  if inputs.score > 0.5 then\n    return { label = \"high\" }\n  end\n  return { label = \"low\" }\nend"}}]}`

	g, err := loader.Load([]byte(doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	ws := flowgraph.NewStore()
	ws.Set("score", 0.9)
	if err := g.Run(context.Background(), ws); err != nil {
		t.Fatalf("Run: %v", err)
	}

	label, err := flowgraph.Get[string](ws, "label")
	if err != nil || label != "high" {
		t.Errorf("label = %q, %v", label, err)
	}
}

func TestScriptNodeSyntaxErrorAtBuild(t *testing.T) {
	loader, _ := newLoader(t)
	doc := `{"nodes": [{"type": "script", "name": "broken", "params": {"source": "function ("}}]}`
	if _, err := loader.Load([]byte(doc)); err == nil {
		t.Error("broken script accepted at build time")
	}
}

func TestScriptNodeMissingOutput(t *testing.T) {
	loader, _ := newLoader(t)
	doc := `{"nodes": [{"type": "script", "name": "s", "outputs": ["needed"],
	  "params": {"source": "return { other = 1 }"}}]}`

	g, err := loader.Load([]byte(doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	err = g.Run(context.Background(), flowgraph.NewStore())
	if err == nil || !strings.Contains(err.Error(), "did not produce output") {
		t.Errorf("err = %v, want missing-output failure", err)
	}
}
