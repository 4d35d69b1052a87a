package builtin

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/ohler55/ojg/jp"

	"github.com/agentstation/flowgraph"
	"github.com/agentstation/flowgraph/compose"
	"github.com/agentstation/flowgraph/config"
)

// specFromDef wires a definition's declared keys onto an exec body.
func specFromDef(def *config.NodeDefinition, exec flowgraph.ExecFunc) *flowgraph.NodeSpec {
	return flowgraph.NewNode(def.Name,
		flowgraph.WithInputs(def.Inputs...),
		flowgraph.WithControlInputs(def.ControlInputs...),
		flowgraph.WithOutputs(def.Outputs...),
		flowgraph.WithExec(exec),
	)
}

// ConstantBuilder builds nodes that write configured literals.
type ConstantBuilder struct{}

// Metadata returns the node metadata.
func (b *ConstantBuilder) Metadata() NodeMetadata {
	return NodeMetadata{
		Type:        "constant",
		Category:    "core",
		Description: "Writes configured literal values to its outputs",
		ParamsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"values": map[string]any{
					"type":        "object",
					"description": "Output key to literal value",
				},
			},
			"required":             []string{"values"},
			"additionalProperties": false,
		},
	}
}

// Build creates a constant node from a definition.
func (b *ConstantBuilder) Build(def *config.NodeDefinition) (*flowgraph.NodeSpec, error) {
	values, _ := def.Params["values"].(map[string]any)
	for _, out := range def.Outputs {
		if _, ok := values[out]; !ok {
			return nil, fmt.Errorf("no value configured for output %q", out)
		}
	}

	return specFromDef(def, func(ctx context.Context, ws *flowgraph.Store) error {
		for _, out := range def.Outputs {
			ws.Set(out, values[out])
		}
		return nil
	}), nil
}

// DelayBuilder builds nodes that sleep before copying inputs to outputs.
type DelayBuilder struct{}

// Metadata returns the node metadata.
func (b *DelayBuilder) Metadata() NodeMetadata {
	return NodeMetadata{
		Type:        "delay",
		Category:    "core",
		Description: "Sleeps for a duration, then copies inputs to outputs pairwise",
		ParamsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"duration": map[string]any{
					"type":        "string",
					"description": "Go duration string, e.g. 150ms",
				},
			},
			"required":             []string{"duration"},
			"additionalProperties": false,
		},
	}
}

// Build creates a delay node from a definition.
func (b *DelayBuilder) Build(def *config.NodeDefinition) (*flowgraph.NodeSpec, error) {
	raw, _ := def.Params["duration"].(string)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	if len(def.Inputs) != len(def.Outputs) {
		return nil, fmt.Errorf("delay needs matching inputs and outputs, got %d and %d", len(def.Inputs), len(def.Outputs))
	}

	return specFromDef(def, func(ctx context.Context, ws *flowgraph.Store) error {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return ctx.Err()
		}
		return copyPairwise(ws, def.Inputs, def.Outputs)
	}), nil
}

// PassthroughBuilder builds nodes that copy inputs to outputs pairwise.
type PassthroughBuilder struct{}

// Metadata returns the node metadata.
func (b *PassthroughBuilder) Metadata() NodeMetadata {
	return NodeMetadata{
		Type:        "passthrough",
		Category:    "core",
		Description: "Copies each input value to the matching output key",
	}
}

// Build creates a passthrough node from a definition.
func (b *PassthroughBuilder) Build(def *config.NodeDefinition) (*flowgraph.NodeSpec, error) {
	if len(def.Inputs) != len(def.Outputs) {
		return nil, fmt.Errorf("passthrough needs matching inputs and outputs, got %d and %d", len(def.Inputs), len(def.Outputs))
	}

	return specFromDef(def, func(ctx context.Context, ws *flowgraph.Store) error {
		return copyPairwise(ws, def.Inputs, def.Outputs)
	}), nil
}

// RouterBuilder builds conditional routing nodes.
type RouterBuilder struct{}

// Metadata returns the node metadata.
func (b *RouterBuilder) Metadata() NodeMetadata {
	return NodeMetadata{
		Type:        "router",
		Category:    "flow",
		Description: "Activates the first output when the input exceeds a threshold, the second otherwise",
		ParamsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"threshold": map[string]any{
					"type":    "number",
					"default": 0,
				},
			},
			"additionalProperties": false,
		},
	}
}

// Build creates a router node from a definition.
func (b *RouterBuilder) Build(def *config.NodeDefinition) (*flowgraph.NodeSpec, error) {
	if len(def.Inputs) != 1 || len(def.Outputs) != 2 {
		return nil, fmt.Errorf("router needs one input and two outputs, got %d and %d", len(def.Inputs), len(def.Outputs))
	}
	threshold := 0.0
	if raw, ok := def.Params["threshold"]; ok {
		threshold, ok = toFloat(raw)
		if !ok {
			return nil, fmt.Errorf("threshold must be numeric, got %T", raw)
		}
	}

	return specFromDef(def, func(ctx context.Context, ws *flowgraph.Store) error {
		raw, err := ws.GetAny(def.Inputs[0])
		if err != nil {
			return err
		}
		v, ok := toFloat(raw)
		if !ok {
			return fmt.Errorf("router input %q is not numeric: %T", def.Inputs[0], raw)
		}
		if v > threshold {
			ws.Set(def.Outputs[0], flowgraph.ControlSignal{})
		} else {
			ws.Set(def.Outputs[1], flowgraph.ControlSignal{})
		}
		return nil
	}), nil
}

// AppendBuilder builds string-append nodes.
type AppendBuilder struct{}

// Metadata returns the node metadata.
func (b *AppendBuilder) Metadata() NodeMetadata {
	return NodeMetadata{
		Type:        "append",
		Category:    "data",
		Description: "Appends a configured suffix to a string input",
		ParamsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"suffix": map[string]any{"type": "string"},
			},
			"required":             []string{"suffix"},
			"additionalProperties": false,
		},
	}
}

// Build creates an append node from a definition.
func (b *AppendBuilder) Build(def *config.NodeDefinition) (*flowgraph.NodeSpec, error) {
	if len(def.Inputs) != 1 || len(def.Outputs) != 1 {
		return nil, fmt.Errorf("append needs one input and one output, got %d and %d", len(def.Inputs), len(def.Outputs))
	}
	suffix, _ := def.Params["suffix"].(string)

	return specFromDef(def, func(ctx context.Context, ws *flowgraph.Store) error {
		in, err := flowgraph.Get[string](ws, def.Inputs[0])
		if err != nil {
			return err
		}
		ws.Set(def.Outputs[0], in+suffix)
		return nil
	}), nil
}

// MergeBuilder builds first-present-wins merge nodes.
type MergeBuilder struct{}

// Metadata returns the node metadata.
func (b *MergeBuilder) Metadata() NodeMetadata {
	return NodeMetadata{
		Type:        "merge",
		Category:    "flow",
		Description: "Writes the first present input to the output, for joining pruned branches",
	}
}

// Build creates a merge node from a definition.
func (b *MergeBuilder) Build(def *config.NodeDefinition) (*flowgraph.NodeSpec, error) {
	if len(def.Inputs) == 0 || len(def.Outputs) != 1 {
		return nil, fmt.Errorf("merge needs at least one input and exactly one output, got %d and %d", len(def.Inputs), len(def.Outputs))
	}

	return specFromDef(def, func(ctx context.Context, ws *flowgraph.Store) error {
		for _, in := range def.Inputs {
			if !ws.Has(in) {
				continue
			}
			v, err := ws.GetAny(in)
			if err != nil {
				return err
			}
			ws.Set(def.Outputs[0], v)
			return nil
		}
		return fmt.Errorf("merge: no input present among %v", def.Inputs)
	}), nil
}

// JSONPathBuilder builds JSON path extraction nodes.
type JSONPathBuilder struct{}

// Metadata returns the node metadata.
func (b *JSONPathBuilder) Metadata() NodeMetadata {
	return NodeMetadata{
		Type:        "jsonpath",
		Category:    "data",
		Description: "Extracts the first match of a JSON path from the input document",
		ParamsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{
					"type":        "string",
					"description": "JSON path expression, e.g. $.user.name",
				},
			},
			"required":             []string{"path"},
			"additionalProperties": false,
		},
	}
}

// Build creates a jsonpath node from a definition.
func (b *JSONPathBuilder) Build(def *config.NodeDefinition) (*flowgraph.NodeSpec, error) {
	if len(def.Inputs) != 1 || len(def.Outputs) != 1 {
		return nil, fmt.Errorf("jsonpath needs one input and one output, got %d and %d", len(def.Inputs), len(def.Outputs))
	}
	raw, _ := def.Params["path"].(string)
	expr, err := jp.ParseString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", raw, err)
	}

	return specFromDef(def, func(ctx context.Context, ws *flowgraph.Store) error {
		doc, err := ws.GetAny(def.Inputs[0])
		if err != nil {
			return err
		}
		matches := expr.Get(doc)
		if len(matches) == 0 {
			return fmt.Errorf("jsonpath %q matched nothing in %q", raw, def.Inputs[0])
		}
		ws.Set(def.Outputs[0], matches[0])
		return nil
	}), nil
}

// SubgraphBuilder builds nodes that run a nested graph loaded from its own
// configuration file.
type SubgraphBuilder struct {
	// Loader resolves the nested document; normally the same loader the
	// outer graph was built with, so nested graphs see the same types.
	Loader *config.Loader
}

// Metadata returns the node metadata.
func (b *SubgraphBuilder) Metadata() NodeMetadata {
	return NodeMetadata{
		Type:        "subgraph",
		Category:    "flow",
		Description: "Runs a nested graph from its own config file against a private store",
		ParamsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"config_path": map[string]any{"type": "string", "minLength": 1},
				"num_threads": map[string]any{"type": "integer", "minimum": 1},
			},
			"required":             []string{"config_path"},
			"additionalProperties": false,
		},
	}
}

// Build loads the nested graph and wraps it as a subgraph node. Config
// errors in the nested document surface here, before anything executes.
func (b *SubgraphBuilder) Build(def *config.NodeDefinition) (*flowgraph.NodeSpec, error) {
	if b.Loader == nil {
		return nil, fmt.Errorf("subgraph builder has no loader")
	}
	path, _ := def.Params["config_path"].(string)
	sub, err := b.Loader.LoadFile(path)
	if err != nil {
		return nil, err
	}

	workers := runtime.NumCPU()
	if raw, ok := def.Params["num_threads"]; ok {
		f, ok := toFloat(raw)
		if !ok {
			return nil, fmt.Errorf("num_threads must be an integer, got %T", raw)
		}
		workers = int(f)
	}

	node := compose.Subgraph(def.Name, sub, def.Inputs, def.Outputs, compose.WithWorkers(workers))
	if len(def.ControlInputs) == 0 {
		return node, nil
	}
	return flowgraph.NewNode(def.Name,
		flowgraph.WithInputs(def.Inputs...),
		flowgraph.WithControlInputs(def.ControlInputs...),
		flowgraph.WithOutputs(def.Outputs...),
		flowgraph.WithExec(node.Exec()),
	), nil
}

func copyPairwise(ws *flowgraph.Store, inputs, outputs []string) error {
	for i, in := range inputs {
		v, err := ws.GetAny(in)
		if err != nil {
			return err
		}
		ws.Set(outputs[i], v)
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
