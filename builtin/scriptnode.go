package builtin

import (
	"context"
	"fmt"

	"github.com/agentstation/flowgraph"
	"github.com/agentstation/flowgraph/builtin/script"
	"github.com/agentstation/flowgraph/config"
)

// ScriptBuilder builds nodes that run a sandboxed Lua body.
type ScriptBuilder struct{}

// Metadata returns the node metadata.
func (b *ScriptBuilder) Metadata() NodeMetadata {
	return NodeMetadata{
		Type:        "script",
		Category:    "data",
		Description: "Runs a sandboxed Lua body over the node's inputs",
		ParamsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"source": map[string]any{
					"type":        "string",
					"minLength":   1,
					"description": "Lua source; inputs arrive as the `inputs` table, outputs return as a table",
				},
			},
			"required":             []string{"source"},
			"additionalProperties": false,
		},
	}
}

// Build creates a script node from a definition. The source is parse-checked
// at build time so syntax errors surface before execution.
func (b *ScriptBuilder) Build(def *config.NodeDefinition) (*flowgraph.NodeSpec, error) {
	source, _ := def.Params["source"].(string)
	if err := script.Validate(source); err != nil {
		return nil, err
	}
	inputs := def.Inputs
	outputs := def.Outputs

	return specFromDef(def, func(ctx context.Context, ws *flowgraph.Store) error {
		in := make(map[string]any, len(inputs))
		for _, key := range inputs {
			v, err := ws.GetAny(key)
			if err != nil {
				return err
			}
			in[key] = v
		}

		out, err := script.Execute(source, in)
		if err != nil {
			return err
		}

		for _, key := range outputs {
			v, ok := out[key]
			if !ok {
				return fmt.Errorf("script did not produce output %q", key)
			}
			ws.Set(key, v)
		}
		return nil
	}), nil
}
