// Package config loads graph definitions from JSON documents and builds
// executable graphs through a node-type registry. JSON documents are
// validated against a JSON Schema before any node is constructed, so
// malformed configuration never reaches execution. JSON is a YAML subset, so
// YAML documents load too; they skip the schema pass and are checked only by
// GraphDefinition.Validate.
package config

import "fmt"

// GraphDefinition is a complete graph described in a configuration file.
type GraphDefinition struct {
	Name  string           `yaml:"name,omitempty"`
	Nodes []NodeDefinition `yaml:"nodes"`
}

// NodeDefinition is one node entry of a graph document.
type NodeDefinition struct {
	Type          string         `yaml:"type"`
	Name          string         `yaml:"name"`
	Inputs        []string       `yaml:"inputs,omitempty"`
	ControlInputs []string       `yaml:"control_inputs,omitempty"`
	Outputs       []string       `yaml:"outputs,omitempty"`
	Params        map[string]any `yaml:"params,omitempty"`
}

// Validate checks structural requirements that the schema cannot express
// across entries, such as node-name uniqueness.
func (gd *GraphDefinition) Validate() error {
	if len(gd.Nodes) == 0 {
		return fmt.Errorf("config: at least one node is required")
	}

	seen := make(map[string]bool, len(gd.Nodes))
	for i, node := range gd.Nodes {
		if node.Name == "" {
			return fmt.Errorf("config: node %d: 'name' is missing", i)
		}
		if node.Type == "" {
			return fmt.Errorf("config: node %q: 'type' is missing", node.Name)
		}
		if seen[node.Name] {
			return fmt.Errorf("config: duplicate node name %q", node.Name)
		}
		seen[node.Name] = true
	}
	return nil
}
