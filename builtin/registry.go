// Package builtin provides the node types available to configuration-driven
// graphs: constants, delays, routing, string transforms, merging, JSON path
// extraction, Lua scripting and nested subgraphs.
package builtin

import (
	"fmt"

	"github.com/agentstation/flowgraph"
	"github.com/agentstation/flowgraph/config"
)

// NodeMetadata describes a node type for listings and validation.
type NodeMetadata struct {
	// Type is the registry key used in graph documents.
	Type string

	// Category groups related node types (core, data, flow).
	Category string

	// Description is a one-line summary for CLI listings.
	Description string

	// ParamsSchema is a JSON Schema for the node's params object. Nil
	// means the type takes no params.
	ParamsSchema map[string]any
}

// NodeBuilder creates node specs of one type and provides metadata.
type NodeBuilder interface {
	Metadata() NodeMetadata
	Build(def *config.NodeDefinition) (*flowgraph.NodeSpec, error)
}

// Registry holds a set of builders keyed by type. Each NewRegistry call
// creates an independent set; there is no process-wide instance.
type Registry struct {
	builders map[string]NodeBuilder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]NodeBuilder)}
}

// Register adds a builder. Registering the same type twice fails.
func (r *Registry) Register(builder NodeBuilder) error {
	meta := builder.Metadata()
	if _, ok := r.builders[meta.Type]; ok {
		return fmt.Errorf("builtin: node type %q already registered", meta.Type)
	}
	r.builders[meta.Type] = builder
	return nil
}

// Get returns a builder by type.
func (r *Registry) Get(nodeType string) (NodeBuilder, bool) {
	b, ok := r.builders[nodeType]
	return b, ok
}

// All returns all registered builders.
func (r *Registry) All() map[string]NodeBuilder {
	return r.builders
}

// RegisterAll registers every built-in node type with a loader. Each
// factory validates the node's params against the builder's schema before
// building.
func RegisterAll(loader *config.Loader) (*Registry, error) {
	registry := NewRegistry()

	builders := []NodeBuilder{
		&ConstantBuilder{},
		&DelayBuilder{},
		&PassthroughBuilder{},
		&RouterBuilder{},
		&AppendBuilder{},
		&MergeBuilder{},
		&JSONPathBuilder{},
		&ScriptBuilder{},
		&SubgraphBuilder{Loader: loader},
	}

	for _, b := range builders {
		if err := registry.Register(b); err != nil {
			return nil, err
		}
		meta := b.Metadata()
		builder := b
		factory := func(def *config.NodeDefinition) (*flowgraph.NodeSpec, error) {
			if err := ValidateParams(&meta, def.Params); err != nil {
				return nil, fmt.Errorf("params validation failed for node %q: %w", def.Name, err)
			}
			return builder.Build(def)
		}
		if err := loader.RegisterNodeType(meta.Type, factory); err != nil {
			return nil, err
		}
	}

	return registry, nil
}
