package config

// graphSchema is the JSON Schema every graph document must satisfy.
// Node params are deliberately left open here; each node type validates
// its own params against the schema its builder declares.
const graphSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "nodes": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "type": {"type": "string", "minLength": 1},
          "name": {"type": "string", "minLength": 1},
          "inputs": {"type": "array", "items": {"type": "string"}},
          "control_inputs": {"type": "array", "items": {"type": "string"}},
          "outputs": {"type": "array", "items": {"type": "string"}},
          "params": {"type": "object"}
        },
        "required": ["type", "name"],
        "additionalProperties": false
      }
    }
  },
  "required": ["nodes"],
  "additionalProperties": false
}`
