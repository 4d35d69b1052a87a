package builtin

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateParams checks a node's params object against the schema its
// builder declares. Types without a schema accept no params.
func ValidateParams(meta *NodeMetadata, params map[string]any) error {
	if meta.ParamsSchema == nil {
		if len(params) > 0 {
			return fmt.Errorf("node type %q takes no params", meta.Type)
		}
		return nil
	}
	if params == nil {
		params = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(meta.ParamsSchema),
		gojsonschema.NewGoLoader(params),
	)
	if err != nil {
		return fmt.Errorf("validate params: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("invalid params: %s", strings.Join(msgs, "; "))
	}
	return nil
}
