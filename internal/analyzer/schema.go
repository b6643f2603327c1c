package analyzer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// predictSchema describes what the inference endpoint must answer with. Every
// field is optional; the page renders its own fallback for missing ones.
var predictSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"summary":          map[string]any{"type": "string"},
		"analysis":         map[string]any{"type": "string"},
		"lifestyle_advice": map[string]any{"type": "string"},
		"recommendations": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
	"anyOf": []any{
		map[string]any{"required": []string{"summary"}},
		map[string]any{"required": []string{"analysis"}},
		map[string]any{"required": []string{"recommendations"}},
		map[string]any{"required": []string{"lifestyle_advice"}},
	},
}

func compileSchema() (*jsonschema.Schema, error) {
	b, err := json.Marshal(predictSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("predict.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("predict.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

func (a *inferrer) validate(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal inference response: %w", err)
	}
	if err := a.schema.Validate(v); err != nil {
		return fmt.Errorf("inference response does not match schema: %w", err)
	}
	return nil
}
