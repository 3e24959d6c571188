package tools

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// ToolDefinition describes one callable tool. Function receives the raw
// JSON arguments chosen by the model and returns a short status string.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
	Function    func(input json.RawMessage) (string, error)
}

// GenerateSchema reflects the JSON Schema of T. Fields without omitempty
// are required and unknown properties are rejected.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Anonymous:                 true,
	}
	var v T
	return reflector.Reflect(v)
}

// SchemaJSON returns the input schema encoded as JSON.
func (d ToolDefinition) SchemaJSON() ([]byte, error) {
	return json.Marshal(d.InputSchema)
}

// SchemaMap returns the input schema as a generic object without the
// top-level $schema keyword, which some vendors reject.
func (d ToolDefinition) SchemaMap() (map[string]any, error) {
	b, err := d.SchemaJSON()
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	delete(m, "$schema")
	delete(m, "$id")
	return m, nil
}
