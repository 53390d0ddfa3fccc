package util

import (
	"github.com/google/jsonschema-go/jsonschema"
)

// EmptyObjectSchema returns the schema of a tool without arguments.
func EmptyObjectSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "object", Properties: map[string]*jsonschema.Schema{}}
}

// SchemaToMap converts a schema into the generic map shape expected by
// provider SDKs that accept raw JSON Schema objects.
func SchemaToMap(s *jsonschema.Schema) (map[string]any, error) {
	if s == nil {
		s = EmptyObjectSchema()
	}
	out := map[string]any{}
	if err := Remarshal(s, &out); err != nil {
		return nil, err
	}
	// An empty schema marshals to `true`; providers need an object.
	if _, ok := out["type"]; !ok {
		out["type"] = "object"
	}
	if _, ok := out["properties"]; !ok && out["type"] == "object" {
		out["properties"] = map[string]any{}
	}
	return out, nil
}

// RequiredFields returns the names listed in the schema's required clause.
func RequiredFields(s *jsonschema.Schema) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.Required...)
}
