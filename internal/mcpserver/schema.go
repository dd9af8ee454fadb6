package mcpserver

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/upskilling-lab/mcp-toolserver/internal/registry"
)

// inputSchema converts declared parameter specs into the JSON schema the
// protocol advertises for a tool. Parameter types map one to one onto JSON
// schema type names.
func inputSchema(params []registry.ParamSpec) *jsonschema.Schema {
	properties := make(map[string]*jsonschema.Schema, len(params))
	required := []string{}

	for _, param := range params {
		property := &jsonschema.Schema{
			Type:        string(param.Type),
			Description: param.Description,
		}
		if param.Default != nil {
			if data, err := json.Marshal(param.Default); err == nil {
				property.Default = json.RawMessage(data)
			}
		}
		properties[param.Name] = property
		if param.Required {
			required = append(required, param.Name)
		}
	}

	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}
