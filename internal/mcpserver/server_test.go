package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upskilling-lab/mcp-toolserver/internal/dispatch"
	"github.com/upskilling-lab/mcp-toolserver/internal/registry"
	mcpErrors "github.com/upskilling-lab/mcp-toolserver/pkg/errors"
)

type fakeDispatcher struct {
	tools        []dispatch.ToolSummary
	dispatchFunc func(ctx context.Context, req *dispatch.Request) *dispatch.Result
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, req *dispatch.Request) *dispatch.Result {
	if f.dispatchFunc != nil {
		return f.dispatchFunc(ctx, req)
	}
	return dispatch.Success(nil)
}

func (f *fakeDispatcher) Tools() []dispatch.ToolSummary {
	return f.tools
}

// TestNew_RegistersAllTools はツール付きディスパッチャからサーバを構築できることを確認する
func TestNew_RegistersAllTools(t *testing.T) {
	dispatcher := &fakeDispatcher{
		tools: []dispatch.ToolSummary{
			{
				Name:        "greet",
				Description: "Greet a user",
				Schema: []registry.ParamSpec{
					{Name: "name", Type: registry.TypeString, Required: true},
				},
			},
			{
				Name:        "get_server_info",
				Description: "Server runtime information",
				Schema:      []registry.ParamSpec{},
			},
		},
	}

	server := New(dispatcher, "1.0.0")
	require.NotNil(t, server)
	assert.NotNil(t, server.HTTPHandler())
}

// TestInputSchema_PropertiesAndRequired verifies the schema derived from
// parameter specs.
func TestInputSchema_PropertiesAndRequired(t *testing.T) {
	schema := inputSchema([]registry.ParamSpec{
		{Name: "weight_kg", Type: registry.TypeNumber, Description: "Weight in kilograms", Required: true},
		{Name: "height_m", Type: registry.TypeNumber, Description: "Height in meters", Required: true},
		{Name: "resource_type", Type: registry.TypeString, Default: "all"},
	})

	require.NotNil(t, schema)
	assert.Equal(t, "object", schema.Type)
	assert.Equal(t, []string{"weight_kg", "height_m"}, schema.Required)

	require.Contains(t, schema.Properties, "weight_kg")
	assert.Equal(t, "number", schema.Properties["weight_kg"].Type)
	assert.Equal(t, "Weight in kilograms", schema.Properties["weight_kg"].Description)

	require.Contains(t, schema.Properties, "resource_type")
	assert.Equal(t, json.RawMessage(`"all"`), schema.Properties["resource_type"].Default)
}

// TestInputSchema_NoParameters verifies that a tool without parameters still
// advertises an object schema.
func TestInputSchema_NoParameters(t *testing.T) {
	schema := inputSchema(nil)

	require.NotNil(t, schema)
	assert.Equal(t, "object", schema.Type)
	assert.Empty(t, schema.Properties)
	assert.Empty(t, schema.Required)
}

// TestInputSchema_Serialization verifies the schema marshals into the wire
// form protocol clients receive.
func TestInputSchema_Serialization(t *testing.T) {
	schema := inputSchema([]registry.ParamSpec{
		{Name: "query", Type: registry.TypeString, Description: "SQL SELECT statement", Required: true},
	})

	data, err := json.Marshal(schema)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "object", decoded["type"])

	properties, ok := decoded["properties"].(map[string]any)
	require.True(t, ok)
	query, ok := properties["query"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", query["type"])

	assert.Equal(t, []any{"query"}, decoded["required"])
}

// TestJSONResult_RendersPayload verifies payload rendering as text content.
func TestJSONResult_RendersPayload(t *testing.T) {
	result, err := jsonResult(map[string]any{"message": "Hello, Ada!"})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)

	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &decoded))
	assert.Equal(t, "Hello, Ada!", decoded["message"])
}

// TestErrorResult_CarriesKind verifies that failures keep their kind visible
// to protocol clients.
func TestErrorResult_CarriesKind(t *testing.T) {
	result := errorResult(mcpErrors.ErrCodeUnsafeQuery, "query rejected: statement contains blocked keyword DROP")

	require.NotNil(t, result)
	assert.True(t, result.IsError)

	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(text.Text), &decoded))
	assert.Equal(t, "UnsafeQuery", decoded["kind"])
	assert.Contains(t, decoded["message"], "DROP")
}
