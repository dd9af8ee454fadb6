// Package mcpserver exposes the registered tools over the Model Context
// Protocol, on stdio for subprocess clients and as a streamable HTTP
// handler mounted under the REST router.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/upskilling-lab/mcp-toolserver/internal/dispatch"
	mcpErrors "github.com/upskilling-lab/mcp-toolserver/pkg/errors"
)

const serverName = "mcp-toolserver"

// Dispatcher is the execution entry point the protocol server delegates to
type Dispatcher interface {
	Dispatch(ctx context.Context, req *dispatch.Request) *dispatch.Result
	Tools() []dispatch.ToolSummary
}

// MCPServer adapts the dispatcher to the MCP protocol. Every tool call
// received over the protocol goes through the same dispatch path as the
// REST endpoints.
type MCPServer struct {
	server *mcp.Server
}

// New creates an MCPServer with every dispatcher tool registered
func New(dispatcher Dispatcher, version string) *MCPServer {
	server := mcp.NewServer(
		&mcp.Implementation{Name: serverName, Version: version},
		nil,
	)
	for _, tool := range dispatcher.Tools() {
		registerTool(server, dispatcher, tool)
	}
	return &MCPServer{server: server}
}

func registerTool(server *mcp.Server, dispatcher Dispatcher, tool dispatch.ToolSummary) {
	server.AddTool(&mcp.Tool{
		Name:        tool.Name,
		Description: tool.Description,
		InputSchema: inputSchema(tool.Schema),
	}, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args map[string]any
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return errorResult(mcpErrors.ErrCodeInvalidArguments,
					fmt.Sprintf("failed to decode arguments: %v", err)), nil
			}
		}

		result := dispatcher.Dispatch(ctx, &dispatch.Request{
			Tool:      tool.Name,
			Arguments: args,
			RequestID: uuid.NewString(),
			Transport: "mcp",
		})
		if result.Failed() {
			return errorResult(result.Kind, result.Message), nil
		}
		return jsonResult(result.Payload)
	})
}

// jsonResult renders a tool payload as JSON text content
func jsonResult(payload any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}

// errorResult reports a dispatch failure as a tool error. The text carries
// the error envelope so protocol clients still see the failure kind.
func errorResult(kind mcpErrors.ErrorCode, message string) *mcp.CallToolResult {
	data, err := json.Marshal(map[string]string{
		"kind":    string(kind),
		"message": message,
	})
	if err != nil {
		data = []byte(message)
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}
}

// Run serves the MCP protocol on stdin/stdout until the context is done
func (s *MCPServer) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler returns the streamable HTTP form of the protocol server
func (s *MCPServer) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return s.server
	}, nil)
}
