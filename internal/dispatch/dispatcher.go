package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/upskilling-lab/mcp-toolserver/internal/audit"
	"github.com/upskilling-lab/mcp-toolserver/internal/registry"
	"github.com/upskilling-lab/mcp-toolserver/internal/safety"
	"github.com/upskilling-lab/mcp-toolserver/internal/sqlconfig"
	mcpErrors "github.com/upskilling-lab/mcp-toolserver/pkg/errors"
)

// Request is one tool invocation as received from a transport adapter
type Request struct {
	Tool      string
	Arguments map[string]any
	RequestID string
	Transport string
}

// ToolSummary is the discovery view of a registered tool
type ToolSummary struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Schema      []registry.ParamSpec `json:"schema"`
}

// Dispatcher resolves, validates and executes tool calls. It is stateless
// per call; the only shared state it touches is the profile selector inside
// the configuration store.
type Dispatcher struct {
	registry *registry.Registry
	store    *sqlconfig.Store
	audit    audit.Logger
}

// New creates a Dispatcher. A nil audit logger disables auditing.
func New(reg *registry.Registry, store *sqlconfig.Store, auditLogger audit.Logger) *Dispatcher {
	if auditLogger == nil {
		auditLogger = audit.Nop{}
	}
	return &Dispatcher{
		registry: reg,
		store:    store,
		audit:    auditLogger,
	}
}

// Tools returns the discovery listing in registration order
func (d *Dispatcher) Tools() []ToolSummary {
	descriptors := d.registry.List()
	tools := make([]ToolSummary, 0, len(descriptors))
	for _, desc := range descriptors {
		schema := desc.Params
		if schema == nil {
			schema = []registry.ParamSpec{}
		}
		tools = append(tools, ToolSummary{
			Name:        desc.Name,
			Description: desc.Description,
			Schema:      schema,
		})
	}
	return tools
}

// ActiveProfile returns the name of the currently selected SQL profile
func (d *Dispatcher) ActiveProfile() string {
	return d.store.ActiveName()
}

// Dispatch executes one tool call and always returns a well-formed Result;
// application failures come back as failure results, never as raw errors.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) *Result {
	start := time.Now()
	result := d.dispatch(ctx, req)
	duration := time.Since(start)

	if result.Failed() {
		slog.Warn("Tool call failed",
			"tool", req.Tool,
			"request_id", req.RequestID,
			"kind", result.Kind,
			"duration_ms", duration.Milliseconds())
	} else {
		slog.Info("Tool call completed",
			"tool", req.Tool,
			"request_id", req.RequestID,
			"duration_ms", duration.Milliseconds())
	}

	d.audit.LogAsync(&audit.Entry{
		Tool:       req.Tool,
		Transport:  req.Transport,
		RequestID:  req.RequestID,
		Arguments:  marshalArguments(req.Arguments),
		Error:      result.Message,
		DurationMs: duration.Milliseconds(),
	})

	return result
}

func (d *Dispatcher) dispatch(ctx context.Context, req *Request) *Result {
	desc, err := d.registry.Resolve(req.Tool)
	if err != nil {
		return Failure(mcpErrors.ErrCodeUnknownTool, err.Error())
	}

	args, err := registry.ValidateArgs(desc.Params, req.Arguments)
	if err != nil {
		return Failure(mcpErrors.ErrCodeInvalidArguments, err.Error())
	}

	handlerReq := &registry.Request{
		Tool:      desc.Name,
		RequestID: req.RequestID,
		Args:      args,
	}

	if desc.SQL {
		// The selector lock is released before any handler I/O
		handlerReq.Profile = d.store.Active()

		if desc.QueryParam != "" {
			query, _ := args[desc.QueryParam].(string)
			if err := safety.Check(query); err != nil {
				return Failure(mcpErrors.ErrCodeUnsafeQuery, err.Error())
			}
		}
	}

	payload, err := d.invoke(ctx, desc.Handler, handlerReq)
	if err != nil {
		return failureFromError(err)
	}

	return Success(payload)
}

// invoke runs the handler, converting panics into errors so no fault
// escapes to the transport layer
func (d *Dispatcher) invoke(ctx context.Context, handler registry.HandlerFunc, req *registry.Request) (payload any, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Tool handler panicked", "tool", req.Tool, "panic", r)
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler(ctx, req)
}

func failureFromError(err error) *Result {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Failure(mcpErrors.ErrCodeTimeout, err.Error())
	case errors.Is(err, mcpErrors.ErrInvalidArguments):
		return Failure(mcpErrors.ErrCodeInvalidArguments, err.Error())
	case errors.Is(err, mcpErrors.ErrUnknownProfile):
		return Failure(mcpErrors.ErrCodeUnknownProfile, err.Error())
	case errors.Is(err, mcpErrors.ErrUnsafeQuery):
		return Failure(mcpErrors.ErrCodeUnsafeQuery, err.Error())
	default:
		return Failure(mcpErrors.ErrCodeHandlerError, err.Error())
	}
}

func marshalArguments(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	data, err := json.Marshal(args)
	if err != nil {
		return "{}"
	}
	return string(data)
}
