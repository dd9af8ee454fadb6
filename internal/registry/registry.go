package registry

import (
	"context"
	"fmt"
	"regexp"

	"github.com/upskilling-lab/mcp-toolserver/internal/sqlconfig"
	mcpErrors "github.com/upskilling-lab/mcp-toolserver/pkg/errors"
)

// ParamType is the declared type of a tool parameter
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeInteger ParamType = "integer"
	TypeBoolean ParamType = "boolean"
	TypeObject  ParamType = "object"
)

// ParamSpec declares a single parameter of a tool
type ParamSpec struct {
	Name        string    `json:"name"`
	Type        ParamType `json:"type"`
	Description string    `json:"description,omitempty"`
	Required    bool      `json:"required"`
	Default     any       `json:"default,omitempty"`
}

// Request carries one validated tool invocation into a handler.
// Args contains only declared parameters with defaults filled in.
// Profile is the resolved active SQL profile for SQL-executing tools, nil otherwise.
type Request struct {
	Tool      string
	RequestID string
	Args      map[string]any
	Profile   *sqlconfig.Profile
}

// HandlerFunc executes a tool invocation
type HandlerFunc func(ctx context.Context, req *Request) (any, error)

// Descriptor describes a registered tool. Immutable after registration.
// SQL marks tools that resolve the active profile per call; QueryParam names
// the parameter carrying caller-supplied SQL text, if any.
type Descriptor struct {
	Name        string
	Description string
	Params      []ParamSpec
	SQL         bool
	QueryParam  string
	Handler     HandlerFunc
}

var toolNamePattern = regexp.MustCompile(`^[a-zA-Z0-9-_]+$`)

// Registry maps tool names to descriptors. All registration happens during
// startup, before the first dispatch; lookups after that are read-only, so
// no locking is needed.
type Registry struct {
	tools map[string]*Descriptor
	order []string
}

// New creates an empty Registry
func New() *Registry {
	return &Registry{
		tools: make(map[string]*Descriptor),
	}
}

// Register adds a tool descriptor. Registering a duplicate or invalid name
// is a configuration error and the caller is expected to treat it as fatal.
func (r *Registry) Register(d *Descriptor) error {
	if d == nil || d.Handler == nil {
		return fmt.Errorf("tool descriptor requires a handler")
	}
	if !toolNamePattern.MatchString(d.Name) || len(d.Name) > 100 {
		return fmt.Errorf("invalid tool name: %q", d.Name)
	}
	if _, exists := r.tools[d.Name]; exists {
		return fmt.Errorf("duplicate tool name found: %s", d.Name)
	}
	if d.QueryParam != "" && !d.SQL {
		return fmt.Errorf("tool %s declares a query parameter but is not SQL-executing", d.Name)
	}
	r.tools[d.Name] = d
	r.order = append(r.order, d.Name)
	return nil
}

// Resolve returns the descriptor for a tool name
func (r *Registry) Resolve(name string) (*Descriptor, error) {
	d, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", mcpErrors.ErrUnknownTool, name)
	}
	return d, nil
}

// List returns all descriptors in registration order
func (r *Registry) List() []*Descriptor {
	tools := make([]*Descriptor, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}
	return tools
}
