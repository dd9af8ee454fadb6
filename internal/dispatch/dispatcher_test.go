package dispatch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upskilling-lab/mcp-toolserver/internal/config"
	"github.com/upskilling-lab/mcp-toolserver/internal/registry"
	"github.com/upskilling-lab/mcp-toolserver/internal/sqlconfig"
	mcpErrors "github.com/upskilling-lab/mcp-toolserver/pkg/errors"
)

func newTestStore(t *testing.T) *sqlconfig.Store {
	t.Helper()
	store, err := sqlconfig.NewStore(config.SQLConfig{
		Active: "alpha",
		Profiles: []config.SQLProfile{
			{Name: "alpha", Server: "alpha.example.com", Database: "master", Auth: "ActiveDirectoryInteractive"},
			{Name: "beta", Server: "beta.example.com", Database: "appdb", Auth: "ActiveDirectoryInteractive"},
		},
	})
	require.NoError(t, err)
	return store
}

func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()

	err := reg.Register(&registry.Descriptor{
		Name:        "greet",
		Description: "Greet a user by name",
		Params: []registry.ParamSpec{
			{Name: "name", Type: registry.TypeString, Required: true},
		},
		Handler: func(ctx context.Context, req *registry.Request) (any, error) {
			return fmt.Sprintf("Hello, %s!", req.Args["name"]), nil
		},
	})
	require.NoError(t, err)

	err = reg.Register(&registry.Descriptor{
		Name:        "run-query",
		Description: "Execute a read-only query",
		Params: []registry.ParamSpec{
			{Name: "query", Type: registry.TypeString, Required: true},
		},
		SQL:        true,
		QueryParam: "query",
		Handler: func(ctx context.Context, req *registry.Request) (any, error) {
			return map[string]any{"profile": req.Profile.Name, "query": req.Args["query"]}, nil
		},
	})
	require.NoError(t, err)

	err = reg.Register(&registry.Descriptor{
		Name:        "show-tables",
		Description: "List tables on the active profile",
		SQL:         true,
		Handler: func(ctx context.Context, req *registry.Request) (any, error) {
			return req.Profile.Name, nil
		},
	})
	require.NoError(t, err)

	err = reg.Register(&registry.Descriptor{
		Name:        "boom",
		Description: "Always panics",
		Handler: func(ctx context.Context, req *registry.Request) (any, error) {
			panic("unexpected state")
		},
	})
	require.NoError(t, err)

	err = reg.Register(&registry.Descriptor{
		Name:        "slow",
		Description: "Simulates a timed-out handler",
		Handler: func(ctx context.Context, req *registry.Request) (any, error) {
			return nil, fmt.Errorf("query aborted: %w", context.DeadlineExceeded)
		},
	})
	require.NoError(t, err)

	err = reg.Register(&registry.Descriptor{
		Name:        "switch-profile",
		Description: "Fails with an unknown profile",
		Handler: func(ctx context.Context, req *registry.Request) (any, error) {
			return nil, fmt.Errorf("switch failed: %w", mcpErrors.ErrUnknownProfile)
		},
	})
	require.NoError(t, err)

	return reg
}

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	return New(newTestRegistry(t), newTestStore(t), nil)
}

func TestDispatcher_Dispatch_Success(t *testing.T) {
	d := newTestDispatcher(t)

	result := d.Dispatch(context.Background(), &Request{
		Tool:      "greet",
		Arguments: map[string]any{"name": "Ada"},
		RequestID: "req-1",
	})

	assert.False(t, result.Failed())
	assert.Equal(t, "Hello, Ada!", result.Payload)
	assert.Empty(t, result.Message)
}

func TestDispatcher_Dispatch_UnknownTool(t *testing.T) {
	d := newTestDispatcher(t)

	result := d.Dispatch(context.Background(), &Request{Tool: "nonexistent"})

	assert.True(t, result.Failed())
	assert.Equal(t, mcpErrors.ErrCodeUnknownTool, result.Kind)
	assert.Contains(t, result.Message, "nonexistent")
}

func TestDispatcher_Dispatch_MissingRequiredArgument(t *testing.T) {
	d := newTestDispatcher(t)

	result := d.Dispatch(context.Background(), &Request{
		Tool:      "greet",
		Arguments: map[string]any{},
	})

	assert.True(t, result.Failed())
	assert.Equal(t, mcpErrors.ErrCodeInvalidArguments, result.Kind)
	assert.Contains(t, result.Message, "name")
}

func TestDispatcher_Dispatch_WrongArgumentType(t *testing.T) {
	d := newTestDispatcher(t)

	result := d.Dispatch(context.Background(), &Request{
		Tool:      "greet",
		Arguments: map[string]any{"name": 42},
	})

	assert.True(t, result.Failed())
	assert.Equal(t, mcpErrors.ErrCodeInvalidArguments, result.Kind)
}

// Unknown parameters are dropped before the handler runs
func TestDispatcher_Dispatch_DropsUnknownArguments(t *testing.T) {
	reg := registry.New()
	var seen map[string]any
	err := reg.Register(&registry.Descriptor{
		Name:        "echo-args",
		Description: "Records validated arguments",
		Params: []registry.ParamSpec{
			{Name: "keep", Type: registry.TypeString, Required: true},
		},
		Handler: func(ctx context.Context, req *registry.Request) (any, error) {
			seen = req.Args
			return nil, nil
		},
	})
	require.NoError(t, err)
	d := New(reg, newTestStore(t), nil)

	result := d.Dispatch(context.Background(), &Request{
		Tool:      "echo-args",
		Arguments: map[string]any{"keep": "yes", "extra": "dropped"},
	})

	assert.False(t, result.Failed())
	assert.Equal(t, map[string]any{"keep": "yes"}, seen)
}

func TestDispatcher_Dispatch_AttachesActiveProfile(t *testing.T) {
	d := newTestDispatcher(t)

	result := d.Dispatch(context.Background(), &Request{
		Tool:      "run-query",
		Arguments: map[string]any{"query": "SELECT 1"},
	})

	require.False(t, result.Failed())
	payload, ok := result.Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alpha", payload["profile"])
}

// Switching the active profile changes what later calls see
func TestDispatcher_Dispatch_SeesProfileSwitch(t *testing.T) {
	store := newTestStore(t)
	d := New(newTestRegistry(t), store, nil)

	_, err := store.SetActive("beta")
	require.NoError(t, err)

	result := d.Dispatch(context.Background(), &Request{Tool: "show-tables"})

	require.False(t, result.Failed())
	assert.Equal(t, "beta", result.Payload)
}

func TestDispatcher_Dispatch_RejectsUnsafeQuery(t *testing.T) {
	d := newTestDispatcher(t)

	result := d.Dispatch(context.Background(), &Request{
		Tool:      "run-query",
		Arguments: map[string]any{"query": "DROP TABLE users"},
	})

	assert.True(t, result.Failed())
	assert.Equal(t, mcpErrors.ErrCodeUnsafeQuery, result.Kind)
	assert.Contains(t, result.Message, "DROP")
}

// The safety filter runs before the handler; a rejected query must not reach it
func TestDispatcher_Dispatch_UnsafeQuerySkipsHandler(t *testing.T) {
	reg := registry.New()
	invoked := false
	err := reg.Register(&registry.Descriptor{
		Name:        "guarded",
		Description: "Guarded query tool",
		Params: []registry.ParamSpec{
			{Name: "query", Type: registry.TypeString, Required: true},
		},
		SQL:        true,
		QueryParam: "query",
		Handler: func(ctx context.Context, req *registry.Request) (any, error) {
			invoked = true
			return nil, nil
		},
	})
	require.NoError(t, err)
	d := New(reg, newTestStore(t), nil)

	result := d.Dispatch(context.Background(), &Request{
		Tool:      "guarded",
		Arguments: map[string]any{"query": "DELETE FROM t"},
	})

	assert.True(t, result.Failed())
	assert.False(t, invoked)
}

func TestDispatcher_Dispatch_HandlerPanic(t *testing.T) {
	d := newTestDispatcher(t)

	result := d.Dispatch(context.Background(), &Request{Tool: "boom"})

	assert.True(t, result.Failed())
	assert.Equal(t, mcpErrors.ErrCodeHandlerError, result.Kind)
	assert.Contains(t, result.Message, "handler panicked")
	assert.Contains(t, result.Message, "unexpected state")
}

func TestDispatcher_Dispatch_DeadlineExceeded(t *testing.T) {
	d := newTestDispatcher(t)

	result := d.Dispatch(context.Background(), &Request{Tool: "slow"})

	assert.True(t, result.Failed())
	assert.Equal(t, mcpErrors.ErrCodeTimeout, result.Kind)
}

func TestDispatcher_Dispatch_UnknownProfileFromHandler(t *testing.T) {
	d := newTestDispatcher(t)

	result := d.Dispatch(context.Background(), &Request{Tool: "switch-profile"})

	assert.True(t, result.Failed())
	assert.Equal(t, mcpErrors.ErrCodeUnknownProfile, result.Kind)
}

func TestDispatcher_Dispatch_HandlerError(t *testing.T) {
	reg := registry.New()
	err := reg.Register(&registry.Descriptor{
		Name:        "failing",
		Description: "Always fails",
		Handler: func(ctx context.Context, req *registry.Request) (any, error) {
			return nil, errors.New("backend unavailable")
		},
	})
	require.NoError(t, err)
	d := New(reg, newTestStore(t), nil)

	result := d.Dispatch(context.Background(), &Request{Tool: "failing"})

	assert.True(t, result.Failed())
	assert.Equal(t, mcpErrors.ErrCodeHandlerError, result.Kind)
	assert.Equal(t, "backend unavailable", result.Message)
}

func TestDispatcher_Tools(t *testing.T) {
	d := newTestDispatcher(t)

	tools := d.Tools()

	require.Len(t, tools, 6)
	// Registration order is preserved
	assert.Equal(t, "greet", tools[0].Name)
	assert.Equal(t, "run-query", tools[1].Name)
	assert.Equal(t, "Greet a user by name", tools[0].Description)
	// Tools without parameters expose an empty schema, not null
	assert.NotNil(t, tools[2].Schema)
	assert.Len(t, tools[2].Schema, 0)
}

func TestDispatcher_ActiveProfile(t *testing.T) {
	store := newTestStore(t)
	d := New(newTestRegistry(t), store, nil)

	assert.Equal(t, "alpha", d.ActiveProfile())

	_, err := store.SetActive("beta")
	require.NoError(t, err)
	assert.Equal(t, "beta", d.ActiveProfile())
}

func TestResult_Envelope_Success(t *testing.T) {
	result := Success(map[string]any{"bmi": 22.86})

	envelope := result.Envelope()

	assert.Equal(t, map[string]any{"result": map[string]any{"bmi": 22.86}}, envelope)
}

func TestResult_Envelope_Failure(t *testing.T) {
	result := Failure(mcpErrors.ErrCodeUnsafeQuery, "query rejected: contains blocked keyword DROP")

	envelope := result.Envelope()

	assert.Equal(t, map[string]any{
		"error": map[string]any{
			"kind":    "UnsafeQuery",
			"message": "query rejected: contains blocked keyword DROP",
		},
	}, envelope)
}

func TestResult_Envelope_NilPayload(t *testing.T) {
	result := Success(nil)

	envelope := result.Envelope()

	assert.False(t, result.Failed())
	assert.Contains(t, envelope, "result")
}
