package http

import (
	"context"

	"github.com/upskilling-lab/mcp-toolserver/internal/dispatch"
	"github.com/upskilling-lab/mcp-toolserver/internal/mssql"
)

// mockDispatcher implements DispatcherInterface for testing.
type mockDispatcher struct {
	dispatchFunc      func(ctx context.Context, req *dispatch.Request) *dispatch.Result
	toolsFunc         func() []dispatch.ToolSummary
	activeProfileFunc func() string
}

// NewMockDispatcher creates a new mock Dispatcher.
func NewMockDispatcher() *mockDispatcher {
	return &mockDispatcher{}
}

// Dispatch implements DispatcherInterface.
func (m *mockDispatcher) Dispatch(ctx context.Context, req *dispatch.Request) *dispatch.Result {
	if m.dispatchFunc != nil {
		return m.dispatchFunc(ctx, req)
	}
	return dispatch.Success(nil)
}

// Tools implements DispatcherInterface.
func (m *mockDispatcher) Tools() []dispatch.ToolSummary {
	if m.toolsFunc != nil {
		return m.toolsFunc()
	}
	return []dispatch.ToolSummary{}
}

// ActiveProfile implements DispatcherInterface.
func (m *mockDispatcher) ActiveProfile() string {
	if m.activeProfileFunc != nil {
		return m.activeProfileFunc()
	}
	return ""
}

// OnDispatch sets the behavior for Dispatch.
func (m *mockDispatcher) OnDispatch(fn func(ctx context.Context, req *dispatch.Request) *dispatch.Result) *mockDispatcher {
	m.dispatchFunc = fn
	return m
}

// OnTools sets the behavior for Tools.
func (m *mockDispatcher) OnTools(fn func() []dispatch.ToolSummary) *mockDispatcher {
	m.toolsFunc = fn
	return m
}

// OnActiveProfile sets the behavior for ActiveProfile.
func (m *mockDispatcher) OnActiveProfile(fn func() string) *mockDispatcher {
	m.activeProfileFunc = fn
	return m
}

// mockProber implements ReachabilityInterface for testing.
type mockProber struct {
	state mssql.ProberState
}

// NewMockProber creates a new mock Prober.
func NewMockProber() *mockProber {
	return &mockProber{
		state: mssql.ProberState{Status: mssql.StatusUnknown},
	}
}

// State implements ReachabilityInterface.
func (m *mockProber) State() mssql.ProberState {
	return m.state
}

// WithState sets the reachability snapshot returned by the mock.
func (m *mockProber) WithState(state mssql.ProberState) *mockProber {
	m.state = state
	return m
}
