package http

import (
	"context"

	"github.com/upskilling-lab/mcp-toolserver/internal/dispatch"
	"github.com/upskilling-lab/mcp-toolserver/internal/mssql"
)

// DispatcherInterface defines the interface for tool dispatch.
// This interface is used for dependency injection in tests.
type DispatcherInterface interface {
	Dispatch(ctx context.Context, req *dispatch.Request) *dispatch.Result
	Tools() []dispatch.ToolSummary
	ActiveProfile() string
}

// ReachabilityInterface defines the interface for SQL Server reachability state.
// This interface is used for dependency injection in tests.
type ReachabilityInterface interface {
	State() mssql.ProberState
}
