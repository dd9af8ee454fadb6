// Package tools implements the built-in tool handlers and their
// registration. Handlers receive validated arguments and, for
// profile-bound tools, the resolved active SQL profile.
package tools

import (
	"context"
	"time"

	"github.com/upskilling-lab/mcp-toolserver/internal/mssql"
	"github.com/upskilling-lab/mcp-toolserver/internal/sqlconfig"
)

// QueryRunner executes a single statement against a SQL Server profile
type QueryRunner interface {
	Query(ctx context.Context, profile *sqlconfig.Profile, query string, args ...any) (*mssql.Result, error)
}

// Toolset bundles the dependencies shared by the built-in tool handlers
type Toolset struct {
	runner  QueryRunner
	store   *sqlconfig.Store
	started time.Time
}

// NewToolset creates a Toolset backed by the given query runner and
// profile store
func NewToolset(runner QueryRunner, store *sqlconfig.Store) *Toolset {
	return &Toolset{
		runner:  runner,
		store:   store,
		started: time.Now(),
	}
}
