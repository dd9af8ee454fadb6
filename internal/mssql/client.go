package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/upskilling-lab/mcp-toolserver/internal/sqlconfig"
)

// Result holds the rows of one query in column order plus row objects
// ready for JSON serialization.
type Result struct {
	Columns []string
	Rows    []map[string]any
}

// Client executes queries against SQL Server. Each call opens its own
// connection from the active profile and closes it when done; nothing is
// shared between invocations.
type Client struct{}

// NewClient creates a Client
func NewClient() *Client {
	return &Client{}
}

// Query runs a single statement against the profile's server. Credentials
// are resolved from the environment for this attempt only, and the
// profile's timeout bounds the whole call.
func (c *Client) Query(ctx context.Context, profile *sqlconfig.Profile, query string, args ...any) (*Result, error) {
	creds := profile.ResolveCredentials()
	dsn := BuildDSN(profile, creds)

	db, err := sql.Open(DriverName(profile), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Warn("Failed to close connection", "profile", profile.Name, "error", err)
		}
	}()

	if profile.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, profile.Timeout)
		defer cancel()
	}

	slog.Debug("Executing query", "profile", profile.Name, "auth", profile.Auth)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

func scanRows(rows *sql.Rows) (*Result, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	result := &Result{
		Columns: columns,
		Rows:    []map[string]any{},
	}

	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			// Drivers return text columns as []byte
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return result, nil
}
