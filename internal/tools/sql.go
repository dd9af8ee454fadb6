package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/upskilling-lab/mcp-toolserver/internal/mssql"
	"github.com/upskilling-lab/mcp-toolserver/internal/registry"
)

const networkProbeTimeout = 10 * time.Second

const tableListQuery = `SELECT TABLE_SCHEMA, TABLE_NAME, TABLE_TYPE
FROM INFORMATION_SCHEMA.TABLES
WHERE TABLE_TYPE = 'BASE TABLE'
ORDER BY TABLE_SCHEMA, TABLE_NAME`

const tableSchemaQuery = `SELECT COLUMN_NAME, DATA_TYPE, IS_NULLABLE, CHARACTER_MAXIMUM_LENGTH,
       NUMERIC_PRECISION, NUMERIC_SCALE, COLUMN_DEFAULT, ORDINAL_POSITION
FROM INFORMATION_SCHEMA.COLUMNS
WHERE TABLE_NAME = @p1 AND TABLE_SCHEMA = @p2
ORDER BY ORDINAL_POSITION`

// TestNetworkConnectivity checks TCP reachability of the active profile's
// server without authenticating
func (ts *Toolset) TestNetworkConnectivity(ctx context.Context, req *registry.Request) (any, error) {
	probe := mssql.ProbeTCP(ctx, req.Profile.Server, networkProbeTimeout)

	payload := map[string]any{
		"server":           probe.Host,
		"port":             probe.Port,
		"reachable":        probe.Reachable,
		"response_time_ms": nil,
		"error":            nil,
	}
	if probe.Reachable {
		payload["response_time_ms"] = round2(float64(probe.Elapsed.Microseconds()) / 1000)
	} else if probe.Err != nil {
		payload["error"] = probe.Err.Error()
	}
	return payload, nil
}

// TestSQLConnection opens a connection on the active profile and reads the
// server version. Connection failures are reported in the payload so the
// caller sees the diagnostic detail alongside the profile identity.
func (ts *Toolset) TestSQLConnection(ctx context.Context, req *registry.Request) (any, error) {
	profile := req.Profile

	result, err := ts.runner.Query(ctx, profile,
		"SELECT @@VERSION as server_version, DB_NAME() as database_name")
	if err != nil {
		return map[string]any{
			"status":              "error",
			"connected":           false,
			"error":               err.Error(),
			"server":              profile.Server,
			"database":            profile.Database,
			"authentication_type": profile.Auth,
		}, nil
	}

	serverVersion := "Unknown"
	databaseName := "Unknown"
	if len(result.Rows) > 0 {
		if v, ok := result.Rows[0]["server_version"].(string); ok {
			serverVersion = v
		}
		if v, ok := result.Rows[0]["database_name"].(string); ok {
			databaseName = v
		}
	}

	return map[string]any{
		"status":              "success",
		"connected":           true,
		"server_version":      serverVersion,
		"database_name":       databaseName,
		"server":              profile.Server,
		"database":            profile.Database,
		"authentication_type": profile.Auth,
	}, nil
}

type queryInput struct {
	Query string `json:"query"`
}

// QuerySQLServer runs a caller-supplied SELECT against the active profile.
// The dispatcher has already passed the text through the safety filter.
func (ts *Toolset) QuerySQLServer(ctx context.Context, req *registry.Request, input queryInput) (any, error) {
	result, err := ts.runner.Query(ctx, req.Profile, input.Query)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"status":              "success",
		"row_count":           len(result.Rows),
		"columns":             result.Columns,
		"data":                result.Rows,
		"authentication_used": req.Profile.Auth,
	}, nil
}

// GetTableList lists the base tables of the active profile's database
func (ts *Toolset) GetTableList(ctx context.Context, req *registry.Request) (any, error) {
	result, err := ts.runner.Query(ctx, req.Profile, tableListQuery)
	if err != nil {
		return nil, err
	}

	tables := make([]map[string]any, 0, len(result.Rows))
	for _, row := range result.Rows {
		schema, _ := row["TABLE_SCHEMA"].(string)
		name, _ := row["TABLE_NAME"].(string)
		tables = append(tables, map[string]any{
			"schema":     schema,
			"table_name": name,
			"table_type": row["TABLE_TYPE"],
			"full_name":  fmt.Sprintf("%s.%s", schema, name),
		})
	}

	return map[string]any{
		"status":      "success",
		"table_count": len(tables),
		"tables":      tables,
	}, nil
}

type tableSchemaInput struct {
	TableName  string `json:"table_name"`
	SchemaName string `json:"schema_name"`
}

// GetTableSchema describes the columns of one table in ordinal order
func (ts *Toolset) GetTableSchema(ctx context.Context, req *registry.Request, input tableSchemaInput) (any, error) {
	result, err := ts.runner.Query(ctx, req.Profile, tableSchemaQuery, input.TableName, input.SchemaName)
	if err != nil {
		return nil, err
	}

	fullName := fmt.Sprintf("%s.%s", input.SchemaName, input.TableName)
	if len(result.Rows) == 0 {
		return nil, fmt.Errorf("table '%s' not found", fullName)
	}

	columns := make([]map[string]any, 0, len(result.Rows))
	for _, row := range result.Rows {
		columns = append(columns, map[string]any{
			"column_name":       row["COLUMN_NAME"],
			"data_type":         row["DATA_TYPE"],
			"is_nullable":       row["IS_NULLABLE"],
			"max_length":        row["CHARACTER_MAXIMUM_LENGTH"],
			"numeric_precision": row["NUMERIC_PRECISION"],
			"numeric_scale":     row["NUMERIC_SCALE"],
			"default_value":     row["COLUMN_DEFAULT"],
			"position":          row["ORDINAL_POSITION"],
		})
	}

	return map[string]any{
		"status":       "success",
		"table_name":   fullName,
		"column_count": len(columns),
		"columns":      columns,
	}, nil
}
