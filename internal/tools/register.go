package tools

import (
	"fmt"

	"github.com/upskilling-lab/mcp-toolserver/internal/registry"
)

// Register adds every built-in tool to the registry. Called once at
// startup; any error is a configuration fault and should be fatal.
func Register(reg *registry.Registry, ts *Toolset) error {
	descriptors := []*registry.Descriptor{
		{
			Name:        "calculate_bmi",
			Description: "Calculate BMI given weight in kilograms and height in meters",
			Params: []registry.ParamSpec{
				{Name: "weight_kg", Type: registry.TypeNumber, Description: "Weight in kilograms (must be positive)", Required: true},
				{Name: "height_m", Type: registry.TypeNumber, Description: "Height in meters (must be positive)", Required: true},
			},
			Handler: registry.Typed(ts.CalculateBMI),
		},
		{
			Name:        "get_bmi_resources",
			Description: "Get BMI-related resources and information",
			Params: []registry.ParamSpec{
				{Name: "resource_type", Type: registry.TypeString, Description: "Type of resource to retrieve (all, categories, health-risks, calculation-guide, healthy-weight-tips)", Default: "all"},
			},
			Handler: registry.Typed(ts.GetBMIResources),
		},
		{
			Name:        "greet",
			Description: "Get a personalized greeting",
			Params: []registry.ParamSpec{
				{Name: "name", Type: registry.TypeString, Description: "Name to include in the greeting", Required: true},
			},
			Handler: registry.Typed(ts.Greet),
		},
		{
			Name:        "test_network_connectivity",
			Description: "Test TCP network connectivity to the active SQL Server",
			SQL:         true,
			Handler:     ts.TestNetworkConnectivity,
		},
		{
			Name:        "test_sql_connection",
			Description: "Test the SQL Server connection and return connection status",
			SQL:         true,
			Handler:     ts.TestSQLConnection,
		},
		{
			Name:        "query_sql_server",
			Description: "Execute a read-only SQL SELECT query against the active SQL Server",
			Params: []registry.ParamSpec{
				{Name: "query", Type: registry.TypeString, Description: "SQL SELECT query to execute (must be read-only)", Required: true},
			},
			SQL:        true,
			QueryParam: "query",
			Handler:    registry.Typed(ts.QuerySQLServer),
		},
		{
			Name:        "get_table_list",
			Description: "Get a list of all tables in the current database",
			SQL:         true,
			Handler:     ts.GetTableList,
		},
		{
			Name:        "get_table_schema",
			Description: "Get the schema information for a specific table",
			Params: []registry.ParamSpec{
				{Name: "table_name", Type: registry.TypeString, Description: "Name of the table", Required: true},
				{Name: "schema_name", Type: registry.TypeString, Description: "Schema name", Default: "dbo"},
			},
			SQL:     true,
			Handler: registry.Typed(ts.GetTableSchema),
		},
		{
			Name:        "list_sql_configurations",
			Description: "List all available SQL Server configurations",
			Handler:     ts.ListSQLConfigurations,
		},
		{
			Name:        "set_sql_configuration",
			Description: "Switch to a different SQL Server configuration",
			Params: []registry.ParamSpec{
				{Name: "config_name", Type: registry.TypeString, Description: "Name of the configuration to switch to", Required: true},
			},
			Handler: registry.Typed(ts.SetSQLConfiguration),
		},
		{
			Name:        "get_sql_config_debug",
			Description: "Get detailed SQL Server configuration for debugging",
			SQL:         true,
			Handler:     ts.GetSQLConfigDebug,
		},
		{
			Name:        "get_server_info",
			Description: "Get server runtime information and environment details",
			Handler:     ts.GetServerInfo,
		},
	}

	for _, d := range descriptors {
		if err := reg.Register(d); err != nil {
			return fmt.Errorf("failed to register tool: %w", err)
		}
	}
	return nil
}
