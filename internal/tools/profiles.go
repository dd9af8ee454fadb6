package tools

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/upskilling-lab/mcp-toolserver/internal/mssql"
	"github.com/upskilling-lab/mcp-toolserver/internal/registry"
)

// ListSQLConfigurations lists every profile with the active one flagged
func (ts *Toolset) ListSQLConfigurations(ctx context.Context, req *registry.Request) (any, error) {
	active := ts.store.ActiveName()

	profiles := ts.store.List()
	configurations := make([]map[string]any, 0, len(profiles))
	for _, p := range profiles {
		configurations = append(configurations, map[string]any{
			"key":            p.Name,
			"name":           p.DisplayName,
			"server":         p.Server,
			"database":       p.Database,
			"authentication": p.Auth,
			"description":    p.Description,
			"is_current":     p.Name == active,
		})
	}

	return map[string]any{
		"status":         "success",
		"current_config": active,
		"total_configs":  len(configurations),
		"configurations": configurations,
	}, nil
}

type setConfigurationInput struct {
	ConfigName string `json:"config_name"`
}

// SetSQLConfiguration switches the active profile selector. On an unknown
// name the selector stays untouched and the error carries the profile kind.
func (ts *Toolset) SetSQLConfiguration(ctx context.Context, req *registry.Request, input setConfigurationInput) (any, error) {
	old, err := ts.store.SetActive(input.ConfigName)
	if err != nil {
		return nil, err
	}

	newProfile := ts.store.Active()
	return map[string]any{
		"status":         "success",
		"message":        fmt.Sprintf("SQL configuration switched from '%s' to '%s'", old, input.ConfigName),
		"old_config":     old,
		"new_config":     input.ConfigName,
		"config_details": newProfile.Description,
	}, nil
}

// GetSQLConfigDebug reports the active profile, a redacted connection
// string and whether the referenced credential variables are set. Secret
// values are never included, only their presence.
func (ts *Toolset) GetSQLConfigDebug(ctx context.Context, req *registry.Request) (any, error) {
	profile := req.Profile

	creds := profile.ResolveCredentials()
	connectionString := mssql.BuildDSN(profile, creds)
	if creds.Password != "" {
		connectionString = strings.ReplaceAll(connectionString, creds.Password, "***REDACTED***")
	}

	envReport := map[string]string{}
	if profile.UsernameEnv != "" {
		envReport[profile.UsernameEnv] = envPresence(profile.UsernameEnv)
	}
	if profile.PasswordEnv != "" {
		envReport[profile.PasswordEnv] = envPresence(profile.PasswordEnv)
	}

	return map[string]any{
		"sql_configuration": map[string]any{
			"profile":                  profile.Name,
			"server":                   profile.Server,
			"database":                 profile.Database,
			"authentication_type":      profile.Auth,
			"encrypt":                  profile.Encrypt,
			"trust_server_certificate": profile.TrustServerCertificate,
			"timeout_seconds":          int(profile.Timeout.Seconds()),
		},
		"connection_string":     connectionString,
		"environment_variables": envReport,
	}, nil
}

func envPresence(name string) string {
	if os.Getenv(name) != "" {
		return "SET"
	}
	return "NOT_SET"
}
