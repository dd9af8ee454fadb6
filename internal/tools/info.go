package tools

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/upskilling-lab/mcp-toolserver/internal/registry"
)

// GetServerInfo reports process runtime details and the SQL configuration
// status for monitoring and debugging
func (ts *Toolset) GetServerInfo(ctx context.Context, req *registry.Request) (any, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "Unknown"
	}

	active := ts.store.Active()
	envReport := map[string]string{}
	if active.UsernameEnv != "" {
		envReport[active.UsernameEnv] = envPresence(active.UsernameEnv)
	}
	if active.PasswordEnv != "" {
		envReport[active.PasswordEnv] = envPresence(active.PasswordEnv)
	}

	return map[string]any{
		"server_type":           "mcp-toolserver",
		"go_version":            runtime.Version(),
		"hostname":              hostname,
		"pid":                   os.Getpid(),
		"num_goroutine":         runtime.NumGoroutine(),
		"uptime_seconds":        int64(time.Since(ts.started).Seconds()),
		"sql_config":            active.Name,
		"environment_variables": envReport,
	}, nil
}
