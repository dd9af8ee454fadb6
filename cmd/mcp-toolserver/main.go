package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/upskilling-lab/mcp-toolserver/internal/audit"
	"github.com/upskilling-lab/mcp-toolserver/internal/config"
	"github.com/upskilling-lab/mcp-toolserver/internal/dispatch"
	"github.com/upskilling-lab/mcp-toolserver/internal/http"
	"github.com/upskilling-lab/mcp-toolserver/internal/mcpserver"
	"github.com/upskilling-lab/mcp-toolserver/internal/mssql"
	"github.com/upskilling-lab/mcp-toolserver/internal/registry"
	"github.com/upskilling-lab/mcp-toolserver/internal/sqlconfig"
	"github.com/upskilling-lab/mcp-toolserver/internal/tools"
)

const version = "1.0.0"

func main() {
	// Parse flags
	stdio := flag.Bool("stdio", false, "serve the MCP protocol on stdin/stdout instead of HTTP")
	flag.Parse()

	// Setup logger. In stdio mode stdout carries the protocol stream, so
	// logs go to stderr.
	logOut := io.Writer(os.Stdout)
	if *stdio {
		logOut = os.Stderr
	}
	setupLogger(os.Getenv("LOG_LEVEL"), logOut)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	explicitPath := configPath != ""
	if !explicitPath {
		configPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		if !explicitPath && errors.Is(err, fs.ErrNotExist) {
			slog.Info("No config file found, using built-in defaults", "path", configPath)
			cfg = config.Default()
		} else {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Info("Loaded configuration", "path", configPath)
	}

	// The config log level applies unless LOG_LEVEL overrides it
	if cfg.Log.Level != "" && os.Getenv("LOG_LEVEL") == "" {
		setupLogger(cfg.Log.Level, logOut)
	}

	// Build the SQL profile store
	store, err := sqlconfig.NewStore(cfg.SQL)
	if err != nil {
		slog.Error("Failed to build SQL profile store", "error", err)
		os.Exit(1)
	}

	// Register tools
	reg := registry.New()
	toolset := tools.NewToolset(mssql.NewClient(), store)
	if err := tools.Register(reg, toolset); err != nil {
		slog.Error("Failed to register tools", "error", err)
		os.Exit(1)
	}

	// Open the audit log if configured
	var auditLogger audit.Logger
	var auditStore *audit.SQLiteLogger
	if cfg.Audit.Path != "" {
		auditStore, err = audit.OpenSQLite(cfg.Audit.Path)
		if err != nil {
			slog.Error("Failed to open audit log", "error", err, "path", cfg.Audit.Path)
			os.Exit(1)
		}
		auditLogger = auditStore
		slog.Info("Audit log enabled", "path", cfg.Audit.Path)
	}

	dispatcher := dispatch.New(reg, store, auditLogger)
	mcpServer := mcpserver.New(dispatcher, version)

	slog.Info("Tools registered",
		"count", len(dispatcher.Tools()),
		"active_profile", dispatcher.ActiveProfile())

	if *stdio {
		runStdio(mcpServer, auditStore)
		return
	}

	// Start the reachability prober for the health endpoint
	prober := mssql.NewProber(store, 30*time.Second)
	prober.Start(context.Background())

	// Setup HTTP server
	requestTimeout := time.Duration(cfg.Server.RequestTimeout) * time.Millisecond
	handler := http.NewHandler(dispatcher, prober, requestTimeout)
	router := http.SetupRouter(handler, mcpServer.HTTPHandler())

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = strconv.Itoa(cfg.Server.Port)
	}

	serverManager := http.NewServerManager(router, port)
	serverErr := make(chan error, 1)
	go func() {
		if err := serverManager.Start(); err != nil {
			slog.Error("Server failed", "error", err)
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		slog.Info("Shutting down server...")
		if err := serverManager.Shutdown(); err != nil {
			slog.Error("Failed to shutdown server", "error", err)
		}
	case err := <-serverErr:
		slog.Error("Server startup failed", "error", err)
		prober.Stop()
		closeAudit(auditStore)
		os.Exit(1)
	}

	// Cleanup
	prober.Stop()
	closeAudit(auditStore)

	slog.Info("Server exited")
}

// runStdio serves the MCP protocol on stdin/stdout until the client
// disconnects or a shutdown signal arrives.
func runStdio(server *mcpserver.MCPServer, auditStore *audit.SQLiteLogger) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("Serving MCP on stdio")
	err := server.Run(ctx)
	closeAudit(auditStore)
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("MCP server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server exited")
}

func closeAudit(auditStore *audit.SQLiteLogger) {
	if auditStore == nil {
		return
	}
	if err := auditStore.Close(); err != nil {
		slog.Error("Error closing audit log", "error", err)
	}
}

func setupLogger(level string, out io.Writer) {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	switch level {
	case "DEBUG":
		opts.Level = slog.LevelDebug
	case "WARN":
		opts.Level = slog.LevelWarn
	case "ERROR":
		opts.Level = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(out, opts))
	slog.SetDefault(logger)
}
