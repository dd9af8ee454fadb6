package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ServerManager owns the HTTP server lifecycle
type ServerManager struct {
	server *http.Server
}

// NewServerManager creates a ServerManager listening on the given port
func NewServerManager(router *gin.Engine, port string) *ServerManager {
	return &ServerManager{
		server: &http.Server{
			Addr:              ":" + port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start runs the server until Shutdown is called. A graceful shutdown is
// not an error.
func (sm *ServerManager) Start() error {
	slog.Info("Starting server", "addr", sm.server.Addr)
	if err := sm.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown stops accepting new connections and waits up to 10 seconds for
// in-flight requests to finish.
func (sm *ServerManager) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sm.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
