package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

// requestID returns the correlation ID assigned by the router middleware
func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// SetupRouter configures the Gin engine and routes. A non-nil mcpHandler is
// mounted at /mcp and serves the streamable MCP protocol alongside the REST
// endpoints.
func SetupRouter(handler *Handler, mcpHandler http.Handler) *gin.Engine {
	// Create Gin instance
	r := gin.New()

	// Middleware
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		const maxBodySize = 100 * 1024 // 100KB
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	})

	// Routes
	r.POST("/mcp/call", handler.CallTool)
	r.GET("/mcp/tools", handler.GetTools)
	r.POST("/mcp/stream", handler.StreamTool)
	r.GET("/mcp/stream", handler.StreamInfo)
	r.GET("/health", handler.Health)

	if mcpHandler != nil {
		r.Any("/mcp", gin.WrapH(mcpHandler))
	}

	return r
}
