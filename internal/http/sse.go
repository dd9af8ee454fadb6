package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/upskilling-lab/mcp-toolserver/internal/dispatch"
	"github.com/upskilling-lab/mcp-toolserver/internal/validator"
	mcpErrors "github.com/upskilling-lab/mcp-toolserver/pkg/errors"
)

// sseHeaders marks the response as an event stream before the first write
func sseHeaders(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
}

// writeEvent writes one data-only SSE frame and flushes it, so the client
// sees each phase as it happens rather than a buffered batch at the end.
func writeEvent(c *gin.Context, payload gin.H) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal stream event", "error", err)
		return
	}
	fmt.Fprintf(c.Writer, "data: %s\n\n", data)
	c.Writer.Flush()
}

// streamReject answers a request that never reached the dispatcher with a
// single error event, keeping the body SSE-formatted even on rejection.
func streamReject(c *gin.Context, status int, message string) {
	sseHeaders(c)
	c.Status(status)
	writeEvent(c, gin.H{
		"event": "error",
		"error": gin.H{
			"kind":    string(mcpErrors.ErrCodeInvalidArguments),
			"message": message,
		},
	})
}

func eventTime() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// StreamTool executes one tool call and streams its phases as SSE events:
// start, then result (carrying either the payload or the failure), then end.
func (h *Handler) StreamTool(c *gin.Context) {
	var req CallToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		streamReject(c, http.StatusBadRequest, err.Error())
		return
	}

	// Validate request
	if err := validator.ValidateRequest(req.Tool, req.Arguments); err != nil {
		streamReject(c, http.StatusBadRequest, err.Error())
		return
	}

	sseHeaders(c)

	writeEvent(c, gin.H{
		"event":      "start",
		"tool":       req.Tool,
		"request_id": requestID(c),
		"timestamp":  eventTime(),
	})

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()

	start := time.Now()
	result := h.dispatcher.Dispatch(ctx, &dispatch.Request{
		Tool:      req.Tool,
		Arguments: argumentMap(req.Arguments),
		RequestID: requestID(c),
		Transport: "sse",
	})

	event := gin.H{
		"event":     "result",
		"tool":      req.Tool,
		"timestamp": eventTime(),
	}
	if result.Failed() {
		event["error"] = gin.H{
			"kind":    string(result.Kind),
			"message": result.Message,
		}
	} else {
		event["result"] = result.Payload
	}
	writeEvent(c, event)

	writeEvent(c, gin.H{
		"event":       "end",
		"tool":        req.Tool,
		"duration_ms": time.Since(start).Milliseconds(),
		"timestamp":   eventTime(),
	})
}

// StreamInfo describes the streaming endpoint for clients probing it with GET
func (h *Handler) StreamInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"message":       "SSE endpoint is available",
		"server_name":   "mcp-toolserver",
		"endpoint_type": "Server-Sent Events (SSE)",
		"usage": gin.H{
			"description":  "Send POST requests to execute tools with streamed responses",
			"content_type": "text/event-stream",
			"format":       "SSE format with data: prefixed JSON",
		},
	})
}
