package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/upskilling-lab/mcp-toolserver/internal/dispatch"
	"github.com/upskilling-lab/mcp-toolserver/internal/mssql"
	"github.com/upskilling-lab/mcp-toolserver/internal/validator"
	mcpErrors "github.com/upskilling-lab/mcp-toolserver/pkg/errors"
)

type Handler struct {
	dispatcher     DispatcherInterface
	prober         ReachabilityInterface
	requestTimeout time.Duration
	startTime      time.Time
}

func NewHandler(dispatcher DispatcherInterface, prober ReachabilityInterface, requestTimeout time.Duration) *Handler {
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	return &Handler{
		dispatcher:     dispatcher,
		prober:         prober,
		requestTimeout: requestTimeout,
		startTime:      time.Now(),
	}
}

type CallToolRequest struct {
	Tool      string `json:"tool"`
	Arguments any    `json:"arguments"`
}

// rejectRequest answers a request that never reached the dispatcher. These
// are transport rejections, so they carry an HTTP error status instead of
// the 200 the dispatcher's own failure envelopes get.
func rejectRequest(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"kind":    string(mcpErrors.ErrCodeInvalidArguments),
			"message": message,
		},
	})
}

// argumentMap converts the bound arguments to the dispatcher's map form.
// ValidateRequest has already rejected anything that is not a JSON object
// or absent.
func argumentMap(arguments any) map[string]any {
	args, _ := arguments.(map[string]any)
	return args
}

func (h *Handler) CallTool(c *gin.Context) {
	var req CallToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rejectRequest(c, http.StatusBadRequest, err.Error())
		return
	}

	// Validate request
	if err := validator.ValidateRequest(req.Tool, req.Arguments); err != nil {
		rejectRequest(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()

	result := h.dispatcher.Dispatch(ctx, &dispatch.Request{
		Tool:      req.Tool,
		Arguments: argumentMap(req.Arguments),
		RequestID: requestID(c),
		Transport: "http",
	})

	status := http.StatusOK
	if result.Kind == mcpErrors.ErrCodeInternal {
		status = http.StatusInternalServerError
	}
	c.JSON(status, result.Envelope())
}

func (h *Handler) GetTools(c *gin.Context) {
	tools := h.dispatcher.Tools()
	c.JSON(http.StatusOK, gin.H{
		"tools": tools,
		"count": len(tools),
	})
}

func (h *Handler) Health(c *gin.Context) {
	reachability := h.prober.State()
	status := "ok"
	if reachability.Status == mssql.StatusUnreachable {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"uptime": time.Since(h.startTime).Seconds(),
		"tools":  len(h.dispatcher.Tools()),
		"sql": gin.H{
			"active_profile": h.dispatcher.ActiveProfile(),
			"reachability":   reachability,
		},
	})
}
