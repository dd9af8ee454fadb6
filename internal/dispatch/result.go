package dispatch

import (
	mcpErrors "github.com/upskilling-lab/mcp-toolserver/pkg/errors"
)

// Result is the outcome of a dispatched tool call. Exactly one of Payload
// or (Kind, Message) is meaningful: a zero Kind marks success.
type Result struct {
	Payload any
	Kind    mcpErrors.ErrorCode
	Message string
}

// Success wraps a handler payload into a successful Result
func Success(payload any) *Result {
	return &Result{Payload: payload}
}

// Failure builds a failed Result with the given error kind
func Failure(kind mcpErrors.ErrorCode, message string) *Result {
	return &Result{Kind: kind, Message: message}
}

// Failed reports whether the call produced an error
func (r *Result) Failed() bool {
	return r.Kind != ""
}

// Envelope renders the wire form: {"result": ...} on success,
// {"error": {"kind": ..., "message": ...}} on failure.
func (r *Result) Envelope() map[string]any {
	if r.Failed() {
		return map[string]any{
			"error": map[string]any{
				"kind":    string(r.Kind),
				"message": r.Message,
			},
		}
	}
	return map[string]any{"result": r.Payload}
}
