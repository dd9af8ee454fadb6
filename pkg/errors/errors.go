package errors

import "errors"

type ErrorCode string

const (
	ErrCodeUnknownTool      ErrorCode = "UnknownTool"
	ErrCodeInvalidArguments ErrorCode = "InvalidArguments"
	ErrCodeUnknownProfile   ErrorCode = "UnknownProfile"
	ErrCodeUnsafeQuery      ErrorCode = "UnsafeQuery"
	ErrCodeHandlerError     ErrorCode = "HandlerError"
	ErrCodeTimeout          ErrorCode = "Timeout"
	ErrCodeInternal         ErrorCode = "Internal"
)

var (
	ErrUnknownTool      = errors.New("unknown tool")
	ErrInvalidArguments = errors.New("invalid arguments")
	ErrUnknownProfile   = errors.New("unknown profile")
	ErrUnsafeQuery      = errors.New("unsafe query")
)
