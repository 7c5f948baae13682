package quizapi

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	requestIDKey contextKey = "quizapi_request_id"
	callInfoKey  contextKey = "quizapi_call_info"
)

// RequestIDHeader carries the request id to the service.
const RequestIDHeader = "X-Request-ID"

// WithRequestID attaches a request id to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom extracts the request id from the context, or "".
func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// ensureRequestID returns ctx carrying a request id, generating one if absent.
func ensureRequestID(ctx context.Context) (context.Context, string) {
	if id := RequestIDFrom(ctx); id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return WithRequestID(ctx, id), id
}

// CallInfo is filled in by Client with transport details of one call.
type CallInfo struct {
	RequestID     string
	StatusCode    int
	RequestBytes  int
	ResponseBytes int
}

// WithCallInfo returns a context that makes Client report into info.
func WithCallInfo(ctx context.Context, info *CallInfo) context.Context {
	return context.WithValue(ctx, callInfoKey, info)
}

func callInfoFrom(ctx context.Context) *CallInfo {
	if v, ok := ctx.Value(callInfoKey).(*CallInfo); ok {
		return v
	}
	return nil
}
