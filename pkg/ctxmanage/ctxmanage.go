package ctxmanage

import (
	"context"

	"github.com/gin-gonic/gin"
)

type key string

// TraceIdKey is the context key under which the per-request trace id is stored.
const TraceIdKey key = "1"

// WithTraceId returns a context carrying the given trace id.
func WithTraceId(ctx context.Context, traceId string) context.Context {
	return context.WithValue(ctx, TraceIdKey, traceId)
}

// GetTraceIdOfRequest fetches the trace id set by the logger middleware.
func GetTraceIdOfRequest(c *gin.Context) string {
	ctx := c.Request.Context()
	traceId, ok := ctx.Value(TraceIdKey).(string)
	if !ok {
		return "unknown"
	}
	return traceId
}
