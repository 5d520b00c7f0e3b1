package ctxmanage

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TraceIDKey is the gin context key under which the request trace id is stored.
const TraceIDKey = "trace_id"

// SetTraceIdOfRequest attaches a fresh trace id to the request and returns it.
func SetTraceIdOfRequest(c *gin.Context) string {
	traceId := uuid.NewString()
	c.Set(TraceIDKey, traceId)
	return traceId
}

// GetTraceIdOfRequest returns the trace id set by the logging middleware.
// Requests that bypass the middleware (tests mostly) get a fresh one.
func GetTraceIdOfRequest(c *gin.Context) string {
	v, ok := c.Get(TraceIDKey)
	if !ok {
		return SetTraceIdOfRequest(c)
	}
	traceId, ok := v.(string)
	if !ok || traceId == "" {
		return SetTraceIdOfRequest(c)
	}
	return traceId
}
