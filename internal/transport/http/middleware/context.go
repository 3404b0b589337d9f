package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// TraceIDHeader carries the trace ID across service boundaries.
	TraceIDHeader = "X-Trace-ID"
	// TraceIDKey is the gin context key holding the trace ID.
	TraceIDKey = "trace_id"
	// UserIDKey is the gin context key holding the authenticated user ID.
	UserIDKey = "user_id"

	requestContextKey = "request_context"
)

// RequestContext aggregates the request-scoped metadata the access log and
// the auth middleware contribute during the request lifecycle.
type RequestContext struct {
	TraceID   string
	UserID    string
	IP        string
	UserAgent string
}

// EnrichContext assigns a trace ID to the request, echoes it back in the
// response headers, and seeds the RequestContext for later middlewares.
func EnrichContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		c.Set(TraceIDKey, traceID)
		c.Header(TraceIDHeader, traceID)

		c.Set(requestContextKey, &RequestContext{
			TraceID:   traceID,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})

		c.Next()
	}
}

// GetTraceID returns the trace ID assigned to the request, or an empty
// string when EnrichContext did not run.
func GetTraceID(c *gin.Context) string {
	value, exists := c.Get(TraceIDKey)
	if !exists {
		return ""
	}
	id, _ := value.(string)
	return id
}

// GetRequestContext returns the request metadata, never nil.
func GetRequestContext(c *gin.Context) *RequestContext {
	value, exists := c.Get(requestContextKey)
	if !exists {
		return &RequestContext{}
	}
	if reqCtx, ok := value.(*RequestContext); ok {
		return reqCtx
	}
	return &RequestContext{}
}
