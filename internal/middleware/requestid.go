package middleware

import (
	"log/slog"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/simp-lee/logger"
)

const (
	requestIDHeader     = "X-Request-ID"
	requestIDContextKey = "request_id"
)

var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)

// RequestIDConfig controls request-id reuse behavior.
type RequestIDConfig struct {
	TrustUpstream bool
}

// RequestID returns a gin middleware that assigns a UUID to each request.
//
// The request ID is:
//   - Stored in gin.Context under the key "request_id"
//   - Set as the X-Request-ID response header
//   - Stored in the Go context via logger.WithContextAttrs for structured logging
func RequestID() gin.HandlerFunc {
	return RequestIDWithConfig(RequestIDConfig{})
}

// RequestIDWithConfig returns a gin middleware that assigns request IDs based on config.
//
// When TrustUpstream is enabled, a valid incoming X-Request-ID is reused.
func RequestIDWithConfig(cfg RequestIDConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := ""
		if cfg.TrustUpstream {
			if upstream := c.GetHeader(requestIDHeader); requestIDPattern.MatchString(upstream) {
				id = upstream
			}
		}
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(requestIDContextKey, id)
		c.Header(requestIDHeader, id)

		ctx := logger.WithContextAttrs(c.Request.Context(), slog.String("request_id", id))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRequestID extracts the request ID from the gin.Context.
// Returns an empty string if no request ID is set.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDContextKey)
}
