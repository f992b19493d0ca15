package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger returns a gin middleware that logs each HTTP request using the provided
// slog.Logger. It records the method, matched route pattern, path, status code,
// latency, and client IP. Requests that matched no route are logged with
// matched=false; they are the ones answered by the fallback handler.
//
// The log level is chosen based on the response status code:
//   - 2xx/3xx: Info
//   - 4xx: Warn
//   - 5xx: Error
func Logger(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		pattern := c.FullPath()

		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("route", pattern),
			slog.Bool("matched", pattern != ""),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			logger.LogAttrs(ctx, slog.LevelError, "request", attrs...)
		case status >= 400:
			logger.LogAttrs(ctx, slog.LevelWarn, "request", attrs...)
		default:
			logger.LogAttrs(ctx, slog.LevelInfo, "request", attrs...)
		}
	}
}
