package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/routekit/internal/pkg"
)

// LogErrors returns a middleware that, once the rest of the chain has run,
// writes one diagnostic record per error recorded on the context.
//
// Install it before ShieldErrors so that it observes the errors after the
// client response has been settled.
func LogErrors(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		l := logger.With(
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		)
		if id := GetRequestID(c); id != "" {
			l = l.With(slog.String("request_id", id))
		}
		for _, e := range c.Errors {
			pkg.LogFailure(l, e.Err)
		}
	}
}

// ShieldErrors returns a middleware that replaces the response of a failed
// request with the generic 500 payload. Errors stay on the context for
// LogErrors.
func ShieldErrors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if last := c.Errors.Last(); last != nil {
			pkg.ShieldClientFromError(c, last.Err)
		}
	}
}
