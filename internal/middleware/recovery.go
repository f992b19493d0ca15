package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"

	"github.com/simp-lee/routekit/internal/pkg"
)

// Recovery returns a gin middleware that recovers from panics raised outside
// pkg.WrapAsync, logs them with a stack trace, and answers with the generic
// 500 payload:
//
//	{"error": {"message": "Something went terribly wrong"}}
//
// It replaces gin.Recovery() and should be the outermost middleware.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if r == http.ErrAbortHandler {
				panic(r)
			}

			var err error
			if e, ok := r.(error); ok {
				err = pkgerrors.Wrap(e, "panic")
			} else {
				err = pkgerrors.Errorf("panic: %v", r)
			}

			pkg.LogFailure(logger.With(
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("request_id", GetRequestID(c)),
			), err)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, pkg.ErrorResponse{
				Error: pkg.ErrorDetail{Message: pkg.ShieldMessage},
			})
		}()
		c.Next()
	}
}
