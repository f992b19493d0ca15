package registry

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/routekit/internal/domain"
	"github.com/simp-lee/routekit/internal/pkg"
	"github.com/simp-lee/routekit/internal/route"
)

// NoRouter is implemented by servers that accept handlers for requests no
// route matched. *gin.Engine satisfies it.
type NoRouter interface {
	NoRoute(handlers ...gin.HandlerFunc)
}

// InstallFallback installs the handler for unmatched requests. Requests with
// a supported verb get the fixed invalid-call payload; other methods are left
// to the server's default 404.
//
// gin only consults NoRoute after every registered route failed to match, so
// the fallback never shadows a specific route regardless of when it is
// installed.
func (r *Registry) InstallFallback() error {
	nr, ok := r.server.(NoRouter)
	if !ok {
		return domain.NewConfigurationError("server does not support fallback handlers", nil)
	}
	nr.NoRoute(fallbackHandler)
	r.logger.Debug("installed fallback handler", slog.Int("verbs", len(route.Verbs)))
	return nil
}

func fallbackHandler(c *gin.Context) {
	if _, ok := route.ParseVerb(c.Request.Method); !ok {
		return
	}
	pkg.RejectInvalidCall(c)
}
