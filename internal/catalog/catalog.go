// Package catalog maps handler names used in service manifests to the Go
// handlers that implement them.
//
// Service modules register their handlers once at startup through the Module
// interface. Manifests on disk then refer to those handlers by name, and the
// loader resolves every name against the catalog before any route reaches
// the server.
package catalog

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/routekit/internal/pkg"
)

// Module is implemented by service modules that contribute named handlers.
type Module interface {
	Register(c *Catalog)
}

// Catalog holds named handlers for a single application instance.
type Catalog struct {
	handlers map[string]gin.HandlerFunc
	logger   *slog.Logger
}

// New creates an empty Catalog. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		handlers: make(map[string]gin.HandlerFunc),
		logger:   logger,
	}
}

// Handle registers h under name.
// Panics on an empty name, a nil handler, or a duplicate name.
func (c *Catalog) Handle(name string, h gin.HandlerFunc) {
	name = strings.TrimSpace(name)
	if name == "" {
		panic("catalog.Handle: handler name must not be empty")
	}
	if h == nil {
		panic(fmt.Sprintf("catalog.Handle: handler %q must not be nil", name))
	}
	if _, exists := c.handlers[name]; exists {
		panic(fmt.Sprintf("catalog.Handle: handler %q already registered", name))
	}
	c.logger.Debug("registering handler", slog.String("name", name))
	c.handlers[name] = h
}

// HandleFunc registers an error-returning handler under name. Failures are
// forwarded to the error stages through pkg.WrapAsync.
func (c *Catalog) HandleFunc(name string, fn pkg.HandlerFunc) {
	if fn == nil {
		panic(fmt.Sprintf("catalog.HandleFunc: handler %q must not be nil", name))
	}
	c.Handle(name, pkg.WrapAsync(fn))
}

// Install lets each module register its handlers.
func (c *Catalog) Install(modules ...Module) {
	for i, m := range modules {
		if m == nil {
			panic(fmt.Sprintf("catalog.Install: module at index %d is nil", i))
		}
		m.Register(c)
	}
}

// Lookup returns the handler registered under name.
func (c *Catalog) Lookup(name string) (gin.HandlerFunc, bool) {
	h, ok := c.handlers[strings.TrimSpace(name)]
	return h, ok
}

// Names returns the registered handler names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.handlers))
	for name := range c.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
