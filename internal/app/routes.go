package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"text/tabwriter"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/routekit/internal/catalog"
	"github.com/simp-lee/routekit/internal/config"
	"github.com/simp-lee/routekit/internal/registry"
)

// RouteDeps holds all dependencies needed to register routes.
type RouteDeps struct {
	Catalog *catalog.Catalog
	Routes  config.RoutesConfig
	Logger  *slog.Logger
}

// RegisterRoutes loads the services directory, registers every discovered
// route on r and, unless disabled, installs the invalid-call fallback.
func RegisterRoutes(r *gin.Engine, deps *RouteDeps) (*registry.Registry, error) {
	if r == nil {
		return nil, errors.New("router is nil")
	}
	if deps == nil {
		return nil, errors.New("route dependencies are nil")
	}

	opts := []registry.Option{
		registry.WithDir(deps.Routes.Dir),
		registry.WithPrefix(deps.Routes.Prefix),
		registry.WithLogger(deps.Logger),
	}
	if deps.Catalog != nil {
		opts = append(opts, registry.WithCatalog(deps.Catalog))
	}

	reg, err := registry.New(r, opts...)
	if err != nil {
		return nil, err
	}
	if err := reg.RegisterAllVerbs(); err != nil {
		return nil, err
	}
	if deps.Routes.FallbackEnabled() {
		if err := reg.InstallFallback(); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// PrintRoutes writes the engine's route table, sorted by path then method.
func (a *App) PrintRoutes(w io.Writer) error {
	routes := a.engine.Routes()
	sort.SliceStable(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH\tHANDLER")
	for _, rt := range routes {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", rt.Method, rt.Path, rt.Handler)
	}
	return tw.Flush()
}
