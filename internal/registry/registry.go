// Package registry wires route descriptors into a gin server.
//
// A Registry is built in two phases. New performs the fallible part: it
// checks the services directory, loads every manifest and validates it. The
// Register* methods and InstallFallback then install routes on the server;
// they are expected to run once at startup, before traffic begins.
package registry

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/routekit/internal/domain"
	"github.com/simp-lee/routekit/internal/loader"
	"github.com/simp-lee/routekit/internal/route"
)

// Server is the per-verb registration surface of the HTTP server.
// *gin.Engine and *gin.RouterGroup satisfy it.
type Server interface {
	GET(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	POST(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	PUT(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	DELETE(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
}

// Registry holds the services discovered in a directory and registers their
// routes on a Server.
type Registry struct {
	server   Server
	dir      string
	prefix   string
	resolver loader.Resolver
	logger   *slog.Logger
	services []route.Service
}

// Option configures a Registry.
type Option func(*Registry)

// WithDir sets the services directory to scan. Without it the registry starts
// empty and only raw registration is useful.
func WithDir(dir string) Option {
	return func(r *Registry) { r.dir = dir }
}

// WithPrefix sets the string prepended to every registered path. It is used
// as-is: no slashes are added or removed.
func WithPrefix(prefix string) Option {
	return func(r *Registry) { r.prefix = prefix }
}

// WithCatalog sets the resolver used for handler names in manifests.
func WithCatalog(resolver loader.Resolver) Option {
	return func(r *Registry) { r.resolver = resolver }
}

// WithLogger sets the logger. Registration is logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New builds a Registry for server. When a directory is configured it is
// scanned synchronously; any configuration or descriptor error is returned
// and no Registry is produced.
func New(server Server, opts ...Option) (*Registry, error) {
	if server == nil {
		return nil, domain.NewConfigurationError("server is nil", nil)
	}

	r := &Registry{
		server: server,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.dir == "" {
		r.logger.Debug("no services directory configured, raw registration only")
		return r, nil
	}
	if r.resolver == nil {
		return nil, domain.NewConfigurationError(
			fmt.Sprintf("services directory %s configured without a handler catalog", r.dir), nil)
	}

	services, err := loader.New(r.resolver, r.logger).Load(r.dir)
	if err != nil {
		return nil, err
	}
	r.services = services

	r.logger.Debug("services loaded",
		slog.String("dir", r.dir),
		slog.Int("services", len(services)),
	)
	return r, nil
}

// Services returns the discovered services in discovery order.
func (r *Registry) Services() []route.Service {
	out := make([]route.Service, len(r.services))
	copy(out, r.services)
	return out
}

// Prefix returns the configured path prefix.
func (r *Registry) Prefix() string { return r.prefix }

// Dir returns the scanned directory, or "" when none was configured.
func (r *Registry) Dir() string { return r.dir }

// RegisterVerb registers the routes of every discovered service for verb, in
// discovery order. Calling it again registers the routes again.
func (r *Registry) RegisterVerb(verb route.Verb) error {
	register, err := r.method(verb)
	if err != nil {
		return err
	}
	for _, svc := range r.services {
		r.register(register, verb, svc.Filename, svc.Routes[verb])
	}
	return nil
}

// RegisterAllVerbs calls RegisterVerb for GET, POST, DELETE and PUT, in that
// order.
func (r *Registry) RegisterAllVerbs() error {
	for _, verb := range route.Verbs {
		if err := r.RegisterVerb(verb); err != nil {
			return err
		}
	}
	return nil
}

// RegisterRaw validates d and registers its entries for verb. The discovered
// services are not touched.
func (r *Registry) RegisterRaw(d route.Descriptor, verb route.Verb) error {
	register, err := r.method(verb)
	if err != nil {
		return err
	}
	if err := route.Validate(d); err != nil {
		return err
	}
	r.register(register, verb, "", d[verb])
	return nil
}

// RegisterAllRawVerbs validates d once and registers its entries for every
// supported verb.
func (r *Registry) RegisterAllRawVerbs(d route.Descriptor) error {
	if err := route.Validate(d); err != nil {
		return err
	}
	for _, verb := range route.Verbs {
		register, err := r.method(verb)
		if err != nil {
			return err
		}
		r.register(register, verb, "", d[verb])
	}
	return nil
}

type registerFunc func(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes

func (r *Registry) method(verb route.Verb) (registerFunc, error) {
	switch verb {
	case route.Get:
		return r.server.GET, nil
	case route.Post:
		return r.server.POST, nil
	case route.Put:
		return r.server.PUT, nil
	case route.Delete:
		return r.server.DELETE, nil
	default:
		return nil, domain.NewConfigurationError(fmt.Sprintf("unsupported verb %q", string(verb)), nil)
	}
}

func (r *Registry) register(fn registerFunc, verb route.Verb, service string, entries []route.Entry) {
	for _, entry := range entries {
		path := r.prefix + entry.Path
		r.logger.Debug("registering route",
			slog.String("verb", string(verb)),
			slog.String("path", path),
			slog.Int("handlers", len(entry.Handlers)),
			slog.String("service", service),
		)
		fn(path, entry.Handlers...)
	}
}
