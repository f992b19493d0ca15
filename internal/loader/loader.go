// Package loader discovers service manifests in a directory and turns them
// into validated route descriptors.
//
// Eligible files are regular, non-hidden files with one of the manifest
// extensions. Each manifest names its handlers; names are resolved through a
// Resolver (normally a *catalog.Catalog) so a manifest can only reference
// handlers that Go code registered at startup. A scan is all-or-nothing: the
// first bad manifest fails the whole load.
package loader

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/routekit/internal/domain"
	"github.com/simp-lee/routekit/internal/route"
)

// Extensions lists the manifest extensions the loader accepts.
var Extensions = []string{".yaml", ".yml", ".toml", ".hcl"}

// Resolver looks up handlers by the names used in manifests.
type Resolver interface {
	Lookup(name string) (gin.HandlerFunc, bool)
}

// Loader scans service directories.
type Loader struct {
	resolver Resolver
	logger   *slog.Logger
}

// New creates a Loader. A nil logger falls back to slog.Default().
// Panics if resolver is nil.
func New(resolver Resolver, logger *slog.Logger) *Loader {
	if resolver == nil {
		panic("loader.New: resolver must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{resolver: resolver, logger: logger}
}

// CheckDir verifies that dir exists and is a directory.
func CheckDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return domain.NewConfigurationError(fmt.Sprintf("invalid services directory %q", dir), nil)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return domain.NewConfigurationError(fmt.Sprintf("invalid services directory %s", dir), err)
	}
	if !info.IsDir() {
		return domain.NewConfigurationError(fmt.Sprintf("invalid services directory %s: it needs to be a directory", dir), nil)
	}
	return nil
}

// Eligible reports whether a file name is a candidate manifest.
func Eligible(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Load scans dir in file-name order and returns one Service per manifest
// that declares routes. Manifests without routes are skipped.
func (l *Loader) Load(dir string) ([]route.Service, error) {
	if err := CheckDir(dir); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, domain.NewConfigurationError(fmt.Sprintf("read services directory %s", dir), err)
	}

	l.logger.Debug("parsing routes for services", slog.String("dir", dir))

	var services []route.Service
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || !Eligible(name) {
			l.logger.Debug("skipping file", slog.String("file", name))
			continue
		}

		svc, ok, err := l.loadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if !ok {
			l.logger.Debug("no routes declared", slog.String("file", name))
			continue
		}

		l.logger.Debug("parsed routes for service",
			slog.String("file", name),
			slog.Int("routes", svc.Routes.Len()),
		)
		services = append(services, svc)
	}

	return services, nil
}

func (l *Loader) loadFile(path string) (route.Service, bool, error) {
	name := filepath.Base(path)

	doc, err := decodeManifest(path)
	if err != nil {
		return route.Service{}, false, domain.NewAppError(domain.CodeDescriptor, "parse service manifest "+name, err)
	}
	if !doc.hasRoutes {
		return route.Service{}, false, nil
	}

	desc, err := l.resolve(doc.routes)
	if err == nil {
		err = route.Validate(desc)
	}
	if err != nil {
		var de *route.DescriptorError
		if errors.As(err, &de) {
			de.Service = name
		}
		return route.Service{}, false, err
	}

	return route.Service{Filename: name, Routes: desc}, true, nil
}

// resolve converts manifest entries to a Descriptor, looking up every
// handler name. Keys that are not supported verbs are ignored.
func (l *Loader) resolve(raw map[string][]entrySpec) (route.Descriptor, error) {
	byVerb := make(map[route.Verb][]entrySpec, len(raw))
	for key, specs := range raw {
		verb, ok := route.ParseVerb(key)
		if !ok {
			l.logger.Warn("ignoring unsupported verb", slog.String("verb", key))
			continue
		}
		byVerb[verb] = append(byVerb[verb], specs...)
	}

	desc := make(route.Descriptor, len(byVerb))
	for _, verb := range route.Verbs {
		for _, es := range byVerb[verb] {
			entry := route.Entry{Path: es.Path}
			for _, handlerName := range es.Handlers {
				h, found := l.resolver.Lookup(handlerName)
				if !found {
					return nil, &route.DescriptorError{
						Verb:   verb,
						Path:   es.Path,
						Reason: fmt.Sprintf("unknown handler %q", handlerName),
					}
				}
				entry.Handlers = append(entry.Handlers, h)
			}
			desc[verb] = append(desc[verb], entry)
		}
	}
	return desc, nil
}
