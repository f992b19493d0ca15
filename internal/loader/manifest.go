package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pelletier/go-toml/v2"
)

// entrySpec is one route entry as written in a manifest.
type entrySpec struct {
	Path     string   `koanf:"path"`
	Handlers []string `koanf:"handlers"`
}

// document is the format-independent content of a manifest.
type document struct {
	hasRoutes bool
	routes    map[string][]entrySpec
}

// decodeManifest picks a decoder by file extension.
func decodeManifest(path string) (document, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return decodeKoanf(path, yaml.Parser())
	case ".toml":
		return decodeKoanf(path, tomlParser{})
	case ".hcl":
		return decodeHCL(path)
	default:
		return document{}, fmt.Errorf("unsupported manifest extension %q", ext)
	}
}

// decodeKoanf reads a YAML or TOML manifest. A top-level "default" key wraps
// the document; when present everything is read from inside it.
func decodeKoanf(path string, parser koanf.Parser) (document, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return document{}, err
	}
	if k.Exists("default") {
		k = k.Cut("default")
	}
	if k.Get("routes") == nil {
		return document{}, nil
	}

	var routes map[string][]entrySpec
	if err := k.Unmarshal("routes", &routes); err != nil {
		return document{}, fmt.Errorf("decode routes: %w", err)
	}
	return document{hasRoutes: true, routes: routes}, nil
}

// tomlParser adapts go-toml to koanf's Parser interface.
type tomlParser struct{}

func (tomlParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := toml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (tomlParser) Marshal(o map[string]interface{}) ([]byte, error) {
	return toml.Marshal(o)
}

// hclManifest is the HCL form of a manifest:
//
//	route "get" {
//	  path     = "/status"
//	  handlers = ["status.health"]
//	}
type hclManifest struct {
	Routes []hclRoute `hcl:"route,block"`
	Remain hcl.Body   `hcl:",remain"`
}

type hclRoute struct {
	Verb     string   `hcl:"verb,label"`
	Path     string   `hcl:"path,optional"`
	Handlers []string `hcl:"handlers,optional"`
}

func decodeHCL(path string) (document, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return document{}, diags
	}

	var root hclManifest
	if diags := gohcl.DecodeBody(f.Body, nil, &root); diags.HasErrors() {
		return document{}, diags
	}
	if len(root.Routes) == 0 {
		return document{}, nil
	}

	routes := make(map[string][]entrySpec)
	for _, r := range root.Routes {
		routes[r.Verb] = append(routes[r.Verb], entrySpec{Path: r.Path, Handlers: r.Handlers})
	}
	return document{hasRoutes: true, routes: routes}, nil
}
