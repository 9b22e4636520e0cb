// registry.go — Design -> static asset mapping, loaded from YAML.
package texture

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/xob0t/doorstencil/pkg/door"
)

// Registry maps design types to pre-rendered asset files. A nil *Registry
// is empty. A Registry is not modified after loading and may be shared.
type Registry struct {
	paths map[door.DesignType]string
}

// registryFile is the on-disk shape:
//
//	designs:
//	  아치디자인: assets/arch.png
//	  grid: assets/grid.png
type registryFile struct {
	Designs map[string]string `yaml:"designs"`
}

// NewRegistry builds a registry from an in-memory map.
func NewRegistry(paths map[door.DesignType]string) *Registry {
	r := &Registry{paths: make(map[door.DesignType]string, len(paths))}
	for d, p := range paths {
		if d != door.DesignUnknown && p != "" {
			r.paths[d] = p
		}
	}
	return r
}

// LoadRegistry reads a registry file. Relative asset paths resolve against
// the file's directory. Unknown design keys are skipped and reported as
// warnings.
func LoadRegistry(path string) (*Registry, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read asset registry: %w", err)
	}
	return ParseRegistry(data, filepath.Dir(path))
}

// ParseRegistry decodes registry YAML; baseDir anchors relative paths.
func ParseRegistry(data []byte, baseDir string) (*Registry, []string, error) {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("parse asset registry: %w", err)
	}

	keys := make([]string, 0, len(f.Designs))
	for k := range f.Designs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r := &Registry{paths: make(map[door.DesignType]string)}
	var warnings []string
	for _, k := range keys {
		d, ok := door.ParseDesignType(k)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("asset registry: unknown design %q ignored", k))
			continue
		}
		p := f.Designs[k]
		if p == "" {
			warnings = append(warnings, fmt.Sprintf("asset registry: empty path for %q ignored", k))
			continue
		}
		if !filepath.IsAbs(p) && baseDir != "" {
			p = filepath.Join(baseDir, p)
		}
		r.paths[d] = p
	}
	return r, warnings, nil
}

// Lookup returns the asset path registered for d.
func (r *Registry) Lookup(d door.DesignType) (string, bool) {
	if r == nil {
		return "", false
	}
	p, ok := r.paths[d]
	return p, ok
}

// Len is the number of registered designs.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.paths)
}
