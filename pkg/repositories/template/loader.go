package template

import (
	"context"
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/fadedpez/affectlab/pkg/entities"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// catalogFile is the on-disk layout of a template catalog
type catalogFile struct {
	AssetBase string               `yaml:"assetBase"`
	Templates []*entities.Template `yaml:"templates"`
}

// FileLoader reads a YAML catalog from disk on every Load
type FileLoader struct {
	path      string
	assetBase string
}

// NewFileLoader creates a loader for the catalog at path. A non-empty
// assetBase overrides the one declared in the file.
func NewFileLoader(path, assetBase string) *FileLoader {
	return &FileLoader{path: path, assetBase: assetBase}
}

// Load reads and parses the catalog file
func (l *FileLoader) Load(ctx context.Context) ([]*entities.Template, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("error reading catalog %s: %w", l.path, err)
	}
	return ParseCatalog(data, l.assetBase)
}

// BuiltinLoader serves the catalog compiled into the binary
type BuiltinLoader struct {
	assetBase string
}

// NewBuiltinLoader creates a loader for the embedded catalog
func NewBuiltinLoader(assetBase string) *BuiltinLoader {
	return &BuiltinLoader{assetBase: assetBase}
}

// Load parses the embedded catalog
func (l *BuiltinLoader) Load(ctx context.Context) ([]*entities.Template, error) {
	return ParseCatalog(builtinCatalog, l.assetBase)
}

// NewLoader picks the file loader when a path is configured, the builtin one otherwise
func NewLoader(path, assetBase string) Loader {
	if path == "" {
		return NewBuiltinLoader(assetBase)
	}
	return NewFileLoader(path, assetBase)
}

// ParseCatalog decodes a YAML catalog, validates it and resolves asset URLs
func ParseCatalog(data []byte, assetBase string) ([]*entities.Template, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	base := file.AssetBase
	if assetBase != "" {
		base = assetBase
	}

	seen := make(map[string]bool, len(file.Templates))
	for i, t := range file.Templates {
		if t == nil || t.ID == "" {
			return nil, fmt.Errorf("%w: template %d has no id", ErrInvalidCatalog, i)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("%w: duplicate template id %s", ErrInvalidCatalog, t.ID)
		}
		seen[t.ID] = true

		if t.Cost < 0 {
			return nil, fmt.Errorf("%w: template %s has negative cost", ErrInvalidCatalog, t.ID)
		}

		for rarity, asset := range t.Assets {
			if !rarity.Valid() {
				return nil, fmt.Errorf("%w: template %s has asset for unknown rarity %q", ErrInvalidCatalog, t.ID, rarity)
			}
			t.Assets[rarity] = resolveAsset(base, asset)
		}
	}

	return file.Templates, nil
}

// resolveAsset joins a relative asset path onto base, escaping the file name
func resolveAsset(base, asset string) string {
	if asset == "" || base == "" {
		return asset
	}
	if strings.HasPrefix(asset, "http://") || strings.HasPrefix(asset, "https://") || strings.HasPrefix(asset, "/") {
		return asset
	}
	return strings.TrimSuffix(base, "/") + "/" + url.PathEscape(asset)
}
