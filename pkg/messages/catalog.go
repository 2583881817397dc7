package messages

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

//go:embed catalogs/*.yaml
var embeddedCatalogs embed.FS

// DefaultKey names the catalog entry used when a kind has no message.
const DefaultKey = "default"

// Catalog holds the message templates of one locale keyed by error kind.
type Catalog struct {
	Locale   string            `json:"locale" yaml:"locale"`
	Messages map[string]string `json:"messages" yaml:"messages"`
}

// EmbeddedFS returns the bundled catalogs.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedCatalogs, "catalogs")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

// LoadFS parses every JSON/YAML catalog in fsys. A catalog without a locale
// takes the file name stem (en.yaml -> en).
func LoadFS(fsys fs.FS) ([]Catalog, error) {
	if fsys == nil {
		return nil, nil
	}

	var catalogs []Catalog
	err := fs.WalkDir(fsys, ".", func(name string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isCatalogFile(name) {
			return nil
		}

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("messages: read %s: %w", name, err)
		}
		catalog, err := ParseCatalog(data, name)
		if err != nil {
			return err
		}
		if catalog.Locale == "" {
			catalog.Locale = strings.TrimSuffix(path.Base(name), path.Ext(name))
		}
		catalogs = append(catalogs, catalog)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return catalogs, nil
}

// ParseCatalog decodes a single JSON or YAML catalog. source is used in
// error messages only.
func ParseCatalog(data []byte, source string) (Catalog, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Catalog{}, fmt.Errorf("messages: catalog %s is empty", source)
	}

	var catalog Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		catalog = Catalog{}
		if err := yaml.Unmarshal(data, &catalog); err != nil {
			return Catalog{}, fmt.Errorf("messages: parse %s: invalid JSON or YAML", source)
		}
	}

	catalog.Locale = strings.TrimSpace(catalog.Locale)
	clean := make(map[string]string, len(catalog.Messages))
	for key, msg := range catalog.Messages {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" {
			continue
		}
		clean[trimmed] = msg
	}
	catalog.Messages = clean
	return catalog, nil
}

func isCatalogFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
