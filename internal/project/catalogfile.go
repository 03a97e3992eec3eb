package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/QuoteCraft/internal/model"
	"gopkg.in/yaml.v3"
)

// isYAML reports whether path names a YAML catalog file.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadCatalogDefinition reads a catalog definition from a JSON or YAML file,
// chosen by extension. It does not validate the content.
func LoadCatalogDefinition(path string) (model.CatalogDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.CatalogDefinition{}, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var def model.CatalogDefinition
	if isYAML(path) {
		err = yaml.Unmarshal(data, &def)
	} else {
		err = json.Unmarshal(data, &def)
	}
	if err != nil {
		return model.CatalogDefinition{}, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	return def, nil
}

// LoadCatalog reads and validates a catalog file. An empty path returns the
// built-in catalog.
func LoadCatalog(path string) (*model.Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return model.DefaultCatalog(), nil
	}
	def, err := LoadCatalogDefinition(path)
	if err != nil {
		return nil, err
	}
	cat, err := model.NewCatalog(def)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

// SaveCatalog writes a catalog definition as JSON or YAML, chosen by extension.
// It creates any missing parent directories automatically.
func SaveCatalog(path string, def model.CatalogDefinition) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(def)
	} else {
		data, err = json.MarshalIndent(def, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
