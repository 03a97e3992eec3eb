package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/QuoteCraft/internal/model"
)

// BackupVersion is written into every backup bundle.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string                  `json:"version"`
	CreatedAt string                  `json:"created_at"`
	Config    model.AppConfig         `json:"config"`
	Catalog   model.CatalogDefinition `json:"catalog"`
}

// ExportAllData exports the config and the active catalog to a single JSON
// file at the specified path.
func ExportAllData(exportPath string, config model.AppConfig, cat *model.Catalog) error {
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Catalog:   cat.Definition(),
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}

	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The catalog is validated; the caller is responsible for applying the
// imported config and catalog.
func ImportAllData(importPath string) (BackupData, *model.Catalog, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, nil, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, nil, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, nil, fmt.Errorf("invalid backup file: missing version field")
	}
	cat, err := model.NewCatalog(backup.Catalog)
	if err != nil {
		return BackupData{}, nil, fmt.Errorf("invalid backup file: %w", err)
	}
	return backup, cat, nil
}
