// Package project handles everything QuoteCraft keeps on disk: the
// application config, catalog files and backup bundles.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v9"
	"github.com/piwi3910/QuoteCraft/internal/model"
)

// EnvPrefix is prepended to every environment variable that overrides the
// config file, e.g. QUOTECRAFT_HOURLY_RATE or QUOTECRAFT_LOG_LEVEL.
const EnvPrefix = "QUOTECRAFT_"

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.quotecraft/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".quotecraft")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
// Fields missing from the file keep their default values.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, err
	}
	config := model.DefaultAppConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return config, nil
}

// ApplyEnv overrides config fields from QUOTECRAFT_* environment variables.
// Unset variables leave the field untouched.
func ApplyEnv(config *model.AppConfig) error {
	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to read environment overrides: %w", err)
	}
	return nil
}

// ResolveAppConfig loads the config file at path (or the default path when
// empty) and applies environment overrides on top.
func ResolveAppConfig(path string) (model.AppConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	config, err := LoadAppConfig(path)
	if err != nil {
		return model.AppConfig{}, err
	}
	if err := ApplyEnv(&config); err != nil {
		return model.AppConfig{}, err
	}
	return config, nil
}
