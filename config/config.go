// Package config provides configuration loading and structs for the kdtree CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Storage StorageConfig `yaml:"storage"`
	Index   IndexConfig   `yaml:"index"`
	Search  SearchConfig  `yaml:"search"`
}

// StorageConfig holds the sample database location.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// IndexConfig selects the index implementation and its persistence format.
type IndexConfig struct {
	Kind        string `yaml:"kind"`
	Compression *bool  `yaml:"compression"`
}

// CompressionOrDefault returns whether persisted indexes are compressed;
// defaults to true when unset.
func (i *IndexConfig) CompressionOrDefault() bool {
	if i.Compression != nil {
		return *i.Compression
	}
	return true
}

// SearchConfig holds query execution settings.
type SearchConfig struct {
	Parallelism int `yaml:"parallelism"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, filepath.Dir(path))
	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate rejects settings no component can honor.
func Validate(cfg *Config) error {
	switch cfg.Index.Kind {
	case "kd", "brute":
	default:
		return fmt.Errorf("invalid index kind %q: want kd or brute", cfg.Index.Kind)
	}
	if cfg.Search.Parallelism < 0 {
		return fmt.Errorf("invalid search parallelism %d", cfg.Search.Parallelism)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// ":memory:" and absolute paths are kept; other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
