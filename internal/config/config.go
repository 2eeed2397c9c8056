// Package config loads the per-workspace vigil configuration file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// DefaultPath is the conventional config location inside a workspace.
const DefaultPath = ".vigil/config.yaml"

// Config is the workspace configuration. Zero values fall back to defaults
// at the point of use.
type Config struct {
	// Backend selects the persistence gateway: "sqlite" (default) or "file".
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`
	// StorePath overrides the default store location.
	StorePath string `json:"store_path,omitempty" yaml:"store_path,omitempty"`
	// TrendWindow is the default number of runs charted by trends.
	TrendWindow int `json:"trend_window,omitempty" yaml:"trend_window,omitempty"`
	// LogLevel is one of debug, info, warn, error (default info).
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	// LogFormat is "text" or "json" (default text).
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty"`
}

// LoadFromPath reads a config file (YAML or JSON) and returns the parsed
// Config. A missing file yields an empty config, not an error.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// Load parses config from bytes. ext is the file extension (e.g. ".json",
// ".yaml") for a format hint; empty = detect from content.
func Load(data []byte, ext string) (*Config, error) {
	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	var c Config
	switch ext {
	case ".yaml":
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
		return &c, nil
	case ".json":
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parse config json: %w", err)
		}
		return &c, nil
	}
	// Detect: try JSON first (starts with {), else YAML.
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parse config json: %w", err)
		}
		return &c, nil
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	return &c, nil
}
