package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const configFile = "config.toml"

// Save writes the config as config.toml into dir, creating the directory if
// needed. Used by `askdocs init` to seed an editable config file.
func Save(cfg *Config, dir string) (string, error) {
	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating config dir: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}

	path := filepath.Join(dir, configFile)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}

	return path, nil
}

// Load reads a config.toml from dir. Fields absent from the file keep their
// defaults.
func Load(dir string) (*Config, error) {
	cfg := NewDefaultConfig()

	path := filepath.Join(dir, configFile)
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return cfg, nil
}
