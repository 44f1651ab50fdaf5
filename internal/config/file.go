package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Load reads the config from a YAML file on top of the defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	cfg.SetBaseURL(cfg.API.BaseURL)

	return cfg, nil
}

// DefaultPaths lists the config locations checked in order
func DefaultPaths() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "focusmeter", "config.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "focusmeter", "config.yaml"))
	}
	return paths
}

// LoadFromDefaultPath loads the first config file found in DefaultPaths
func LoadFromDefaultPath() (*Config, error) {
	for _, path := range DefaultPaths() {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}

// New resolves the full configuration: defaults, then the file at path
// (or the default locations when path is empty), then the environment.
func New(path string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	if path != "" {
		cfg, err = Load(path)
	} else {
		cfg, err = LoadFromDefaultPath()
	}
	if err != nil {
		return nil, err
	}

	LoadFromEnv(cfg)
	return cfg, nil
}
