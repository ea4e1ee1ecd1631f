package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config models taskhub.yml. Every field has a working default; the file is
// optional.
type Config struct {
	API struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"api"`
	Browse struct {
		PageSize int `yaml:"page_size"`
	} `yaml:"browse"`
	Theme struct {
		Default string `yaml:"default"`
	} `yaml:"theme"`
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "taskhub.yml")
}

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	cfg.API.BaseURL = "https://jsonplaceholder.typicode.com"
	cfg.API.TimeoutSeconds = 10
	cfg.Browse.PageSize = 6
	cfg.Theme.Default = "light"
	return &cfg
}

// LoadOptional reads the workspace config, returning nil,nil if the file does
// not exist.
func LoadOptional(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

// FromYAML parses and validates config from raw YAML bytes. Omitted fields
// keep their defaults.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures the config is usable.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("config.api.base_url is required")
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("config.api.timeout_seconds must be positive")
	}
	if c.Browse.PageSize <= 0 {
		return fmt.Errorf("config.browse.page_size must be positive")
	}
	if c.Theme.Default != "light" && c.Theme.Default != "dark" {
		return fmt.Errorf("config.theme.default must be light or dark")
	}
	return nil
}

// Timeout returns the API timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}
