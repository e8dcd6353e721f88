package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Config is the CLI's own small configuration file, loaded from
// --config (default sqlcraft.yaml). It carries nothing the library
// itself needs — Options is the only configuration surface sqlcraft
// the package exposes — this just saves repeating --dialect/--quoted
// on every invocation.
type Config struct {
	Dialect  string `yaml:"dialect"`
	Quoted   *bool  `yaml:"quoted"`
	Numbered bool   `yaml:"numbered"`
	Pretty   bool   `yaml:"pretty"`
}

// LoadConfig loads the CLI config file, falling back to zero-value
// defaults (ansi dialect, unusual-only quoting) when the file is absent.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}
