// Package config loads and saves cosmology run configurations and
// carries the built-in presets.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Engine      string         `yaml:"engine"`
	ExtraParams map[string]any `yaml:"extra_params,omitempty"`
	Params      map[string]any `yaml:"params"`
}

func DefaultConfig() *Config {
	return &Config{
		Engine: "analytic",
		Params: map[string]any{},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
