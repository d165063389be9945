package modelroute

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the static configuration the registry and tier tables are
// loaded from at process start.
type Config struct {
	Registry []ModelDescriptor         `yaml:"registry"`
	Tiers    map[TaskCategory][]string `yaml:"tiers"`
}

// LoadConfig reads and parses a YAML config file. Environment variables in
// the format ${VAR} are expanded before parsing.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("modelroute: read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("modelroute: parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the config for required sections. Per-model and per-tier
// invariants are enforced by Build.
func (c Config) Validate() error {
	if len(c.Registry) == 0 {
		return fmt.Errorf("modelroute: config: at least one registry model is required")
	}
	if len(c.Tiers) == 0 {
		return fmt.Errorf("modelroute: config: at least one tier sequence is required")
	}
	return nil
}

// Build resolves the config into an immutable registry and tier table.
func (c Config) Build() (*Registry, *TierTable, error) {
	reg, err := NewRegistry(c.Registry)
	if err != nil {
		return nil, nil, err
	}
	table, err := NewTierTable(reg, c.Tiers)
	if err != nil {
		return nil, nil, err
	}
	return reg, table, nil
}
