package core

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the top-level barline configuration document: a list of
// [[block]] tables. Each table carries the shared fields plus whatever
// block-specific settings its kind understands; only the shared fields
// are validated here.
type Config struct {
	Blocks []map[string]any `toml:"block"`
}

// LoadConfig reads and decodes a TOML configuration file
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return &cfg, nil
}

// ParseConfig decodes a TOML configuration document from a string
func ParseConfig(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
