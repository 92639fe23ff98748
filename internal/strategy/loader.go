package strategy

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a strategy file, decodes it strictly, and validates it.
// Unknown YAML keys are rejected so a typo in a parameter name fails
// loudly instead of silently falling back to the default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read strategy file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse strategy file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes strategy YAML starting from the default preset, so a
// partial file only overrides the keys it names.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid strategy: %w", err)
	}
	return cfg, nil
}

// Hash returns a short content hash of the serialized config, used to
// tag stored results with the strategy that produced them.
func (c *Config) Hash() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "unknown"
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:12]
}
