package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file, fills in the Gemini API key from the
// GEMINI_API_KEY environment variable when the file supplies none, and
// applies defaults via Validate.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if len(cfg.Gemini.APIKeys) == 0 {
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			cfg.Gemini.APIKeys = []string{key}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
