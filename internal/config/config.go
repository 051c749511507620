package config

import "fmt"

type Config struct {
	Gemini      GeminiConfig      `yaml:"gemini"`
	Generation  GenerationConfig  `yaml:"generation"`
	Retry       RetryConfig       `yaml:"retry"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type GeminiConfig struct {
	// APIKeys are rotated round-robin across calls. At least one is required
	// unless GEMINI_API_KEY is set in the environment.
	APIKeys []string `yaml:"api_keys"`
	Model   string   `yaml:"model"`
	// CallTimeoutSec bounds a single model invocation.
	CallTimeoutSec int `yaml:"call_timeout_sec"`
	// RequestsPerMinute caps outbound calls across all concurrent runs.
	// Zero disables the limiter.
	RequestsPerMinute float64 `yaml:"requests_per_minute"`
}

type GenerationConfig struct {
	Temperature     float64 `yaml:"temperature"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
}

type RetryConfig struct {
	// MaxAttempts is the total number of model invocations per stage call,
	// including the first one.
	MaxAttempts   int `yaml:"max_attempts"`
	BackoffBaseMs int `yaml:"backoff_base_ms"`
	BackoffMaxMs  int `yaml:"backoff_max_ms"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

func (c *Config) Validate() error {
	if len(c.Gemini.APIKeys) == 0 {
		return fmt.Errorf("gemini.api_keys is required")
	}
	for i, key := range c.Gemini.APIKeys {
		if key == "" {
			return fmt.Errorf("gemini.api_keys[%d] is empty", i)
		}
	}

	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Gemini.CallTimeoutSec == 0 {
		c.Gemini.CallTimeoutSec = 120
	}
	if c.Generation.Temperature == 0 {
		c.Generation.Temperature = 0.2
	}
	if c.Generation.MaxOutputTokens == 0 {
		c.Generation.MaxOutputTokens = 4096
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = 3
	}
	if c.Retry.BackoffBaseMs == 0 {
		c.Retry.BackoffBaseMs = 1000
	}
	if c.Retry.BackoffMaxMs == 0 {
		c.Retry.BackoffMaxMs = 30000
	}
	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	return nil
}
