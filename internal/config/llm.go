package config

import (
	"fmt"
	"time"
)

// LLMConfig configures the generation backend.
type LLMConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
	// Timeout bounds every individual completion call. No LLM call may
	// hang indefinitely.
	Timeout time.Duration `yaml:"timeout"`
	// MaxRetries is the number of re-attempts with identical input after
	// a failed call.
	MaxRetries  int     `yaml:"max_retries"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// DefaultLLMConfig returns sensible defaults.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Model:       "gpt-4o-mini",
		Timeout:     60 * time.Second,
		MaxRetries:  1,
		Temperature: 0.3,
		MaxTokens:   4096,
	}
}

// Validate checks the LLM section.
func (c LLMConfig) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("llm: model is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("llm: timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("llm: max_retries must be >= 0, got %d", c.MaxRetries)
	}
	return nil
}
