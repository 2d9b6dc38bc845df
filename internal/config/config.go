// Package config loads and validates engine configuration from YAML,
// with environment-variable overrides for secrets. Each concern keeps
// its struct in its own file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration document.
type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Router   RouterConfig   `yaml:"router"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// Default returns a fully populated configuration with sane defaults.
func Default() Config {
	return Config{
		LLM:      DefaultLLMConfig(),
		Pipeline: DefaultPipelineConfig(),
		Router:   DefaultRouterConfig(),
		Server:   DefaultServerConfig(),
		Logging:  DefaultLoggingConfig(),
	}
}

// Load reads the YAML file at path, layers it over defaults, applies
// environment overrides, and validates the result. A missing file is
// not an error: defaults plus environment are used.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv pulls secrets and common overrides from the environment.
func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("BAZAAR_LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("BAZAAR_LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("BAZAAR_DB_PATH"); v != "" {
		c.Server.DBPath = v
	}
	if v := os.Getenv("BAZAAR_LISTEN_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks all sections.
func (c *Config) Validate() error {
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	if err := c.Pipeline.Validate(); err != nil {
		return err
	}
	if err := c.Router.Validate(); err != nil {
		return err
	}
	return c.Server.Validate()
}
