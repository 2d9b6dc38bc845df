package config

import "fmt"

// ServerConfig configures the HTTP surface and local storage.
type ServerConfig struct {
	Addr   string `yaml:"addr"`
	DBPath string `yaml:"db_path"`
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:   ":8090",
		DBPath: "bazaar.db",
	}
}

// Validate checks the server section.
func (c ServerConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("server: addr is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("server: db_path is required")
	}
	return nil
}

// LoggingConfig configures the zap-based logging package.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultLoggingConfig returns sensible defaults.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{Level: "info"}
}
