package app

import (
	"testplanner/internal/config"
)

// Config holds the application configuration
type Config struct {
	// Debug settings
	Debug bool

	// Silent suppresses log output, used by CLI commands that print results
	Silent bool

	// Directory holding config.yaml and, unless overridden, the data store
	ConfigPath string

	// Version reported by the MCP server
	Version string

	// Loaded configuration. When set before NewApplication, loading is skipped.
	Settings *config.Config
}

// NewConfig creates a new application configuration
func NewConfig(debug, silent bool, configPath string) *Config {
	return &Config{
		Debug:      debug,
		Silent:     silent,
		ConfigPath: configPath,
	}
}
