package config

import "time"

// Config is the top-level configuration structure for testplanner.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Platform PlatformConfig `yaml:"platform"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig controls the HTTP API listener.
type ServerConfig struct {
	Host            string        `yaml:"host,omitempty"`            // Host to bind to (default: localhost)
	Port            int           `yaml:"port,omitempty"`            // Port to listen on (default: 3000)
	EnableMCP       bool          `yaml:"enableMCP,omitempty"`       // Mount the MCP endpoint under /mcp
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout,omitempty"` // Grace period for in-flight work on shutdown
}

// PlatformConfig tunes the integration platform adapter and the scheduler.
type PlatformConfig struct {
	BaseURL          string        `yaml:"baseURL,omitempty"`
	PollInterval     time.Duration `yaml:"pollInterval,omitempty"`
	MaxPolls         int           `yaml:"maxPolls,omitempty"`
	MaxRetries       int           `yaml:"maxRetries,omitempty"` // Total attempts per request, including the first
	InitialDelay     time.Duration `yaml:"initialDelay,omitempty"`
	MaxJitter        time.Duration `yaml:"maxJitter,omitempty"`
	RequestTimeout   time.Duration `yaml:"requestTimeout,omitempty"`
	ConcurrencyLimit int           `yaml:"concurrencyLimit,omitempty"`
}

// StorageConfig locates the file-backed repositories.
type StorageConfig struct {
	DataDir string `yaml:"dataDir,omitempty"` // Defaults to <config path>/data
}

// LoggingConfig selects log verbosity and format.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // text or json
}
