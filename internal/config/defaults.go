package config

import "time"

const (
	DefaultBaseURL          = "https://api.boomi.com/api/rest/v1"
	DefaultPollInterval     = 2 * time.Second
	DefaultMaxPolls         = 180
	DefaultMaxRetries       = 5
	DefaultInitialDelay     = time.Second
	DefaultMaxJitter        = time.Second
	DefaultRequestTimeout   = 60 * time.Second
	DefaultConcurrencyLimit = 5

	DefaultHost            = "localhost"
	DefaultPort            = 3000
	DefaultShutdownTimeout = 30 * time.Second
)

// GetDefaultConfig returns the configuration used when no config.yaml exists.
func GetDefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			EnableMCP:       true,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Platform: PlatformConfig{
			BaseURL:          DefaultBaseURL,
			PollInterval:     DefaultPollInterval,
			MaxPolls:         DefaultMaxPolls,
			MaxRetries:       DefaultMaxRetries,
			InitialDelay:     DefaultInitialDelay,
			MaxJitter:        DefaultMaxJitter,
			RequestTimeout:   DefaultRequestTimeout,
			ConcurrencyLimit: DefaultConcurrencyLimit,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
