package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"testplanner/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/testplanner"
	configFileName = "config.yaml"
	dataDirName    = "data"
)

// Environment variables that override config.yaml. Durations are milliseconds.
const (
	EnvPollInterval     = "PLATFORM_POLL_INTERVAL"
	EnvMaxPolls         = "PLATFORM_MAX_POLLS"
	EnvMaxRetries       = "PLATFORM_MAX_RETRIES"
	EnvInitialDelay     = "PLATFORM_INITIAL_DELAY"
	EnvConcurrencyLimit = "PLATFORM_CONCURRENCY_LIMIT"
	EnvBaseURL          = "PLATFORM_BASE_URL"
	EnvPort             = "TESTPLANNER_PORT"
)

func GetDefaultConfigPathOrPanic() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}

	return filepath.Join(homeDir, userConfigDir)
}

// LoadConfig loads configuration from a single specified directory.
//
// Defaults are overlaid by <configPath>/config.yaml (if present) and then by
// environment variables. The result is validated before it is returned.
func LoadConfig(configPath string) (Config, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
	case err != nil:
		logging.Info("ConfigLoader", "Error loading config.yaml from %s: %s", configFilePath, err)
		return Config{}, err
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return Config{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
		}
		logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	}

	if err := applyEnvOverrides(&config, os.LookupEnv); err != nil {
		return Config{}, err
	}

	if config.Storage.DataDir == "" {
		config.Storage.DataDir = filepath.Join(configPath, dataDirName)
	}

	if errs := Validate(config); errs.HasErrors() {
		return Config{}, errs
	}
	return config, nil
}

type lookupFunc func(string) (string, bool)

func applyEnvOverrides(cfg *Config, lookup lookupFunc) error {
	var errs ValidationErrors

	intVar := func(name string, dst *int) {
		raw, ok := lookup(name)
		if !ok || raw == "" {
			return
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			errs.Add(name, "must be an integer", raw)
			return
		}
		logging.Debug("ConfigLoader", "Overriding %s from environment: %d", name, v)
		*dst = v
	}
	millisVar := func(name string, dst *time.Duration) {
		ms := -1
		intVar(name, &ms)
		if ms >= 0 {
			*dst = time.Duration(ms) * time.Millisecond
		}
	}

	millisVar(EnvPollInterval, &cfg.Platform.PollInterval)
	intVar(EnvMaxPolls, &cfg.Platform.MaxPolls)
	intVar(EnvMaxRetries, &cfg.Platform.MaxRetries)
	millisVar(EnvInitialDelay, &cfg.Platform.InitialDelay)
	intVar(EnvConcurrencyLimit, &cfg.Platform.ConcurrencyLimit)
	intVar(EnvPort, &cfg.Server.Port)
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		cfg.Platform.BaseURL = v
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
