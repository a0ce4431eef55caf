// Package config loads testplanner configuration.
//
// Configuration lives in a single directory (default ~/.config/testplanner):
//
//	config.yaml   server, platform, storage and logging settings
//	data/         file-backed repositories (see package store)
//
// Values are resolved in this order: built-in defaults, config.yaml, then
// environment overrides (PLATFORM_POLL_INTERVAL, PLATFORM_MAX_POLLS,
// PLATFORM_MAX_RETRIES, PLATFORM_INITIAL_DELAY, PLATFORM_CONCURRENCY_LIMIT,
// PLATFORM_BASE_URL, TESTPLANNER_PORT).
package config
