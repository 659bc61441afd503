package config

import (
	"os"
)

// loadFromEnvHelper is the shared implementation for env loading.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnvHelper(cfg *Config, sources map[string]ConfigSource, source ConfigSource) {
	if v := os.Getenv("TODO_FILE"); v != "" {
		setSource(&cfg.TodoFile, v, sources, "todo_file", source)
	}
	if v := os.Getenv("TODO_ID_POLICY"); v != "" {
		setSource(&cfg.IDPolicy, v, sources, "id_policy", source)
	}

	// Logging configuration
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		setSource(&cfg.LogLevel, v, sources, "log_level", source)
	}
	if v := os.Getenv("TODO_LOG_FORMAT"); v != "" {
		setSource(&cfg.LogFormat, v, sources, "log_format", source)
	}
	if v := os.Getenv("TODO_LOG_TIMESTAMPS"); v != "" {
		setSource(&cfg.LogTimestamps, boolFromString(v), sources, "log_timestamps", source)
	}
	if v := os.Getenv("TODO_LOG_CALLER"); v != "" {
		setSource(&cfg.LogCaller, boolFromString(v), sources, "log_caller", source)
	}
}
