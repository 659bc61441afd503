package config

import (
	"flag"
)

// parseFlagsHelper is the shared implementation for flag parsing.
// Flag values are bound to locals and applied only when explicitly set.
// If sources is non-nil, it tracks the source of each value.
func parseFlagsHelper(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource, source ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("todo", flag.ContinueOnError)
	}

	todoFile := cfg.TodoFile
	idPolicy := cfg.IDPolicy
	logLevel := cfg.LogLevel
	logFormat := cfg.LogFormat
	logTimestamps := cfg.LogTimestamps
	logCaller := cfg.LogCaller

	// Paths
	fs.StringVar(&todoFile, "file", todoFile, "Path to task file")
	fs.StringVar(&idPolicy, "id-policy", idPolicy, "ID assignment for new tasks (count, max)")

	// Logging
	fs.StringVar(&logLevel, "log-level", logLevel, "Log level (debug, info, warn, error, fatal)")
	fs.StringVar(&logFormat, "log-format", logFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&logTimestamps, "log-timestamps", logTimestamps, "Show timestamps in logs")
	fs.BoolVar(&logCaller, "log-caller", logCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Track which flags were set and apply to config
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "file":
			setSource(&cfg.TodoFile, todoFile, sources, "todo_file", source)
		case "id-policy":
			setSource(&cfg.IDPolicy, idPolicy, sources, "id_policy", source)
		case "log-level":
			setSource(&cfg.LogLevel, logLevel, sources, "log_level", source)
		case "log-format":
			setSource(&cfg.LogFormat, logFormat, sources, "log_format", source)
		case "log-timestamps":
			setSource(&cfg.LogTimestamps, logTimestamps, sources, "log_timestamps", source)
		case "log-caller":
			setSource(&cfg.LogCaller, logCaller, sources, "log_caller", source)
		}
	})

	return nil
}
