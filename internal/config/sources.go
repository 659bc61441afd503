package config

import (
	"os"
	"path/filepath"
	"sort"
)

// projectConfigNames are checked in order in the working directory.
var projectConfigNames = []string{"todo.toml", ".todo.toml"}

// findProjectConfigFile returns the first project config file present in
// the working directory, or "".
func findProjectConfigFile() string {
	for _, name := range projectConfigNames {
		if fileExists(name) {
			return name
		}
	}
	return ""
}

// findUserConfigFile returns the user config file, or "".
// ~/.todo/todo.toml wins over <user config dir>/todo/todo.toml.
func findUserConfigFile() string {
	var candidates []string
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".todo", "todo.toml"))
	}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "todo", "todo.toml"))
	}
	for _, path := range candidates {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	*cfg = Config{
		TodoFile:  DefaultTodoFile,
		IDPolicy:  DefaultIDPolicy,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		WorkDir:   cfg.WorkDir,
	}
}

// GetConfigFile returns the config file with the highest priority that was
// read, or "" when no file was found.
func (cws *ConfigWithSources) GetConfigFile() string {
	if len(cws.Files) == 0 {
		return ""
	}
	return cws.Files[len(cws.Files)-1]
}

// Fields returns the tracked field names in sorted order.
func (cws *ConfigWithSources) Fields() []string {
	fields := make([]string, 0, len(cws.Sources))
	for field := range cws.Sources {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}
