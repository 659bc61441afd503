// Package config tests configuration loading.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/todo-go/internal/todo"
)

// isolate points HOME and the config dirs at an empty temp tree and makes a
// fresh working directory current, so no real config file leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, key := range []string{
		"TODO_FILE", "TODO_ID_POLICY", "TODO_LOG_LEVEL",
		"TODO_LOG_FORMAT", "TODO_LOG_TIMESTAMPS", "TODO_LOG_CALLER",
	} {
		t.Setenv(key, "")
	}

	wd := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(wd); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(orig) })

	// Resolve symlinks (macOS /var -> /private/var) to match os.Getwd.
	if resolved, err := os.Getwd(); err == nil {
		wd = resolved
	}
	return wd
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.TodoFile != DefaultTodoFile {
		t.Errorf("TodoFile: got %q, want %q", cfg.TodoFile, DefaultTodoFile)
	}
	if cfg.IDPolicy != DefaultIDPolicy {
		t.Errorf("IDPolicy: got %q, want %q", cfg.IDPolicy, DefaultIDPolicy)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel: got %q, want warn", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat: got %q, want text", cfg.LogFormat)
	}
}

func TestLoadWithoutOverrides(t *testing.T) {
	wd := isolate(t)

	cws, err := LoadWithSources(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	want := filepath.Join(wd, "todos.json")
	if cfg.TodoFile != want {
		t.Errorf("TodoFile: got %q, want %q", cfg.TodoFile, want)
	}
	if cfg.IDPolicy != "count" {
		t.Errorf("IDPolicy: got %q, want count", cfg.IDPolicy)
	}
	if cfg.WorkDir != wd {
		t.Errorf("WorkDir: got %q, want %q", cfg.WorkDir, wd)
	}
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("TODO_FILE", "custom-todo.json")
	t.Setenv("TODO_ID_POLICY", "max")
	t.Setenv("TODO_LOG_LEVEL", "debug")
	t.Setenv("TODO_LOG_TIMESTAMPS", "yes")

	cfg := &Config{}
	setDefaults(cfg)
	loadFromEnvHelper(cfg, nil, "")

	if cfg.TodoFile != "custom-todo.json" {
		t.Errorf("TodoFile: got %q, want custom-todo.json", cfg.TodoFile)
	}
	if cfg.IDPolicy != "max" {
		t.Errorf("IDPolicy: got %q, want max", cfg.IDPolicy)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
	if !cfg.LogTimestamps {
		t.Error("LogTimestamps: got false, want true")
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "todo.toml")

	content := []byte(`todo_file = "custom.json"
id_policy = "max"
`)
	if err := os.WriteFile(configFile, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{}
	setDefaults(cfg)
	if err := loadConfigFileWithSources(cfg, configFile, nil, ""); err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}

	if cfg.TodoFile != "custom.json" {
		t.Errorf("TodoFile: got %q, want custom.json", cfg.TodoFile)
	}
	if cfg.IDPolicy != "max" {
		t.Errorf("IDPolicy: got %q, want max", cfg.IDPolicy)
	}
	// Keys absent from the file keep their previous value.
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel: got %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
}

func TestLoadConfigFileUnknownKey(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "todo.toml")
	if err := os.WriteFile(configFile, []byte("max_iterations = 5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{}
	if err := loadConfigFileWithSources(cfg, configFile, nil, ""); err == nil {
		t.Error("loadConfigFile should reject unknown keys")
	}
}

func TestLoadPriority(t *testing.T) {
	wd := isolate(t)
	home := os.Getenv("HOME")

	userDir := filepath.Join(home, ".todo")
	if err := os.MkdirAll(userDir, 0755); err != nil {
		t.Fatal(err)
	}
	userCfg := "todo_file = \"user.json\"\nid_policy = \"max\"\nlog_format = \"json\"\n"
	if err := os.WriteFile(filepath.Join(userDir, "todo.toml"), []byte(userCfg), 0644); err != nil {
		t.Fatal(err)
	}

	projCfg := "todo_file = \"project.json\"\nlog_level = \"info\"\n"
	if err := os.WriteFile(filepath.Join(wd, "todo.toml"), []byte(projCfg), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TODO_LOG_LEVEL", "error")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cws, err := LoadWithSources(fs, []string{"-log-caller"})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	tests := []struct {
		field  string
		value  string
		source ConfigSource
	}{
		{"todo_file", filepath.Join(wd, "project.json"), SourceProjFile},
		{"id_policy", "max", SourceUserFile},
		{"log_format", "json", SourceUserFile},
		{"log_level", "error", SourceEnv},
		{"log_caller", "true", SourceFlag},
		{"log_timestamps", "false", SourceDefault},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if got := cfg.Value(tt.field); got != tt.value {
				t.Errorf("value: got %q, want %q", got, tt.value)
			}
			if got := cws.Sources[tt.field]; got != tt.source {
				t.Errorf("source: got %q, want %q", got, tt.source)
			}
		})
	}

	if got := cws.GetConfigFile(); got != "todo.toml" {
		t.Errorf("GetConfigFile: got %q, want todo.toml", got)
	}
}

func TestParseFlags(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	args := []string{
		"--file", "flag-todo.json",
		"--id-policy", "max",
		"--log-format", "logfmt",
		"menu",
	}

	if err := parseFlagsHelper(cfg, fs, args, nil, ""); err != nil {
		t.Fatalf("parseFlagsHelper: %v", err)
	}

	if cfg.TodoFile != "flag-todo.json" {
		t.Errorf("TodoFile: got %q, want flag-todo.json", cfg.TodoFile)
	}
	if cfg.IDPolicy != "max" {
		t.Errorf("IDPolicy: got %q, want max", cfg.IDPolicy)
	}
	if cfg.LogFormat != "logfmt" {
		t.Errorf("LogFormat: got %q, want logfmt", cfg.LogFormat)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel changed without flag: got %q", cfg.LogLevel)
	}
	if rest := fs.Args(); len(rest) != 1 || rest[0] != "menu" {
		t.Errorf("remaining args: got %v, want [menu]", rest)
	}
}

func TestFinalizeConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"max policy", func(c *Config) { c.IDPolicy = "MAX" }, false},
		{"bad policy", func(c *Config) { c.IDPolicy = "random" }, true},
		{"fatal level", func(c *Config) { c.LogLevel = "fatal" }, false},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"blank file", func(c *Config) { c.TodoFile = "  " }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{WorkDir: t.TempDir()}
			setDefaults(cfg)
			tt.mutate(cfg)

			err := finalizeConfig(cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("finalizeConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !filepath.IsAbs(cfg.TodoFile) {
				t.Errorf("TodoFile should be absolute, got %q", cfg.TodoFile)
			}
		})
	}
}

func TestStoreOptions(t *testing.T) {
	cfg := &Config{IDPolicy: "max"}
	s := todo.NewStore(cfg.StoreOptions()...)
	if s.Policy() != todo.IDPolicyMax {
		t.Errorf("Policy: got %q, want %q", s.Policy(), todo.IDPolicyMax)
	}

	cfg.IDPolicy = "bogus"
	s = todo.NewStore(cfg.StoreOptions()...)
	if s.Policy() != todo.IDPolicyCount {
		t.Errorf("Policy: got %q, want %q", s.Policy(), todo.IDPolicyCount)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	t.Setenv("TODO_TEST_DIR", "tasks")
	tests := []struct {
		input string
		want  string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"~", home},
		{"~other/test", "~other/test"},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
		{"$TODO_TEST_DIR/todos.json", "tasks/todos.json"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := expandPath(tt.input)
			if got != tt.want {
				t.Errorf("expandPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBoolFromString(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"off", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := boolFromString(tt.input)
			if got != tt.want {
				t.Errorf("boolFromString(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestExampleConfigDecodes(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "todo.toml")
	if err := os.WriteFile(configFile, []byte(ExampleConfig()), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{}
	if err := loadConfigFileWithSources(cfg, configFile, nil, ""); err != nil {
		t.Fatalf("example config should decode: %v", err)
	}
	if cfg.TodoFile != DefaultTodoFile {
		t.Errorf("TodoFile: got %q, want %q", cfg.TodoFile, DefaultTodoFile)
	}
}

func TestUserConfigDirFallback(t *testing.T) {
	isolate(t)

	dir, err := os.UserConfigDir()
	if err != nil {
		t.Skip("no user config dir")
	}
	path := filepath.Join(dir, "todo", "todo.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("id_policy = \"max\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cws, err := LoadWithSources(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	if cws.Config.IDPolicy != "max" {
		t.Errorf("IDPolicy: got %q, want max", cws.Config.IDPolicy)
	}
	if cws.Sources["id_policy"] != SourceUserFile {
		t.Errorf("source: got %q, want %q", cws.Sources["id_policy"], SourceUserFile)
	}
	if got := cws.GetConfigFile(); got != path {
		t.Errorf("GetConfigFile: got %q, want %q", got, path)
	}
}

func TestExampleConfigListsLogLevels(t *testing.T) {
	var levelLine string
	for _, line := range strings.Split(ExampleConfig(), "\n") {
		if strings.HasPrefix(line, "log_level") {
			levelLine = line
		}
	}
	if levelLine == "" {
		t.Fatal("example config has no log_level line")
	}

	for _, level := range []string{"debug", "info", "warn", "error", "fatal"} {
		t.Run(level, func(t *testing.T) {
			if !strings.Contains(levelLine, level) {
				t.Errorf("log_level comment should list %q: %s", level, levelLine)
			}
			cfg := &Config{WorkDir: t.TempDir()}
			setDefaults(cfg)
			cfg.LogLevel = level
			if err := finalizeConfig(cfg); err != nil {
				t.Errorf("finalizeConfig rejected %q: %v", level, err)
			}
		})
	}
}
