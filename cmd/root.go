// Package cmd implements the CLI command structure for todo.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/config"
	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/loop"
	"github.com/nibzard/todo-go/internal/todo"
	"github.com/nibzard/todo-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Default refresh interval for the tui command
const defaultRefreshInterval = 2 * time.Second

// menuActive is set while the interactive menu owns stdin.
var menuActive atomic.Bool

// MenuActive reports whether the interactive menu is running. The menu blocks
// on stdin and does not observe cancellation until the next line arrives.
func MenuActive() bool {
	return menuActive.Load()
}

// streams are the standard streams a command reads from and writes to.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// Run executes the todo CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, streams{in: os.Stdin, out: os.Stdout, err: os.Stderr})
}

func run(ctx context.Context, args []string, std streams) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.SetOutput(std.err)
	fs.Usage = func() {
		printUsage(fs, std.err)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, std.out)
		return nil
	}
	if *showVersion {
		return versionCommand(std.out)
	}

	// Determine the subcommand
	// If no args or first arg is a flag, use "run" as default
	subcommand := "run"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		if !strings.HasPrefix(remainingArgs[0], "-") {
			subcommand = remainingArgs[0]
			remainingArgs = remainingArgs[1:]
		}
	}

	switch subcommand {
	case "run":
		return runCommand(ctx, cfg, remainingArgs, std)
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs, std)
	case "check":
		return checkCommand(cfg, remainingArgs, std)
	case "config":
		return configCommand(cws, remainingArgs, std)
	case "schema":
		_, err := std.out.Write(todo.SchemaJSON())
		return err
	case "version":
		return versionCommand(std.out)
	case "help":
		printUsage(fs, std.out)
		return nil
	default:
		// An existing file in place of a command is the task file for run
		if fi, err := os.Stat(subcommand); err == nil && !fi.IsDir() {
			cfg.TodoFile = resolvePath(cfg, subcommand)
			return runCommand(ctx, cfg, remainingArgs, std)
		}
		fmt.Fprintf(std.err, "Unknown command: %s\n", subcommand)
		printUsage(fs, std.err)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// runCommand runs the interactive menu against the task file.
func runCommand(ctx context.Context, cfg *config.Config, args []string, std streams) error {
	fs := flag.NewFlagSet("todo run", flag.ContinueOnError)
	fs.SetOutput(std.err)
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	if len(remaining) == 1 {
		cfg.TodoFile = resolvePath(cfg, remaining[0])
	}

	logger, err := newLogger(cfg, std.err)
	if err != nil {
		return err
	}

	store := loadStore(cfg, logger)
	logger.Debug("session starting", "file", cfg.TodoFile, "id_policy", store.Policy(), "tasks", store.Len())

	l := loop.New(store, cfg.TodoFile,
		loop.WithInput(std.in),
		loop.WithOutput(std.out),
		loop.WithLogger(logger),
	)
	menuActive.Store(true)
	defer menuActive.Store(false)
	return l.Run(ctx)
}

// tuiCommand launches the read-only task viewer.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string, std streams) error {
	fs := flag.NewFlagSet("todo tui", flag.ContinueOnError)
	fs.SetOutput(std.err)
	interval := fs.Duration("interval", defaultRefreshInterval, "How often to re-read the task file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	todoPath := cfg.TodoFile
	if len(remaining) == 1 {
		todoPath = resolvePath(cfg, remaining[0])
	}

	return ui.RunTUI(ctx, todoPath,
		ui.WithRefreshInterval(*interval),
		ui.WithStoreOptions(cfg.StoreOptions()...),
	)
}

// checkCommand validates the task file without starting a session.
func checkCommand(cfg *config.Config, args []string, std streams) error {
	fs := flag.NewFlagSet("todo check", flag.ContinueOnError)
	fs.SetOutput(std.err)
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	todoPath := cfg.TodoFile
	if len(remaining) == 1 {
		todoPath = resolvePath(cfg, remaining[0])
	}

	store, err := todo.LoadStrict(todoPath, cfg.StoreOptions()...)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(std.out, "%s: not found (a session would start empty)\n", todoPath)
			return nil
		}
		return fmt.Errorf("%s: %w", todoPath, err)
	}

	pending, done := store.Counts()
	fmt.Fprintf(std.out, "%s: ok, %d tasks (%d pending, %d done)\n", todoPath, store.Len(), pending, done)
	if next := store.NextID(); containsID(store, next) {
		fmt.Fprintf(std.out, "warning: next task would reuse ID %d and replace an existing task\n", next)
	}
	return nil
}

// configCommand prints the effective configuration or an example file.
func configCommand(cws *config.ConfigWithSources, args []string, std streams) error {
	fs := flag.NewFlagSet("todo config", flag.ContinueOnError)
	fs.SetOutput(std.err)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *example {
		fmt.Fprint(std.out, config.ExampleConfig())
		return nil
	}

	configFile := cws.GetConfigFile()
	if configFile == "" {
		configFile = "(none)"
	}
	fmt.Fprintf(std.out, "Config file: %s\n\n", configFile)
	for _, field := range cws.Fields() {
		fmt.Fprintf(std.out, "%-15s = %-40s (%s)\n", field, cws.Config.Value(field), cws.Sources[field])
	}
	return nil
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "todo version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "todo - A small interactive task list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todo [options] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run [file]    Start the interactive menu (default command)")
	fmt.Fprintln(w, "  tui [file]    Watch the task file in a terminal viewer")
	fmt.Fprintln(w, "  check [file]  Validate the task file")
	fmt.Fprintln(w, "  config        Show the effective configuration")
	fmt.Fprintln(w, "  schema        Print the task file JSON schema")
	fmt.Fprintln(w, "  version       Show version information")
	fmt.Fprintln(w, "  help          Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tui Options (use with 'tui' command):")
	fmt.Fprintln(w, "  -interval duration")
	fmt.Fprintf(w, "        How often to re-read the task file (default %s)\n", defaultRefreshInterval)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options (use with 'config' command):")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print an example config file")
}

// newLogger builds the diagnostics logger from the logging settings.
func newLogger(cfg *config.Config, w io.Writer) (*log.Logger, error) {
	opts, err := logging.ParseOptions(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	if err != nil {
		return nil, fmt.Errorf("configuring logger: %w", err)
	}
	return logging.New(w, opts), nil
}

// loadStore reads the task file. A missing or invalid file yields an empty store.
func loadStore(cfg *config.Config, logger *log.Logger) *todo.Store {
	store, err := todo.Load(cfg.TodoFile, cfg.StoreOptions()...)
	if err != nil {
		logger.Debug("starting with an empty task list", "file", cfg.TodoFile, "err", err)
	}
	return store
}

func containsID(store *todo.Store, id int) bool {
	_, ok := store.Get(id)
	return ok
}

func resolvePath(cfg *config.Config, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cfg.WorkDir, path)
}
