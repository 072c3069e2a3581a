package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/1broseidon/wingeom/internal/config"
	"github.com/1broseidon/wingeom/internal/inspect"
	"github.com/1broseidon/wingeom/internal/logging"
	"github.com/1broseidon/wingeom/internal/platform"
)

// Replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printMainUsage(stdout)
		return 0
	}

	switch args[0] {
	case "window":
		return runWindow(args[1:])
	case "foreground":
		return runForeground(args[1:])
	case "desktop":
		return runDesktop(args[1:])
	case "taskbar":
		return runTaskbar(args[1:])
	case "style":
		return runStyle(args[1:])
	case "dpi":
		return runDPI(args[1:])
	case "config":
		return runConfig(args[1:])
	case "mcp":
		return runMCP(args[1:])
	case "help", "-h", "--help":
		printMainUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printMainUsage(stderr)
		return 2
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wingeom <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  window <hwnd>       Inspect one window")
	fmt.Fprintln(w, "  foreground          Inspect the foreground window")
	fmt.Fprintln(w, "  desktop             Show desktop-wide state")
	fmt.Fprintln(w, "  taskbar             Show the taskbar edge and rectangle")
	fmt.Fprintln(w, "  style               Show visual style, OS family and border width")
	fmt.Fprintln(w, "  dpi [hwnd]          Show DPI scale and awareness")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Common options:")
	fmt.Fprintln(w, "  --path PATH         Config file (default: $WINGEOM_CONFIG or ~/.config/wingeom/config.yaml)")
	fmt.Fprintln(w, "  --fixture FILE      Answer from a YAML fixture instead of the live desktop")
	fmt.Fprintln(w, "  --log-level LEVEL   debug, info, warning or error")
	fmt.Fprintln(w, "  --output FORMAT     auto, text, json or yaml")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'wingeom <command> --help' for command-specific options.")
}

// commonFlags are accepted by every inspection command.
type commonFlags struct {
	path     string
	fixture  string
	logLevel string
	output   string
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	c := &commonFlags{}
	fs.StringVar(&c.path, "path", "", "Config file path (default: $WINGEOM_CONFIG or ~/.config/wingeom/config.yaml)")
	fs.StringVar(&c.fixture, "fixture", "", "YAML fixture to inspect instead of the live desktop")
	fs.StringVar(&c.logLevel, "log-level", "", "Log level override (debug, info, warning, error)")
	fs.StringVar(&c.output, "output", "", "Output format (auto, text, json, yaml)")
	return c
}

func newFlagSet(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: wingeom %s\n\nOptions:\n", usage)
		fs.PrintDefaults()
	}
	return fs
}

// parseFlags returns an exit code and false when the command should stop.
func parseFlags(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}

// session holds everything an inspection command needs.
type session struct {
	cfg       *config.Config
	logger    *slog.Logger
	inspector *inspect.Inspector
	format    string

	closers []func()
}

func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func openSession(c *commonFlags) (*session, error) {
	res, err := loadConfig(c.path)
	if err != nil {
		return nil, err
	}
	cfg := res.Config
	s := &session{cfg: cfg}

	level := cfg.LogLevel
	if c.logLevel != "" {
		level = c.logLevel
	}
	logCfg := cfg.GetLoggingConfig()
	logger, logCloser, err := logging.New(logging.Options{
		Level:     level,
		File:      logCfg.File,
		MaxSizeMB: logCfg.MaxSizeMB,
		MaxFiles:  logCfg.MaxFiles,
		Stderr:    stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	s.logger = logger
	s.closers = append(s.closers, func() { logCloser.Close() })

	format, err := resolveFormat(c.output, cfg.Output, stdout)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.format = format

	q, err := openBackend(c.fixture, cfg.Fixture, logger)
	if err != nil {
		s.Close()
		return nil, err
	}
	if closer, ok := q.(interface{ Close() }); ok {
		s.closers = append(s.closers, closer.Close)
	}

	in, err := inspect.New(q, inspect.Options{
		Classify:     cfg.ClassifyOptions(),
		TaskbarClass: cfg.TaskbarClass,
		Logger:       logger,
	})
	if err != nil {
		s.Close()
		return nil, err
	}
	s.inspector = in
	return s, nil
}

// closingQuery attaches the native backend's release function.
type closingQuery struct {
	platform.Query
	release func()
}

func (c closingQuery) Close() { c.release() }

// openBackend picks the flag fixture, then the configured fixture, then
// the native backend.
func openBackend(flagFixture, cfgFixture string, logger *slog.Logger) (platform.Query, error) {
	path := flagFixture
	if path == "" {
		path = cfgFixture
	}
	if path != "" {
		logger.Debug("using fixture backend", "path", path)
		return platform.LoadFixture(path)
	}
	q, release, err := platform.NewNativeBackend()
	if err != nil {
		return nil, err
	}
	logger.Debug("using native backend")
	return closingQuery{Query: q, release: release}, nil
}

// resolveFormat applies the flag over the configured value. auto means
// text on a terminal and JSON otherwise.
func resolveFormat(flagValue, cfgValue string, w io.Writer) (string, error) {
	format := strings.ToLower(strings.TrimSpace(flagValue))
	if format == "" {
		format = cfgValue
	}
	switch format {
	case config.OutputText, config.OutputJSON, config.OutputYAML:
		return format, nil
	case config.OutputAuto, "":
		if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return config.OutputText, nil
		}
		return config.OutputJSON, nil
	default:
		return "", fmt.Errorf("invalid output format %q (want auto, text, json or yaml)", format)
	}
}

func (s *session) render(v any) int {
	if err := inspect.Render(stdout, s.format, v); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
