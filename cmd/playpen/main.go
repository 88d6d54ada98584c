// ABOUTME: CLI entrypoint for playpen with one-shot run, terminal editor, and server modes.
// ABOUTME: Wires config, logging, the execution client, the editor orchestrator, metrics, and the run ledger.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/2389-research/playpen/config"
	"github.com/2389-research/playpen/docs"
	"github.com/2389-research/playpen/editor"
	"github.com/2389-research/playpen/logging"
	"github.com/2389-research/playpen/monitoring"
	"github.com/2389-research/playpen/playpen"
	"github.com/2389-research/playpen/runlog"
	"github.com/2389-research/playpen/runner"
	"github.com/2389-research/playpen/tui"
	"github.com/2389-research/playpen/web"
)

var version = "dev"

// cliFlags holds everything parsed from the command line.
type cliFlags struct {
	serverMode  bool
	tuiMode     bool
	addr        string
	configPath  string
	docsDir     string
	endpoint    string
	ledger      string
	verbose     bool
	showVersion bool
	sourceFile  string
}

func main() {
	loadDotEnv(".env")

	flags, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	if flags.showVersion {
		fmt.Printf("playpen %s\n", version)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, flags, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// parseFlags parses command-line arguments.
func parseFlags(args []string, stderr io.Writer) (cliFlags, error) {
	var f cliFlags

	fs := flag.NewFlagSet("playpen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&f.serverMode, "server", false, "Serve the docs site with live editors")
	fs.BoolVar(&f.tuiMode, "tui", false, "Edit and run a file in the terminal")
	fs.StringVar(&f.addr, "addr", "", "Server listen address")
	fs.StringVar(&f.configPath, "config", "", "YAML config file")
	fs.StringVar(&f.docsDir, "docs", "", "Directory of markdown pages")
	fs.StringVar(&f.endpoint, "endpoint", "", "Execution endpoint URL")
	fs.StringVar(&f.ledger, "ledger", "", "SQLite run ledger path, or \"default\"")
	fs.BoolVar(&f.verbose, "verbose", false, "Debug logging")
	fs.BoolVar(&f.showVersion, "version", false, "Print version and exit")
	fs.Usage = func() {
		printHelp(stderr, version)
	}

	if err := fs.Parse(args); err != nil {
		return f, err
	}
	if fs.NArg() > 0 {
		f.sourceFile = fs.Arg(0)
	}
	return f, nil
}

// loadConfig layers the config file, the environment, and flags.
func loadConfig(f cliFlags) (*config.Config, error) {
	path := f.configPath
	if path == "" {
		path = defaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}
	if f.docsDir != "" {
		cfg.Server.DocsDir = f.docsDir
	}
	if f.endpoint != "" {
		cfg.Runner.Endpoint = f.endpoint
	}
	if f.ledger != "" {
		cfg.Ledger.Path = f.ledger
	}
	if f.verbose {
		cfg.Log.Level = "debug"
		cfg.Log.Development = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run dispatches to the selected mode and returns the exit code.
func run(ctx context.Context, f cliFlags, stdout, stderr io.Writer) int {
	cfg, err := loadConfig(f)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.LoggingConfig())
	if err != nil {
		fmt.Fprintf(stderr, "warning: %v; using default logger\n", err)
		logger = logging.NewDefault()
	}
	defer func() { _ = logger.Sync() }()

	switch {
	case f.serverMode:
		return runServer(ctx, cfg, logger, stderr)
	case f.tuiMode:
		return runTUI(ctx, cfg, f.sourceFile, stderr)
	case f.sourceFile != "":
		return runFile(ctx, cfg, f.sourceFile, logger, stdout, stderr)
	default:
		printHelp(stderr, version)
		return 0
	}
}

func newClient(cfg *config.Config, logger *zap.Logger) *runner.Client {
	rc := cfg.RunnerConfig()
	rc.UserAgent = "playpen/" + version
	rc.Logger = logger.Named("runner")
	return runner.New(rc)
}

// runFile runs a source file once and prints the report as plain text.
// Error and transport failure outcomes exit 1.
func runFile(ctx context.Context, cfg *config.Config, path string, logger *zap.Logger, stdout, stderr io.Writer) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	result := newClient(cfg, logger).Run(ctx, string(src))
	report := playpen.Process(result, cfg.PlaypenOptions())

	fmt.Fprintln(stdout, report.Message.Plain())
	if report.Truncated {
		fmt.Fprintln(stderr, "note: output was shortened")
	}
	if len(report.Ranges) > 0 {
		lines := make([]string, len(report.Ranges))
		for i, r := range report.Ranges {
			lines[i] = fmt.Sprint(r.StartRow + 1)
		}
		fmt.Fprintf(stderr, "%s on line(s): %s\n", report.Kind, strings.Join(lines, ", "))
	}

	switch report.Status {
	case playpen.StatusError, playpen.StatusTransportFailure:
		return 1
	default:
		return 0
	}
}

// runTUI opens the terminal editor on path, or on an empty buffer.
func runTUI(ctx context.Context, cfg *config.Config, path string, stderr io.Writer) int {
	code := ""
	if path != "" {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		code = string(src)
	}

	// Log lines would tear the alternate screen.
	logger := zap.NewNop()
	store := editor.NewStore(1, cfg.Store.TTL)
	mount := store.Create(editor.MountSpec{Page: path, Language: cfg.Playpen.Languages[0], Code: code})
	orch := editor.NewOrchestrator(newClient(cfg, logger), cfg.PlaypenOptions(), logger)

	if err := tui.Run(ctx, orch, mount, cfg.Runner.Endpoint); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// app is the fully wired server.
type app struct {
	server *web.Server
	store  *editor.Store
	ledger *runlog.Ledger
}

func (a *app) Close() {
	if a.ledger != nil {
		_ = a.ledger.Close()
	}
}

// buildApp wires every server component from cfg.
func buildApp(cfg *config.Config, logger *zap.Logger) (*app, error) {
	metrics := monitoring.NewMetrics(nil)
	observers := []editor.Observer{metrics}

	var ledger *runlog.Ledger
	if cfg.Ledger.Path != "" {
		path, err := resolveLedgerPath(cfg.Ledger.Path)
		if err != nil {
			return nil, err
		}
		ledger, err = runlog.Open(path, logger.Named("runlog"))
		if err != nil {
			return nil, err
		}
		observers = append(observers, ledger)
		logger.Info("run ledger enabled", zap.String("path", path))
	}

	store := editor.NewStore(cfg.Store.MaxMounts, cfg.Store.TTL)
	store.OnEvict(func(m *editor.Mount) {
		logger.Debug("mount removed", zap.String("mount_id", m.ID), zap.String("page", m.Page))
	})
	metrics.TrackMounts(store.Len)

	orch := editor.NewOrchestrator(newClient(cfg, logger), cfg.PlaypenOptions(), logger.Named("editor"), observers...)
	editorServer := editor.NewServer(store, orch,
		editor.WithMaxBodySize(cfg.Server.MaxBodySize),
		editor.WithLogger(logger.Named("editor")),
		editor.WithDefaultLanguage(cfg.Playpen.Languages[0]),
	)

	site := docs.NewSite(os.DirFS(cfg.Server.DocsDir), docs.NewRenderer(cfg.Playpen.Languages...), 10*time.Minute)
	server, err := web.NewServer(web.ServerConfig{
		Addr:    cfg.Server.Addr,
		Site:    site,
		Host:    editor.NewHost(store),
		Editor:  editorServer,
		Metrics: metrics,
		Ledger:  ledger,
		Logger:  logger.Named("web"),
	})
	if err != nil {
		if ledger != nil {
			_ = ledger.Close()
		}
		return nil, err
	}
	return &app{server: server, store: store, ledger: ledger}, nil
}

// runServer serves until ctx is cancelled.
func runServer(ctx context.Context, cfg *config.Config, logger *zap.Logger, stderr io.Writer) int {
	if cfg.Runner.Endpoint == "" {
		logger.Warn("no execution endpoint configured; every run will report a transport failure")
	}
	a, err := buildApp(cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer a.Close()

	stopCleanup := a.store.StartCleanup(cfg.Store.CleanupInterval)
	defer stopCleanup()

	if err := a.server.Run(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
