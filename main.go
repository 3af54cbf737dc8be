package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/jquist/bookpress/book"
	"github.com/jquist/bookpress/config"
	"github.com/jquist/bookpress/lint"
	"github.com/jquist/bookpress/watch"
)

var CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"bookpress.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `help:"Print version and exit"`

	Build struct {
		Output string `short:"o" help:"Override the configured output directory"`
	} `cmd:"" help:"Render the book once"`

	Lint struct {
		Format string `short:"f" default:"text" enum:"text,json" help:"Output format (text or json)"`
		Quiet  bool   `short:"q" help:"Quiet mode: only show errors"`
		Path   string `arg:"" optional:"" help:"File or directory to lint (defaults to the configured source directory)"`
	} `cmd:"" help:"Check chapter sources for structural problems"`

	Watch struct {
		Debounce time.Duration `default:"400ms" help:"Quiet period before a rebuild is triggered"`
	} `cmd:"" help:"Rebuild the book whenever chapter sources change"`
}

func main() {
	// Optional .env overrides; a missing file is not an error.
	_ = godotenv.Load()

	kctx := kong.Parse(&CLI,
		kong.Name(APP_NAME),
		kong.Description("Renders a markdown book into linked static HTML chapters."),
		kong.Vars{"version": APP_SIGNATURE},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch kctx.Command() {
	case "build":
		cfg, logger := loadConfig()
		if CLI.Build.Output != "" {
			cfg.OutputDir = CLI.Build.Output
		}
		if err := runBuild(ctx, cfg, logger); err != nil {
			logger.Error("build", "error", err)
			os.Exit(1)
		}
	case "lint", "lint <path>":
		path := CLI.Lint.Path
		if path == "" {
			cfg, _ := loadConfig()
			path = cfg.SourceDir
		}
		runLint(path)
	case "watch":
		cfg, logger := loadConfig()
		if err := runWatch(ctx, cfg, logger); err != nil {
			logger.Error("watch", "error", err)
			os.Exit(1)
		}
	}
}

func loadConfig() (*config.Config, *slog.Logger) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("configuration", "path", CLI.Config, "error", err)
		os.Exit(1)
	}
	logger := newLogger(cfg.LogLevel, CLI.Verbose)
	slog.SetDefault(logger)
	return cfg, logger
}

func runBuild(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("building book", "title", cfg.Title, "source", cfg.SourceDir, "output", cfg.OutputDir)

	b := book.New(cfg, logger)
	result, err := b.Build(ctx)
	if err != nil {
		return err
	}

	for _, skipped := range result.Skipped {
		logger.Warn("chapter skipped", "source", skipped.Source, "error", skipped.Err)
	}
	logger.Info("build completed",
		"pages", result.Pages,
		"assets", result.Assets,
		"skipped", len(result.Skipped),
		"output", cfg.OutputDir)
	return nil
}

func runLint(path string) {
	linter := lint.NewLinter(&lint.Config{Quiet: CLI.Lint.Quiet})
	result, err := linter.LintPath(path)
	if err != nil {
		slog.Error("lint", "error", err)
		os.Exit(1)
	}

	formatter := lint.NewFormatter(CLI.Lint.Format)
	if err := formatter.Format(os.Stdout, result, path); err != nil {
		slog.Error("lint output", "error", err)
		os.Exit(1)
	}

	if result.HasErrors() {
		os.Exit(2)
	}
	if result.HasWarnings() && !CLI.Lint.Quiet {
		os.Exit(1)
	}
}

func runWatch(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	b := book.New(cfg, logger)

	rebuild := func(ctx context.Context) error {
		result, err := b.Build(ctx)
		if err != nil {
			return err
		}
		logger.Info("book rebuilt", "pages", result.Pages, "skipped", len(result.Skipped))
		return nil
	}

	if err := rebuild(ctx); err != nil {
		logger.Warn("initial build", "error", err)
	}

	logger.Info("watching for changes", "source", cfg.SourceDir, "debounce", CLI.Watch.Debounce)
	err := watch.Run(ctx, cfg.SourceDir, CLI.Watch.Debounce, logger, rebuild)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func newLogger(level string, verbose bool) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
