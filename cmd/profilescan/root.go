package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sydlexius/profilescan/internal/config"
	"github.com/sydlexius/profilescan/internal/database"
	"github.com/sydlexius/profilescan/internal/history"
	"github.com/sydlexius/profilescan/internal/logging"
	"github.com/sydlexius/profilescan/internal/publish"
	"github.com/sydlexius/profilescan/internal/scan"
	"github.com/sydlexius/profilescan/internal/scope"
	"github.com/sydlexius/profilescan/internal/term"
	"github.com/sydlexius/profilescan/internal/version"
)

const cliExecutable = "profilescan"

// options carries the persistent flags shared by every subcommand.
type options struct {
	configPath string
	pathsFile  string
	scope      string
	noPush     bool
	logLevel   string
	color      string
}

// app is the state built by the root command's pre-run hook.
type app struct {
	cfg        *config.Config
	logManager *logging.Manager
	logger     *slog.Logger
}

func defaultConfigPath() string {
	if p := os.Getenv("PS_CONFIG_PATH"); p != "" {
		return p
	}
	return "profilescan.yaml"
}

func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var (
		opts options
		a    app
	)

	cmd := &cobra.Command{
		Use:   cliExecutable,
		Short: "Validate color profiles and refresh highway thumbnails",
		Long: "profilescan checks color-profile INI files for required hex colors, " +
			"regenerates highway thumbnails, writes text and JSON summaries, and " +
			"publishes the results with git.",
		Version: version.String(),
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, &opts, stderr)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.logManager != nil {
				return a.logManager.Close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runScan(cmd.Context(), &opts, stdin, stdout)
		},
	}
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", defaultConfigPath(), "Configuration file path")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override the log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&opts.pathsFile, "paths", "", "Override the key=value paths file")
	cmd.Flags().StringVarP(&opts.scope, "scope", "s", "", "Scan scope: T (test), A (actual) or B (both); prompts when omitted")
	cmd.Flags().BoolVar(&opts.noPush, "no-push", false, "Skip the git commit and push")
	cmd.Flags().StringVar(&opts.color, "color", "", "Console colors: auto, always or never")

	cmd.AddCommand(newHistoryCommand(&a, stdout))
	cmd.AddCommand(newVersionCommand(stdout))
	return cmd
}

// setup loads the configuration, applies flag overrides and starts logging.
func (a *app) setup(cmd *cobra.Command, opts *options, stderr io.Writer) error {
	if opts.logLevel != "" && !logging.ValidLevel(opts.logLevel) {
		return fmt.Errorf("invalid log level: %q", opts.logLevel)
	}

	logManager, logger := logging.NewManager(stderr, logging.DefaultConfig())
	a.logManager = logManager
	a.logger = logger

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("paths") {
		cfg.PathsFile = opts.pathsFile
	}
	if flags.Changed("no-push") && opts.noPush {
		cfg.Publish.Enabled = false
	}
	if flags.Changed("color") {
		cfg.Console.Color = opts.color
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	logManager.Reconfigure(logging.Config{
		Level:          cfg.Logging.Level,
		Format:         cfg.Logging.Format,
		FilePath:       cfg.Logging.FilePath,
		FileMaxSizeMB:  cfg.Logging.FileMaxSizeMB,
		FileMaxFiles:   cfg.Logging.FileMaxFiles,
		FileMaxAgeDays: cfg.Logging.FileMaxAgeDays,
	})
	logger.Debug("configuration loaded",
		slog.String("config", opts.configPath),
		slog.String("paths_file", cfg.PathsFile),
		slog.String("version", version.Version),
		slog.String("commit", version.Commit))
	return nil
}

func (a *app) runScan(ctx context.Context, opts *options, stdin io.Reader, stdout io.Writer) error {
	paths, err := config.LoadPaths(a.cfg.PathsFile)
	if err != nil {
		return fmt.Errorf("loading paths: %w", err)
	}

	palette := term.Resolve(a.cfg.Console.Color, stdout)
	a.logger.Debug("console output",
		slog.String("color_mode", a.cfg.Console.Color),
		slog.Bool("colors", palette.Enabled()))

	var sc scope.Scope
	if opts.scope != "" {
		sc, err = scope.Parse(opts.scope)
		if err != nil {
			return err
		}
	} else {
		sc, err = scope.Prompt(ctx, stdin, stdout, palette)
		if err != nil {
			return err
		}
	}

	runner := &scan.Runner{
		Config:    a.cfg,
		Paths:     paths,
		Publisher: a.publisher(),
		Out:       stdout,
		Palette:   palette,
		Logger:    a.logger,
	}

	if a.cfg.History.Enabled {
		db, err := a.openHistory(ctx)
		if err != nil {
			a.logger.Warn("scan history unavailable", slog.String("error", err.Error()))
		} else {
			defer func() {
				if err := db.Close(); err != nil {
					a.logger.Error("closing database", slog.String("error", err.Error()))
				}
			}()
			runner.Recorder = history.NewStore(db)
		}
	}

	sum, err := runner.Run(ctx, sc)
	if err != nil {
		return fmt.Errorf("scan interrupted: %w", err)
	}
	a.logger.Info("scan complete",
		slog.String("id", sum.ID),
		slog.Int("errors", sum.TotalErrors()),
		slog.Int("warnings", sum.TotalWarnings()))
	return nil
}

func (a *app) publisher() publish.Publisher {
	if !a.cfg.Publish.Enabled {
		return publish.Noop{}
	}
	g := &publish.Git{
		Remote: a.cfg.Publish.Remote,
		Branch: a.cfg.Publish.Branch,
	}
	if a.cfg.History.Enabled {
		if pattern, ok := publish.ExcludeWithin(g.Dir, a.cfg.History.Path); ok {
			g.Exclude = append(g.Exclude, pattern)
		}
	}
	return g
}

// openHistory opens and migrates the run history database.
func (a *app) openHistory(ctx context.Context) (*sql.DB, error) {
	db, err := database.Open(ctx, a.cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	a.logger.Debug("database ready", slog.String("path", a.cfg.History.Path))
	return db, nil
}
