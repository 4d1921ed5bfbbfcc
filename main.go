package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type cliOptions struct {
	configPath  string
	libraryPath string
	logLevel    string
	store       string
}

func newRootCmd() *cobra.Command {
	var opts cliOptions

	cmd := &cobra.Command{
		Use:   "spread [path]",
		Short: "Two-page comic and manga viewer",
		Long: `spread shows a folder of page images, or a zip/cbz, rar/cbr or 7z/cb7
archive, as a two-page spread. The reading position of every folder is
remembered between runs.

Without a path, drop a folder or archive on the window, or open the
library given by --library.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var startPath string
			if len(args) == 1 {
				startPath = args[0]
			}
			return run(cmd.Context(), opts, startPath)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "configuration file (default ~/"+configFileName+")")
	flags.StringVarP(&opts.libraryPath, "library", "l", "", "library folder shown as a cover grid")
	flags.StringVar(&opts.logLevel, "log-level", "", "console log level: none, normal or debug")
	flags.StringVar(&opts.store, "store", "", "reading state backend: badger, json or memory")
	return cmd
}

// applyFlags overrides configuration values given on the command line
func applyFlags(config *Config, opts cliOptions) error {
	if opts.libraryPath != "" {
		config.LibraryPath = opts.libraryPath
	}
	if opts.logLevel != "" {
		config.Logging.Level = opts.logLevel
	}
	if opts.store != "" {
		config.State.Backend = opts.store
	}
	if err := configValidator.Struct(config.Logging); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", opts.logLevel, err)
	}
	if err := configValidator.Struct(config.State); err != nil {
		return fmt.Errorf("invalid --store %q: %w", opts.store, err)
	}
	return nil
}

// openStateStore opens the configured backend. A nil store means reading
// positions are not persisted.
func openStateStore(ctx context.Context, config *Config, log *zap.Logger) (*StateStore, error) {
	if !config.Persistence {
		return nil, nil
	}

	var (
		kv  KVStore
		err error
	)
	switch config.State.Backend {
	case BackendMemory:
		kv = NewMemoryStore()
	case BackendJSON:
		kv, err = NewJSONFileStore(config.StatePath())
	default:
		kv, err = NewBadgerStore(ctx, config.StatePath())
	}
	if err != nil {
		return nil, err
	}
	return NewStateStore(kv, time.Now, log.Named("store")), nil
}

func run(ctx context.Context, opts cliOptions, startPath string) (err error) {
	configPath := opts.configPath
	if configPath == "" {
		configPath = getConfigPath()
	}
	result := loadConfigFromPath(configPath)
	if err := applyFlags(&result.Config, opts); err != nil {
		return err
	}
	config := result.Config

	log, closeLog, err := NewLogger(config.Logging)
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
		err = multierr.Append(err, closeLog())
	}()

	log.Debug("Configuration loaded", zap.String("path", configPath), zap.String("status", result.Status))
	for _, w := range result.Warnings {
		log.Warn("Configuration", zap.String("warning", w))
	}

	store, err := openStateStore(ctx, &config, log)
	if err != nil {
		// Another instance may hold the database; keep going without persistence
		log.Error("Unable to open state store, reading positions will not be saved",
			zap.String("backend", config.State.Backend), zap.Error(err))
		store = nil
	}
	if store != nil {
		defer func() { err = multierr.Append(err, store.Close()) }()
	}

	viewer, err := NewViewer(ctx, ViewerOptions{
		Config:      result,
		ConfigPath:  configPath,
		Store:       store,
		StartPath:   startPath,
		LibraryPath: config.LibraryPath,
		Log:         log,
	})
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, viewer.Close()) }()

	ebiten.SetWindowTitle(appName)
	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowSizeLimits(minWidth, minHeight, -1, -1)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetFullscreen(config.Fullscreen)

	if err := ebiten.RunGame(viewer); err != nil {
		return fmt.Errorf("viewer stopped: %w", err)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
