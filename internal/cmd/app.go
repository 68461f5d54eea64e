// Package cmd implements the wheelhost command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/wheelkit/wheelhost/application/commands"
	"github.com/wheelkit/wheelhost/application/files"
	"github.com/wheelkit/wheelhost/application/wheel"
	"github.com/wheelkit/wheelhost/config"
	"github.com/wheelkit/wheelhost/domain/ports"
	"github.com/wheelkit/wheelhost/hostfuncs"
	"github.com/wheelkit/wheelhost/infrastructure/fsreader"
	"github.com/wheelkit/wheelhost/infrastructure/wheelstore"
	wheellog "github.com/wheelkit/wheelhost/log"
)

// App is the wired application shared by every subcommand.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Registry *hostfuncs.HandlerRegistry
	Store    ports.WheelStore
}

// Close releases the wheel store.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

// AppBuilder collects flag values and builds the App on demand.
type AppBuilder struct {
	configPath string
	logLevel   string
	logWriter  io.Writer
	reader     ports.FileReader
	app        *App
}

// NewAppBuilder returns an empty builder.
func NewAppBuilder() *AppBuilder {
	return &AppBuilder{}
}

// WithConfigPath sets the config file to load.
func (b *AppBuilder) WithConfigPath(path string) *AppBuilder {
	b.configPath = path
	return b
}

// WithLogLevel overrides the configured log level when non-empty.
func (b *AppBuilder) WithLogLevel(level string) *AppBuilder {
	b.logLevel = level
	return b
}

// WithLogWriter sends logs to w instead of stderr.
func (b *AppBuilder) WithLogWriter(w io.Writer) *AppBuilder {
	b.logWriter = w
	return b
}

// WithFileReader replaces the filesystem used by the file commands.
func (b *AppBuilder) WithFileReader(reader ports.FileReader) *AppBuilder {
	b.reader = reader
	return b
}

// Build loads the configuration and wires store, services and registry.
func (b *AppBuilder) Build(ctx context.Context) error {
	cfg, err := config.Load(b.configPath)
	if err != nil {
		return err
	}
	if b.logLevel != "" {
		cfg.Log.Level = b.logLevel
	}

	logger, err := wheellog.New(wheellog.Options{
		Writer: b.logWriter,
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	store, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}

	reader := b.reader
	if reader == nil {
		reader = fsreader.New()
	}

	fileSvc := files.NewService(reader,
		files.WithAllowedRoots(cfg.Files.AllowedRoots...),
		files.WithMaxSize(cfg.Files.MaxSize),
	)
	wheelSvc := wheel.NewService(store,
		wheel.WithPersistKey(cfg.Wheel.PersistKey),
		wheel.WithLogger(logger.With("component", "wheel")),
	)

	registry, err := hostfuncs.NewRegistry(
		hostfuncs.WithMiddleware(
			hostfuncs.PanicRecoveryMiddleware(),
			hostfuncs.LoggingMiddleware(logger),
		),
		hostfuncs.WithBundle(hostfuncs.Combine(
			commands.AppBundle(fileSvc),
			commands.WheelBundle(wheelSvc),
		)),
	)
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("failed to build command registry: %w", err)
	}

	logger.Debug("application ready", "store", store.Location(), "commands", len(registry.Names()))
	b.app = &App{Config: cfg, Logger: logger, Registry: registry, Store: store}
	return nil
}

// App returns the built application. Build must have succeeded.
func (b *AppBuilder) App() *App {
	return b.app
}

// Close releases the built application, if any.
func (b *AppBuilder) Close() error {
	if b.app == nil {
		return nil
	}
	err := b.app.Close()
	b.app = nil
	return err
}

func openStore(ctx context.Context, cfg config.StoreConfig) (ports.WheelStore, error) {
	switch cfg.Driver {
	case config.DriverYAML:
		return wheelstore.NewFileStore(
			wheelstore.WithPath(cfg.Path),
			wheelstore.WithFilePermissions(os.FileMode(cfg.FileMode)),
			wheelstore.WithDirPermissions(os.FileMode(cfg.DirMode)),
		), nil
	case config.DriverSQLite:
		return wheelstore.NewSQLiteStore(ctx, cfg.Path)
	default:
		return nil, errors.New("unknown store driver: " + cfg.Driver)
	}
}
