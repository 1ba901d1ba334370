package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/repartd/internal/cluster"
	"github.com/vk/repartd/internal/ctxlog"
	"github.com/vk/repartd/internal/executor"
	"github.com/vk/repartd/internal/hcl"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	model  *hcl.Model
	sender cluster.Sender
	exec   executor.TaskExecutor
}

// Option overrides one of the App's default collaborators, primarily for
// tests.
type Option func(*App)

// WithSender replaces the HTTP command sender.
func WithSender(sender cluster.Sender) Option {
	return func(a *App) { a.sender = sender }
}

// WithExecutor replaces the batch executor.
func WithExecutor(exec executor.TaskExecutor) Option {
	return func(a *App) { a.exec = exec }
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and a loaded
// cluster/job model. A configuration that cannot be loaded is a fatal
// startup error and panics.
func NewApp(outW io.Writer, cfg *Config, loader *hcl.Loader, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	var paths []string
	if cfg.ClusterPath != "" {
		paths = append(paths, cfg.ClusterPath)
	}
	if cfg.JobPath != "" {
		paths = append(paths, cfg.JobPath)
	}

	model, err := loader.Load(ctx, paths...)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Cluster and job configuration loaded.",
		"workers", len(model.Workers), "tasks", len(model.AllTasks))

	a := &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		model:  model,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.sender == nil {
		a.sender = cluster.NewHTTPSender(nil)
	}
	if a.exec == nil {
		a.exec = executor.NewPool(a.sender, cluster.MaintenanceIdentity)
	}
	return a
}

// Model returns the loaded cluster/job model. This is primarily for testing.
func (a *App) Model() *hcl.Model {
	return a.model
}
