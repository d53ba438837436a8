// Package app provides the application context and dependency management
// for the meshsync CLI. It centralizes configuration, logging, and client
// construction so commands stay thin.
package app

import (
	"github.com/rs/zerolog"

	"github.com/denvermesh/meshsync/internal/sources/letsmesh"
	"github.com/denvermesh/meshsync/internal/sources/meshmapper"
	"github.com/denvermesh/meshsync/pkg/errors"
	"github.com/denvermesh/meshsync/pkg/sync"
)

// App represents the meshsync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, &errors.ConfigError{Component: "app", Message: "load config", Err: err}
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version string.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Syncer builds a sync orchestrator from the current configuration.
func (a *App) Syncer() *sync.Syncer {
	return sync.New(
		sync.WithMeshMapper(a.MeshMapperClient()),
		sync.WithLetsMesh(a.LetsMeshClient()),
	)
}

// MeshMapperClient builds a MeshMapper client from the current configuration.
func (a *App) MeshMapperClient() *meshmapper.Client {
	return meshmapper.NewClient(meshmapper.WithURL(a.config.MeshMapperURL))
}

// LetsMeshClient builds a LetsMesh client from the current configuration.
func (a *App) LetsMeshClient() *letsmesh.Client {
	return letsmesh.NewClient(
		letsmesh.WithBaseURL(a.config.LetsMeshURL),
		letsmesh.WithRegion(a.config.Region),
	)
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}
