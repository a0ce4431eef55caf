package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"testplanner/internal/config"
	"testplanner/internal/server"
	"testplanner/pkg/logging"
)

// Application represents the main application structure that bootstraps and runs testplanner.
// It encapsulates the loaded configuration and the initialized services.
//
// The Application follows a two-phase initialization pattern:
//  1. Bootstrap phase: Load configuration, initialize logging, setup services
//  2. Execution phase: Serve the API (Run) or drive a single CLI command
//
// Example usage:
//
//	cfg := app.NewConfig(false, false, configPath)
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	return application.Run(ctx)
type Application struct {
	config   *Config
	services *Services
}

// NewApplication creates and initializes a new application instance with the provided configuration.
// This function performs the complete bootstrap sequence:
//
//  1. Configures logging based on debug settings
//  2. Loads configuration from cfg.ConfigPath unless cfg.Settings is already set
//  3. Re-initializes logging with the configured level and format
//  4. Initializes all required services and API handlers
func NewApplication(cfg *Config) (*Application, error) {
	appLogLevel := logging.LevelInfo
	if cfg.Debug {
		appLogLevel = logging.LevelDebug
	}

	var logOutput io.Writer = os.Stderr
	if cfg.Silent {
		logOutput = io.Discard
	}
	logging.InitForCLI(appLogLevel, logOutput)

	if cfg.Settings == nil {
		if cfg.ConfigPath == "" {
			cfg.ConfigPath = config.GetDefaultConfigPathOrPanic()
		}
		settings, err := config.LoadConfig(cfg.ConfigPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load configuration from path: %s", cfg.ConfigPath)
			return nil, fmt.Errorf("failed to load configuration from path %s: %w", cfg.ConfigPath, err)
		}
		cfg.Settings = &settings
	}

	if !cfg.Debug && !cfg.Silent {
		level, ok := logging.ParseLevel(cfg.Settings.Logging.Level)
		if !ok {
			logging.Warn("Bootstrap", "Unknown log level %q, using info", cfg.Settings.Logging.Level)
		}
		logging.Init(level, cfg.Settings.Logging.Format, logOutput)
	}

	services, err := InitializeServices(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// Services returns the initialized services.
func (a *Application) Services() *Services {
	return a.services
}

// Settings returns the loaded configuration.
func (a *Application) Settings() config.Config {
	return *a.config.Settings
}

// Run serves the HTTP API until ctx is cancelled or the listener fails, then
// shuts down the server and the background tasks.
func (a *Application) Run(ctx context.Context) error {
	settings := a.config.Settings

	srv := server.New(settings.Server, a.mcpHandler())

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Bootstrap", "Serving API on http://%s", srv.Addr())
		errCh <- srv.Start()
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logging.Info("Bootstrap", "Shutting down")
	case runErr = <-errCh:
		if runErr != nil {
			logging.Error("Bootstrap", runErr, "HTTP server stopped")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Warn("Bootstrap", "HTTP server shutdown: %v", err)
	}
	return errors.Join(runErr, a.Shutdown(shutdownCtx))
}

// Shutdown lets running discovery and execution tasks finish until ctx is
// done, then cancels whatever is still running. Cancelled executions end in
// EXECUTION_FAILED.
func (a *Application) Shutdown(ctx context.Context) error {
	tasks := a.services.TestPlans.Tasks()
	if tasks.Active() > 0 {
		logging.Info("Bootstrap", "Waiting for %d background task(s)", tasks.Active())
	}

	done := make(chan struct{})
	go func() {
		tasks.Wait()
		close(done)
	}()

	select {
	case <-done:
		return tasks.Shutdown(ctx)
	case <-ctx.Done():
	}

	cancelCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tasks.Shutdown(cancelCtx); err != nil {
		return err
	}
	return fmt.Errorf("background tasks cancelled: %w", ctx.Err())
}

func (a *Application) mcpHandler() http.Handler {
	if !a.config.Settings.Server.EnableMCP {
		return nil
	}
	return a.services.MCP.HTTPHandler()
}

func (a *Application) shutdownTimeout() time.Duration {
	if t := a.config.Settings.Server.ShutdownTimeout; t > 0 {
		return t
	}
	return config.DefaultShutdownTimeout
}
