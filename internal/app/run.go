package app

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"twilio-gateway/internal/common/logging"
	"twilio-gateway/internal/config"
)

// Run is the main entry point for the application
func Run() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logging
	logging.InitGlobalLogger()
	defer logging.MustSync()

	logging.GetGlobalLogger().Info("Starting Twilio gateway",
		logging.Field{Key: "cpus", Value: runtime.NumCPU()},
		logging.Field{Key: "version", Value: Version},
	)

	// Load and validate configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logging.GetGlobalLogger().Error("Configuration validation failed", err)
		return err
	}

	app, err := New(cfg)
	if err != nil {
		logging.GetGlobalLogger().Error("Failed to initialize application", err)
		return err
	}
	defer app.Cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, _ := app.RunServer()
	if err := srv.Start(); err != nil {
		app.Logger.Error("Server failed to start", err)
		return err
	}
	app.Logger.Info("Server listening", logging.Field{Key: "port", Value: cfg.Port})

	app.Start(ctx)

	select {
	case <-ctx.Done():
	case err, ok := <-srv.Errors():
		if ok && err != nil {
			app.Logger.Error("Server stopped unexpectedly", err)
			return err
		}
	}

	app.Logger.Info("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error("Server forced to shutdown", err)
		return err
	}

	app.Logger.Info("Server exited")
	return nil
}
