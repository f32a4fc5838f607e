// Package app wires the gateway's components together and runs the HTTP
// server.
package app

import (
	"context"
	"strconv"

	"twilio-gateway/internal/common/auth"
	"twilio-gateway/internal/common/logging"
	"twilio-gateway/internal/common/ratelimit"
	"twilio-gateway/internal/config"
	"twilio-gateway/internal/dedupe"
	"twilio-gateway/internal/monitor"
	"twilio-gateway/internal/orders"
	"twilio-gateway/internal/redis"
	"twilio-gateway/internal/signature"
	"twilio-gateway/internal/storage"
	"twilio-gateway/internal/whatsapp"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// App holds all the application dependencies
type App struct {
	Config      *config.Config
	Logger      logging.Logger
	RedisClient *redis.Client
	Storage     storage.OrderStore
	WhatsApp    *whatsapp.Client
	Monitor     *monitor.Monitor
	Orders      *orders.Service
	Dedupe      *dedupe.Store
	Gate        *signature.Gate
	Auth        *auth.AuthenticatorRegistry
	RateLimiter ratelimit.Limiter
}

// New creates a new application instance with all dependencies. cfg must
// have been validated.
func New(cfg *config.Config) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "app"}),
	}

	if err := app.initializeRedis(); err != nil {
		// Redis is optional, just log the error
		app.Logger.Warn("Redis initialization failed, continuing without Redis", logging.Err(err))
	}

	if err := app.initializeStorage(); err != nil {
		app.Cleanup()
		return nil, err
	}

	if err := app.initializeWhatsApp(); err != nil {
		app.Cleanup()
		return nil, err
	}

	if err := app.initializeOrders(); err != nil {
		app.Cleanup()
		return nil, err
	}

	if err := app.initializeMonitor(); err != nil {
		app.Cleanup()
		return nil, err
	}

	app.initializeWebhookGuards()
	app.initializeAuth()

	limiter, err := app.InitializeRateLimiter()
	if err != nil {
		app.Cleanup()
		return nil, err
	}
	app.RateLimiter = limiter

	return app, nil
}

// Start begins background work.
func (app *App) Start(ctx context.Context) {
	if app.Monitor != nil {
		app.Monitor.Start(ctx)
	}
}

// Cleanup releases all resources
func (app *App) Cleanup() {
	if app.Monitor != nil {
		app.Monitor.Stop()
	}
	if app.Storage != nil {
		if err := app.Storage.Close(); err != nil {
			app.Logger.Warn("Error closing storage", logging.Err(err))
		}
	}
	if app.RedisClient != nil {
		if err := app.RedisClient.Close(); err != nil {
			app.Logger.Warn("Error closing Redis client", logging.Err(err))
		}
	}
}

func (app *App) initializeWebhookGuards() {
	cfg := app.Config
	app.Gate = signature.NewGate(signature.GateConfig{
		Secret:           cfg.TwilioAuthToken,
		Header:           cfg.TwilioSignatureHeader,
		PublicBaseURL:    cfg.TwilioPublicBaseURL,
		MaxBodyBytes:     cfg.BodyLimit(),
		ValidateBodyHash: cfg.TwilioValidateBody,
	}, app.Logger)
	if !app.Gate.Configured() {
		app.Logger.Warn("TWILIO_AUTH_TOKEN is not set; signed webhooks will be rejected as misconfigured")
	}

	var remote dedupe.Reserver
	if app.RedisClient != nil {
		remote = app.RedisClient
	}
	app.Dedupe = dedupe.New(cfg.DedupeWindow(), remote, app.Logger)
	app.Logger.Info("Webhook deduplication enabled",
		logging.Field{Key: "window", Value: cfg.DedupeWindow().String()},
		logging.Field{Key: "distributed", Value: remote != nil},
	)
}

func atoiDefault(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
