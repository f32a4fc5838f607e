package handlers

import (
	"context"
	"time"

	"twilio-gateway/internal/circuitbreaker"
	"twilio-gateway/internal/common/logging"
	"twilio-gateway/internal/dedupe"
	"twilio-gateway/internal/monitor"
	"twilio-gateway/internal/orders"
	"twilio-gateway/internal/storage"
	"twilio-gateway/internal/whatsapp"
)

// WhatsAppAPI is the RPC client surface the handlers use.
type WhatsAppAPI interface {
	CheckHealth(ctx context.Context) (*whatsapp.HealthCheckResponse, error)
	GetMessageStatus(ctx context.Context, messageID string) (*whatsapp.MessageStatusResponse, error)
	GetConnectionStatus(ctx context.Context) (*whatsapp.ConnectionStatusResponse, error)
	RestartConnection(ctx context.Context, force bool, reason string) (*whatsapp.RestartConnectionResponse, error)
	IsConnected(ctx context.Context) (bool, string)
	BreakerStats() circuitbreaker.Stats
}

// SnapshotSource reports the last connection monitor result.
type SnapshotSource interface {
	Shared(ctx context.Context) (monitor.Snapshot, bool)
}

// Deps are the collaborators of Handlers. Monitor, Store, Settings and
// Dedupe are optional.
type Deps struct {
	WhatsApp WhatsAppAPI
	Orders   *orders.Service
	Dedupe   *dedupe.Store
	Monitor  SnapshotSource
	Store    storage.OrderStore
	Settings func() map[string]string
	Version  string
	Logger   logging.Logger
}

type Handlers struct {
	whatsapp WhatsAppAPI
	orders   *orders.Service
	dedupe   *dedupe.Store
	monitor  SnapshotSource
	store    storage.OrderStore
	settings func() map[string]string
	version  string
	started  time.Time
	logger   logging.Logger
}

func New(d Deps) *Handlers {
	logger := d.Logger
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Handlers{
		whatsapp: d.WhatsApp,
		orders:   d.Orders,
		dedupe:   d.Dedupe,
		monitor:  d.Monitor,
		store:    d.Store,
		settings: d.Settings,
		version:  d.Version,
		started:  time.Now(),
		logger:   logger.WithFields(logging.Field{Key: "component", Value: "handlers"}),
	}
}
