// Package monitor tracks the messaging service's health and WhatsApp session.
//
// A cron job probes the service on a schedule and keeps the last snapshot for
// the health endpoint. Optionally a watch loop consumes the connection status
// stream and re-subscribes after a fixed delay whenever it ends.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"twilio-gateway/internal/common/logging"
	"twilio-gateway/internal/whatsapp"
)

const snapshotKey = "twilio-gateway:whatsapp:snapshot"

// Source is the subset of the RPC client the monitor uses.
type Source interface {
	CheckHealth(ctx context.Context) (*whatsapp.HealthCheckResponse, error)
	GetConnectionStatus(ctx context.Context) (*whatsapp.ConnectionStatusResponse, error)
	WatchConnectionStatus(ctx context.Context, fn func(*whatsapp.ConnectionStatusResponse) error) error
}

// SnapshotStore shares the last snapshot between instances. Implemented by
// the redis client.
type SnapshotStore interface {
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
}

// Snapshot is the result of one probe or stream update.
type Snapshot struct {
	Health      string    `json:"health"`
	State       string    `json:"state"`
	Connected   bool      `json:"connected"`
	Message     string    `json:"message,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Error       string    `json:"error,omitempty"`
	Source      string    `json:"source"`
	CheckedAt   time.Time `json:"checked_at"`
}

type Config struct {
	// Schedule is a cron spec; descriptors such as "@every 1m" are accepted.
	// Empty disables probing.
	Schedule string
	// Watch subscribes to the connection status stream.
	Watch            bool
	ResubscribeDelay time.Duration
	// ProbeTimeout bounds one scheduled probe.
	ProbeTimeout time.Duration
}

type Monitor struct {
	source Source
	store  SnapshotStore
	cfg    Config
	logger logging.Logger
	cron   *cron.Cron

	mu   sync.RWMutex
	last *Snapshot

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New validates the schedule and builds a stopped monitor. store may be nil.
func New(source Source, cfg Config, store SnapshotStore, logger logging.Logger) (*Monitor, error) {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	if cfg.ResubscribeDelay <= 0 {
		cfg.ResubscribeDelay = 5 * time.Second
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 10 * time.Second
	}

	m := &Monitor{
		source: source,
		store:  store,
		cfg:    cfg,
		logger: logger.WithFields(logging.Field{Key: "component", Value: "whatsapp_monitor"}),
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}

	if cfg.Schedule != "" {
		if _, err := m.cron.AddFunc(cfg.Schedule, m.scheduledProbe); err != nil {
			return nil, fmt.Errorf("invalid monitor schedule %q: %w", cfg.Schedule, err)
		}
	}
	return m, nil
}

// Start runs the scheduler and, when enabled, the watch loop.
func (m *Monitor) Start(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)
	m.cron.Start()

	if m.cfg.Watch {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.watchLoop(ctx)
		}()
	}

	m.logger.Info("Connection monitor started",
		logging.Field{Key: "schedule", Value: m.cfg.Schedule},
		logging.Field{Key: "watch", Value: m.cfg.Watch},
	)
}

// Stop halts the watch loop and waits for a running probe to finish.
func (m *Monitor) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	<-m.cron.Stop().Done()
	m.wg.Wait()
	m.logger.Info("Connection monitor stopped")
}

func (m *Monitor) scheduledProbe() {
	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.ProbeTimeout)
	defer cancel()
	m.Probe(ctx)
}

// Probe checks health and connection status once and records the result.
func (m *Monitor) Probe(ctx context.Context) Snapshot {
	snap := Snapshot{Source: "probe", CheckedAt: time.Now().UTC()}

	health, err := m.source.CheckHealth(ctx)
	if err != nil {
		snap.Health = whatsapp.ServingUnknown.String()
		snap.Error = err.Error()
	} else {
		snap.Health = health.Status.String()
	}

	status, err := m.source.GetConnectionStatus(ctx)
	if err != nil {
		snap.State = whatsapp.StateDisconnected.String()
		if snap.Error == "" {
			snap.Error = err.Error()
		}
	} else {
		applyStatus(&snap, status)
	}

	m.record(ctx, snap)
	return snap
}

func applyStatus(snap *Snapshot, status *whatsapp.ConnectionStatusResponse) {
	snap.State = status.State.String()
	snap.Connected = status.State == whatsapp.StateConnected
	snap.Message = status.Message
	snap.PhoneNumber = status.PhoneNumber
}

func (m *Monitor) watchLoop(ctx context.Context) {
	for {
		err := m.source.WatchConnectionStatus(ctx, func(status *whatsapp.ConnectionStatusResponse) error {
			snap := Snapshot{Source: "watch", CheckedAt: time.Now().UTC()}
			if prev, ok := m.Last(); ok {
				snap.Health = prev.Health
			}
			applyStatus(&snap, status)
			m.record(ctx, snap)
			return nil
		})
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			m.logger.Warn("Connection status stream failed", logging.Err(err),
				logging.Field{Key: "retry_in", Value: m.cfg.ResubscribeDelay.String()})
		} else {
			m.logger.Debug("Connection status stream ended", logging.Field{Key: "retry_in", Value: m.cfg.ResubscribeDelay.String()})
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(m.cfg.ResubscribeDelay):
		}
	}
}

func (m *Monitor) record(ctx context.Context, snap Snapshot) {
	m.mu.Lock()
	prev := m.last
	m.last = &snap
	m.mu.Unlock()

	if prev == nil || prev.State != snap.State {
		fields := []logging.Field{
			{Key: "state", Value: snap.State},
			{Key: "health", Value: snap.Health},
			{Key: "source", Value: snap.Source},
		}
		if prev != nil {
			fields = append(fields, logging.Field{Key: "previous_state", Value: prev.State})
		}
		if snap.Connected {
			m.logger.Info("WhatsApp connection state changed", fields...)
		} else {
			m.logger.Warn("WhatsApp connection state changed", fields...)
		}
	}

	if m.store != nil {
		if err := m.store.SetJSON(ctx, snapshotKey, snap, 0); err != nil {
			m.logger.Debug("Failed to share monitor snapshot", logging.Err(err))
		}
	}
}

// Last returns the most recent snapshot recorded by this process.
func (m *Monitor) Last() (Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.last == nil {
		return Snapshot{}, false
	}
	return *m.last, true
}

// Shared returns the newest snapshot known locally or published by another
// instance.
func (m *Monitor) Shared(ctx context.Context) (Snapshot, bool) {
	local, ok := m.Last()
	if m.store == nil {
		return local, ok
	}

	var remote Snapshot
	found, err := m.store.GetJSON(ctx, snapshotKey, &remote)
	if err != nil || !found {
		return local, ok
	}
	if !ok || remote.CheckedAt.After(local.CheckedAt) {
		return remote, true
	}
	return local, true
}
