// Package postgres is the order store backend for PostgreSQL, using the pgx
// database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"twilio-gateway/internal/storage"
)

var dialect = storage.Dialect{
	Name:           "postgres",
	NumberedParams: true,
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			message_id TEXT NOT NULL,
			client_information TEXT NOT NULL DEFAULT '',
			phone_number TEXT NOT NULL DEFAULT '',
			order_type TEXT NOT NULL DEFAULT '',
			suggested_price INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			idempotency_key TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at)`,
	},
}

type Adapter struct {
	*storage.SQLStore
	config *Config
}

func NewAdapter(config *Config) (*Adapter, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid PostgreSQL config: %w", err)
	}

	db, err := sql.Open("pgx", config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store, err := storage.NewSQLStore(ctx, db, dialect)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Adapter{SQLStore: store, config: config}, nil
}

type Factory struct{}

func (f *Factory) Create(config storage.StorageConfig) (storage.OrderStore, error) {
	pgConfig, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("invalid config type for PostgreSQL storage")
	}
	return NewAdapter(pgConfig)
}

func (f *Factory) GetType() string {
	return "postgres"
}

func init() {
	storage.Register("postgres", &Factory{})
}
