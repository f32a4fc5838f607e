// Package sqlite is the go-sqlite3 order store backend.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"twilio-gateway/internal/storage"
)

var dialect = storage.Dialect{
	Name: "sqlite",
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
			created_at DATETIME NOT NULL
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
		return nil, fmt.Errorf("invalid SQLite config: %w", err)
	}

	dsn := config.DatabasePath
	if dsn != MemoryPath {
		dsn = "file:" + dsn + "?_busy_timeout=5000&_journal_mode=WAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if config.DatabasePath == MemoryPath {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

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
	sqliteConfig, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("invalid config type for SQLite storage")
	}
	return NewAdapter(sqliteConfig)
}

func (f *Factory) GetType() string {
	return "sqlite"
}

func init() {
	storage.Register("sqlite", &Factory{})
}
