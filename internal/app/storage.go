package app

import (
	"fmt"

	"twilio-gateway/internal/common/logging"
	"twilio-gateway/internal/storage"
	"twilio-gateway/internal/storage/postgres"
	"twilio-gateway/internal/storage/sqlite"
)

func (app *App) initializeStorage() error {
	var storageConfig storage.StorageConfig

	switch app.Config.DatabaseType {
	case "none":
		app.Logger.Info("Database: Disabled (orders are not persisted)")
		return nil
	case "postgres", "postgresql":
		pgConfig := &postgres.Config{URL: app.Config.DatabaseURL}
		storageConfig = pgConfig
		app.Logger.Info("Database: PostgreSQL", logging.Field{Key: "url", Value: pgConfig.Redacted()})
	default:
		dbPath := app.Config.DatabasePath
		if dbPath == "" {
			dbPath = sqlite.DefaultConfig().DatabasePath
		}
		storageConfig = &sqlite.Config{DatabasePath: dbPath}
		app.Logger.Info("Database: SQLite", logging.Field{Key: "path", Value: dbPath})
	}

	store, err := storage.Create(storageConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	app.Storage = store
	return nil
}
