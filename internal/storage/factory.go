// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/corsair-bot/corsair/internal/config"
	"github.com/corsair-bot/corsair/internal/logging"
	gormstorage "github.com/corsair-bot/corsair/internal/storage/gorm"
	"github.com/corsair-bot/corsair/internal/storage/memory"
	"github.com/corsair-bot/corsair/internal/storage/postgres"
	sqlitestorage "github.com/corsair-bot/corsair/internal/storage/sqlite"
	"github.com/corsair-bot/corsair/internal/storage/websocket"
	"github.com/rs/zerolog"
)

var (
	_ Backend  = Discard{}
	_ Backend  = (*memory.Backend)(nil)
	_ Exporter = (*memory.Backend)(nil)
	_ Backend  = (*gormstorage.Backend)(nil)
	_ Backend  = (*sqlitestorage.Backend)(nil)
	_ Backend  = (*postgres.Backend)(nil)
	_ Backend  = (*websocket.Backend)(nil)
)

// Dependencies are shared by every backend the factory can build.
type Dependencies struct {
	LogManager *logging.SlogManager
	// DBLog receives connection and migration logs from the relational backends.
	DBLog zerolog.Logger
}

// NewBackend creates a storage backend based on configuration.
// The backend is not initialised; callers must call Init.
func NewBackend(cfg config.StorageConfig, deps Dependencies) (Backend, error) {
	switch cfg.Type {
	case config.StorageNone, "":
		return Discard{}, nil
	case config.StorageMemory:
		return memory.New(cfg.Memory), nil
	case config.StorageSQLite:
		return sqlitestorage.New(cfg.SQLite, sqlitestorage.Dependencies{
			LogManager: deps.LogManager,
			DBLog:      deps.DBLog,
		}), nil
	case config.StoragePostgres:
		return postgres.New(cfg.Postgres, postgres.Dependencies{
			LogManager: deps.LogManager,
			DBLog:      deps.DBLog,
		}), nil
	case config.StorageWebSocket:
		return websocket.New(websocket.Config{
			URL:    cfg.WebSocket.URL,
			Secret: cfg.WebSocket.Secret,
		}, deps.LogManager), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
