// Package postgres records matches into PostgreSQL/PostGIS through the GORM backend.
package postgres

import (
	"errors"
	"fmt"

	"github.com/corsair-bot/corsair/internal/config"
	"github.com/corsair-bot/corsair/internal/database"
	"github.com/corsair-bot/corsair/internal/logging"
	gormstorage "github.com/corsair-bot/corsair/internal/storage/gorm"
	"github.com/rs/zerolog"
)

// Dependencies holds what the Postgres backend needs besides its config.
type Dependencies struct {
	LogManager *logging.SlogManager
	DBLog      zerolog.Logger
}

// Backend wraps the GORM backend with a Postgres connection.
type Backend struct {
	*gormstorage.Backend
	cfg  config.DBConfig
	deps Dependencies
}

// New creates a Postgres backend. The connection is made in Init.
func New(cfg config.DBConfig, deps Dependencies) *Backend {
	if deps.LogManager == nil {
		deps.LogManager = logging.NewSlogManager()
	}
	return &Backend{cfg: cfg, deps: deps}
}

// Init connects, migrates and starts the writer.
func (b *Backend) Init() error {
	db, err := database.OpenPostgres(b.cfg, b.deps.DBLog)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}

	b.Backend = gormstorage.New(gormstorage.Dependencies{
		DB:         db,
		LogManager: b.deps.LogManager,
		DBLog:      b.deps.DBLog,
	})
	return b.Backend.Init()
}

// Close flushes and stops the writer, then closes the connection pool. The pool is
// closed even when the final flush fails.
func (b *Backend) Close() error {
	if b.Backend == nil {
		return nil
	}
	flushErr := b.Backend.Close()
	sqlDB, err := b.DB().DB()
	if err != nil {
		return errors.Join(flushErr, err)
	}
	return errors.Join(flushErr, sqlDB.Close())
}
