// Package sqlitestorage records matches into an in-memory SQLite database with
// periodic disk dumps via VACUUM INTO. It wraps the GORM backend; the only
// SQLite-specific concerns are opening the in-memory DB and the dump loop.
package sqlitestorage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/corsair-bot/corsair/internal/config"
	"github.com/corsair-bot/corsair/internal/database"
	"github.com/corsair-bot/corsair/internal/logging"
	gormstorage "github.com/corsair-bot/corsair/internal/storage/gorm"
	"github.com/corsair-bot/corsair/pkg/core"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// Dependencies holds what the SQLite backend needs besides its config.
type Dependencies struct {
	LogManager *logging.SlogManager
	DBLog      zerolog.Logger
}

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	cfg      config.SQLiteConfig
	deps     Dependencies
	stopChan chan struct{}
	wg       sync.WaitGroup
	dumpMu   sync.Mutex
}

// New creates a new SQLite storage backend. The database is opened in Init.
func New(cfg config.SQLiteConfig, deps Dependencies) *Backend {
	if deps.LogManager == nil {
		deps.LogManager = logging.NewSlogManager()
	}
	return &Backend{cfg: cfg, deps: deps}
}

// Init opens the in-memory database, initializes the embedded GORM backend and
// starts the dump goroutine.
func (b *Backend) Init() error {
	db, err := database.OpenSQLite("", b.deps.DBLog)
	if err != nil {
		return fmt.Errorf("failed to create in-memory SQLite DB: %w", err)
	}

	b.Backend = gormstorage.New(gormstorage.Dependencies{
		DB:         db,
		LogManager: b.deps.LogManager,
		DBLog:      b.deps.DBLog,
	})
	if err := b.Backend.Init(); err != nil {
		return err
	}

	if b.cfg.Path != "" {
		if err := os.MkdirAll(filepath.Dir(b.cfg.Path), 0o755); err != nil {
			return fmt.Errorf("failed to create dump directory: %w", err)
		}
	}

	b.stopChan = make(chan struct{})
	if b.cfg.Path != "" && b.cfg.DumpInterval > 0 {
		b.wg.Add(1)
		go b.dumpLoop()
	}
	return nil
}

// EndMatch stores the result and dumps the final state to disk.
func (b *Backend) EndMatch(r core.MatchResult) error {
	if err := b.Backend.EndMatch(r); err != nil {
		return err
	}
	return b.Dump()
}

// Close stops the dump goroutine, closes the embedded GORM backend, writes a final
// dump and closes the connection pool.
func (b *Backend) Close() error {
	if b.Backend == nil {
		return nil
	}
	if b.stopChan != nil {
		close(b.stopChan)
		b.wg.Wait()
		b.stopChan = nil
	}
	err := errors.Join(b.Backend.Close(), b.Dump())

	sqlDB, dbErr := b.DB().DB()
	if dbErr != nil {
		return errors.Join(err, dbErr)
	}
	return errors.Join(err, sqlDB.Close())
}

// Dump writes the database to the configured path. It is a no-op without a path.
func (b *Backend) Dump() error {
	if b.cfg.Path == "" {
		return nil
	}
	b.dumpMu.Lock()
	defer b.dumpMu.Unlock()
	return database.DumpToDisk(b.DB(), b.cfg.Path, b.deps.DBLog)
}

// dumpSize reports the size of the last dump in human units.
func (b *Backend) dumpSize() string {
	info, err := os.Stat(b.cfg.Path)
	if err != nil {
		return "unknown size"
	}
	return humanize.Bytes(uint64(info.Size()))
}

// dumpLoop periodically dumps the in-memory database. VACUUM INTO creates a
// point-in-time snapshot, so writes do not need to pause.
func (b *Backend) dumpLoop() {
	defer b.wg.Done()
	ticker := time.NewTicker(b.cfg.DumpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			start := time.Now()
			if err := b.Dump(); err != nil {
				b.deps.LogManager.WriteLog("sqlite:dumpLoop", fmt.Sprintf("Error dumping to disk: %v", err), "ERROR")
			} else {
				b.deps.LogManager.WriteLog("sqlite:dumpLoop",
					fmt.Sprintf("Dumped %s to disk in %s", b.dumpSize(), time.Since(start)), "DEBUG")
			}
		}
	}
}
