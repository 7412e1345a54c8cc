// internal/storage/factory_test.go
package storage_test

import (
	"testing"

	"github.com/corsair-bot/corsair/internal/config"
	"github.com/corsair-bot/corsair/internal/logging"
	"github.com/corsair-bot/corsair/internal/storage"
	"github.com/corsair-bot/corsair/internal/storage/memory"
	"github.com/corsair-bot/corsair/internal/storage/postgres"
	sqlitestorage "github.com/corsair-bot/corsair/internal/storage/sqlite"
	"github.com/corsair-bot/corsair/internal/storage/websocket"
	"github.com/corsair-bot/corsair/pkg/core"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBackend(t *testing.T) {
	deps := storage.Dependencies{LogManager: logging.NewSlogManager(), DBLog: zerolog.Nop()}

	tests := []struct {
		typ  string
		want any
	}{
		{config.StorageNone, storage.Discard{}},
		{"", storage.Discard{}},
		{config.StorageMemory, &memory.Backend{}},
		{config.StorageSQLite, &sqlitestorage.Backend{}},
		{config.StoragePostgres, &postgres.Backend{}},
		{config.StorageWebSocket, &websocket.Backend{}},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			b, err := storage.NewBackend(config.StorageConfig{Type: tt.typ}, deps)
			require.NoError(t, err)
			assert.IsType(t, tt.want, b)
		})
	}
}

func TestNewBackend_Unknown(t *testing.T) {
	_, err := storage.NewBackend(config.StorageConfig{Type: "mongodb"}, storage.Dependencies{})
	assert.ErrorContains(t, err, "unknown storage type: mongodb")
}

func TestDiscard(t *testing.T) {
	var b storage.Backend = storage.Discard{}

	require.NoError(t, b.Init())
	require.NoError(t, b.StartMatch(&core.Match{ID: "m"}, nil))
	require.NoError(t, b.RecordTurn(&core.TurnRecord{Turn: 1}))
	require.NoError(t, b.RecordCommands([]core.CommandRecord{{Turn: 1}}))
	require.NoError(t, b.EndMatch(core.MatchResult{}))
	require.NoError(t, b.Close())
}
