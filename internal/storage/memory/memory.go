// internal/storage/memory/memory.go
package memory

import (
	"errors"
	"sync"

	"github.com/corsair-bot/corsair/internal/config"
	"github.com/corsair-bot/corsair/pkg/core"
)

// ErrNoMatch is returned when records arrive before StartMatch.
var ErrNoMatch = errors.New("no match started")

// Backend keeps a match in memory and exports it to JSON when it ends.
type Backend struct {
	cfg      config.MemoryConfig
	match    *core.Match
	settings any
	result   *core.MatchResult

	turns    []core.TurnRecord
	commands []core.CommandRecord

	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend.
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init initializes the backend.
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources.
func (b *Backend) Close() error {
	return nil
}

// StartMatch begins recording a new match and drops anything from the previous one.
func (b *Backend) StartMatch(m *core.Match, settings any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cp := *m
	b.match = &cp
	b.settings = settings
	b.result = nil
	b.turns = nil
	b.commands = nil
	b.lastExportPath = ""
	return nil
}

// EndMatch stores the result and exports the match.
func (b *Backend) EndMatch(r core.MatchResult) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.match == nil {
		return ErrNoMatch
	}
	b.result = &r
	return b.exportJSON()
}

// RecordTurn appends a turn. The ship slice is copied.
func (b *Backend) RecordTurn(t *core.TurnRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.match == nil {
		return ErrNoMatch
	}
	rec := *t
	rec.Ships = append([]core.ShipState(nil), t.Ships...)
	b.turns = append(b.turns, rec)
	return nil
}

// RecordCommands appends one turn's commands.
func (b *Backend) RecordCommands(cmds []core.CommandRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.match == nil {
		return ErrNoMatch
	}
	b.commands = append(b.commands, cmds...)
	return nil
}

// TurnCount returns how many turns have been recorded.
func (b *Backend) TurnCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.turns)
}

// ExportedFilePath returns the path of the last export, or "" if none was written.
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}
