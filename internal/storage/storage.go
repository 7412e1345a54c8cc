// internal/storage/storage.go
package storage

import "github.com/corsair-bot/corsair/pkg/core"

// Backend is the interface all match recorders must satisfy.
// Recording is write-only: nothing is ever read back into a running match.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Match management. settings is stored alongside the match as opaque JSON.
	StartMatch(m *core.Match, settings any) error
	EndMatch(r core.MatchResult) error

	// Per-turn recording
	RecordTurn(t *core.TurnRecord) error
	RecordCommands(cmds []core.CommandRecord) error
}

// Exporter is an optional interface for backends that produce a file at match end.
type Exporter interface {
	ExportedFilePath() string
}

// Discard records nothing.
type Discard struct{}

func (Discard) Init() error { return nil }
func (Discard) Close() error { return nil }
func (Discard) StartMatch(*core.Match, any) error { return nil }
func (Discard) EndMatch(core.MatchResult) error { return nil }
func (Discard) RecordTurn(*core.TurnRecord) error { return nil }
func (Discard) RecordCommands([]core.CommandRecord) error { return nil }
