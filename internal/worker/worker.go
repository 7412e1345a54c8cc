package worker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/corsair-bot/corsair/internal/logging"
	"github.com/corsair-bot/corsair/internal/match"
	"github.com/corsair-bot/corsair/internal/storage"
	"github.com/corsair-bot/corsair/pkg/core"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
)

// ErrUnexpectedPayload is returned when an event carries the wrong payload type.
var ErrUnexpectedPayload = errors.New("unexpected event payload")

// PointWriter receives time-series points. *influx.Manager satisfies it.
type PointWriter interface {
	WritePoint(point *influxdb2_write.Point) error
}

// Dependencies holds all dependencies for the worker manager
type Dependencies struct {
	LogManager *logging.SlogManager
	Match      *match.Context
	Metrics    PointWriter // optional
}

// Manager routes recorded turns to the storage backend and metrics sink.
type Manager struct {
	deps    Dependencies
	backend storage.Backend

	mu     sync.Mutex
	result *core.MatchResult
}

// NewManager creates a new worker manager
func NewManager(deps Dependencies, backend storage.Backend) *Manager {
	if deps.LogManager == nil {
		deps.LogManager = logging.NewSlogManager()
	}
	if deps.Match == nil {
		deps.Match = match.NewContext()
	}
	return &Manager{
		deps:    deps,
		backend: backend,
	}
}

// StartMatch announces the running match to the backend.
func (m *Manager) StartMatch(settings any) error {
	mt := m.deps.Match.GetMatch()
	if mt == nil {
		return errors.New("match not started")
	}
	if err := m.backend.StartMatch(mt, settings); err != nil {
		return fmt.Errorf("backend start match: %w", err)
	}
	return nil
}

// Result returns the result received with the match end event, if any.
func (m *Manager) Result() (core.MatchResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.result == nil {
		return core.MatchResult{}, false
	}
	return *m.result, true
}

// Finish hands the match result to the backend. Call it after the dispatcher is
// closed so every buffered turn has reached the backend first.
func (m *Manager) Finish() error {
	r, ok := m.Result()
	if !ok {
		return errors.New("match end not received")
	}
	if err := m.backend.EndMatch(r); err != nil {
		return fmt.Errorf("backend end match: %w", err)
	}
	m.deps.LogManager.WriteLog("worker:Finish",
		fmt.Sprintf("Match recorded: %d turns, %d shots, %d moves, last DB write %s",
			r.Turns, r.Shots, r.Moves, m.GetLastDBWriteDuration()),
		"INFO")
	return nil
}

// DBWriteDurationProvider is an optional interface that backends can implement
// to expose their last DB write duration for monitoring.
type DBWriteDurationProvider interface {
	GetLastDBWriteDuration() time.Duration
}

// GetLastDBWriteDuration returns the duration of the last DB write cycle.
// Returns 0 if the backend doesn't support this metric.
func (m *Manager) GetLastDBWriteDuration() time.Duration {
	if p, ok := m.backend.(DBWriteDurationProvider); ok {
		return p.GetLastDBWriteDuration()
	}
	return 0
}

func (m *Manager) matchID() string {
	if mt := m.deps.Match.GetMatch(); mt != nil {
		return mt.ID
	}
	return ""
}

func (m *Manager) writePoint(point *influxdb2_write.Point) {
	if m.deps.Metrics == nil {
		return
	}
	if err := m.deps.Metrics.WritePoint(point); err != nil {
		m.deps.LogManager.WriteLog("worker:writePoint", fmt.Sprintf("Failed to write point: %v", err), "WARN")
	}
}

// PendingProvider is an optional interface for backends that queue rows before
// writing them.
type PendingProvider interface {
	Pending() int
}

// Pending returns the number of rows waiting to be written, or 0 if the backend
// writes synchronously.
func (m *Manager) Pending() int {
	if p, ok := m.backend.(PendingProvider); ok {
		return p.Pending()
	}
	return 0
}
