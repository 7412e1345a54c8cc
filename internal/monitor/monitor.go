// Package monitor periodically snapshots recorder health to a status file.
package monitor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/corsair-bot/corsair/internal/logging"
	"github.com/corsair-bot/corsair/internal/match"
)

// Recorder reports write backlog. *worker.Manager satisfies it.
type Recorder interface {
	Pending() int
	GetLastDBWriteDuration() time.Duration
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	LogManager *logging.SlogManager
	Match      *match.Context
	Recorder   Recorder
	StatusFile string
	Interval   time.Duration
}

// Status is one snapshot of the running match and its recorder.
type Status struct {
	Time          time.Time `json:"time"`
	MatchID       string    `json:"matchId"`
	Turn          int       `json:"turn"`
	PendingRows   int       `json:"pendingRows"`
	LastWriteMs   float64   `json:"lastWriteMs"`
	UptimeSeconds float64   `json:"uptimeSeconds"`
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	started   time.Time
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.LogManager == nil {
		deps.LogManager = logging.NewSlogManager()
	}
	if deps.Interval <= 0 {
		deps.Interval = time.Second
	}
	return &Service{deps: deps, started: time.Now()}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetStatus returns the current status.
func (s *Service) GetStatus() Status {
	st := Status{
		Time:          time.Now().UTC(),
		UptimeSeconds: time.Since(s.started).Seconds(),
	}
	if s.deps.Match != nil {
		if m := s.deps.Match.GetMatch(); m != nil {
			st.MatchID = m.ID
		}
		st.Turn = s.deps.Match.Turn()
	}
	if s.deps.Recorder != nil {
		st.PendingRows = s.deps.Recorder.Pending()
		st.LastWriteMs = float64(s.deps.Recorder.GetLastDBWriteDuration().Microseconds()) / 1000
	}
	return st
}

// WriteStatus replaces the status file with the current status.
func (s *Service) WriteStatus() error {
	if s.deps.StatusFile == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.GetStatus(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.deps.StatusFile), 0o755); err != nil {
		return fmt.Errorf("create status dir: %w", err)
	}
	tmp := s.deps.StatusFile + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	return os.Rename(tmp, s.deps.StatusFile)
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	stop := s.stopChan
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		logger := s.deps.LogManager.Logger()
		logger.Debug("Starting status monitor goroutine", "file", s.deps.StatusFile, "interval", s.deps.Interval)

		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if err := s.WriteStatus(); err != nil {
					logger.Error("Error writing status file", "error", err)
				}
			}
		}
	}()

	return nil
}

// Stop stops the status monitor and writes a final snapshot.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.isRunning || s.stopChan == nil {
		s.mu.Unlock()
		return
	}
	close(s.stopChan)
	s.stopChan = nil
	s.mu.Unlock()

	s.wg.Wait()
	if err := s.WriteStatus(); err != nil {
		s.deps.LogManager.WriteLog("monitor:Stop", fmt.Sprintf("Error writing final status: %v", err), "ERROR")
	}
}
