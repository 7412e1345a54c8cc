package match

import (
	"log/slog"
	"sync"
	"time"

	"github.com/corsair-bot/corsair/internal/hex"
	"github.com/corsair-bot/corsair/pkg/core"
	"github.com/google/uuid"
)

// Context holds the current match and the turn being decided. The turn loop writes
// it; log handlers and recorders read it from other goroutines.
type Context struct {
	mu    sync.RWMutex
	match *core.Match
	turn  int
}

// NewContext creates a Context with no match started.
func NewContext() *Context {
	return &Context{}
}

// Start begins a new match with a fresh id and returns it.
func (c *Context) Start(seed0, seed1 uint64, grid hex.Grid, version string) *core.Match {
	m := &core.Match{
		ID:        uuid.NewString(),
		StartTime: time.Now().UTC(),
		Seed0:     seed0,
		Seed1:     seed1,
		MapWidth:  grid.Width,
		MapHeight: grid.Height,
		Version:   version,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.match = m
	c.turn = 0
	return m
}

// GetMatch returns the current match, or nil before Start.
func (c *Context) GetMatch() *core.Match {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.match
}

// SetTurn records the turn currently being decided.
func (c *Context) SetTurn(turn int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turn = turn
}

// Turn returns the turn currently being decided.
func (c *Context) Turn() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.turn
}

// LogAttrs returns the match id and turn for log records.
func (c *Context) LogAttrs() []slog.Attr {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.match == nil {
		return nil
	}
	return []slog.Attr{
		slog.String("match", c.match.ID),
		slog.Int("turn", c.turn),
	}
}
