package controller

import (
	"github.com/corsair-bot/corsair/internal/config"
	"github.com/corsair-bot/corsair/internal/hex"
	"github.com/corsair-bot/corsair/internal/random"
	"github.com/corsair-bot/corsair/pkg/core"
)

// idlePolicy picks a destination when no barrel is worth sailing to. ship is nil when
// the turn reported no owned ship for the command slot.
type idlePolicy interface {
	destination(slot int, ship *core.Ship) hex.Offset
}

type fixedIdle struct {
	cell hex.Offset
}

func (f fixedIdle) destination(int, *core.Ship) hex.Offset { return f.cell }

// wanderIdle sends each ship to a random cell and re-rolls once the ship arrives.
// Cells come from a shuffled deck so every cell is visited before any repeats.
type wanderIdle struct {
	grid    hex.Grid
	rng     *random.Source
	deck    []hex.Offset
	next    int
	targets map[int]hex.Offset
}

func newWanderIdle(grid hex.Grid, rng *random.Source) *wanderIdle {
	return &wanderIdle{
		grid:    grid,
		rng:     rng,
		targets: make(map[int]hex.Offset),
	}
}

func (w *wanderIdle) draw() hex.Offset {
	if w.next >= len(w.deck) {
		w.deck = w.grid.Cells()
		random.Shuffle(w.rng, w.deck)
		w.next = 0
	}
	if len(w.deck) == 0 {
		return hex.Offset{}
	}
	cell := w.deck[w.next]
	w.next++
	return cell
}

func (w *wanderIdle) destination(slot int, ship *core.Ship) hex.Offset {
	key := -1 - slot
	if ship != nil {
		key = ship.ID
	}

	target, ok := w.targets[key]
	if !ok || (ship != nil && ship.Position == target) {
		target = w.draw()
		w.targets[key] = target
	}
	return target
}

// newIdlePolicy builds the policy described by cfg. Fixed cells that are negative or
// off the map fall back to the grid centre.
func newIdlePolicy(cfg config.IdleConfig, grid hex.Grid, rng *random.Source) idlePolicy {
	if cfg.Mode == config.IdleWander {
		return newWanderIdle(grid, rng)
	}

	cell := hex.Offset{X: cfg.X, Y: cfg.Y}
	if cfg.X < 0 || cfg.Y < 0 || !grid.Contains(cell) {
		cell = grid.Center()
	}
	return fixedIdle{cell: cell}
}
