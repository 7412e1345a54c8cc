// Package controller runs the per-turn decision loop and owns the fire cooldown.
package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/corsair-bot/corsair/internal/config"
	"github.com/corsair-bot/corsair/internal/dispatcher"
	"github.com/corsair-bot/corsair/internal/hex"
	"github.com/corsair-bot/corsair/internal/match"
	"github.com/corsair-bot/corsair/internal/perception"
	"github.com/corsair-bot/corsair/internal/random"
	"github.com/corsair-bot/corsair/internal/targeting"
	"github.com/corsair-bot/corsair/pkg/core"
)

// TurnSource yields one turn at a time. It returns io.EOF once input is exhausted.
type TurnSource interface {
	ReadTurn(ctx context.Context) (core.Turn, error)
}

// CommandSink receives the commands decided for a turn, in ship order.
type CommandSink interface {
	WriteCommands(cmds []core.Command) error
}

// Publisher receives turn records. *dispatcher.Dispatcher satisfies it.
type Publisher interface {
	Dispatch(e dispatcher.Event) (any, error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithIdle sets the idle destination policy. The default sends ships to the grid centre.
func WithIdle(cfg config.IdleConfig) Option {
	return func(c *Controller) {
		c.idleCfg = cfg
	}
}

// WithRandom sets the generator used by the wander policy.
func WithRandom(src *random.Source) Option {
	return func(c *Controller) {
		c.rng = src
	}
}

// WithPublisher makes the controller publish a record of every turn.
func WithPublisher(p Publisher) Option {
	return func(c *Controller) {
		c.events = p
	}
}

// WithMatch keeps the match context's turn counter in step with the loop.
func WithMatch(m *match.Context) Option {
	return func(c *Controller) {
		c.match = m
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// Controller decides one command per owned ship per turn. It is not safe for
// concurrent use: the loop is strictly sequential.
type Controller struct {
	cooldown    int
	cooldownMax int
	maxTurns    int

	solver targeting.Solver
	grid   hex.Grid
	idle   idlePolicy

	idleCfg config.IdleConfig
	rng     *random.Source
	events  Publisher
	match   *match.Context
	logger  *slog.Logger

	turns int
	shots int
	moves int
}

// New creates a Controller for the given rules.
func New(game config.GameConfig, opts ...Option) *Controller {
	c := &Controller{
		cooldownMax: max(game.CooldownCannon, 0),
		maxTurns:    game.MaxTurns,
		solver:      targeting.NewSolver(game.LeadRange, game.FireDistanceMax),
		grid:        game.Grid(),
		idleCfg:     config.IdleConfig{Mode: config.IdleFixed, X: -1, Y: -1},
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = random.NewDefault()
	}
	c.cooldown = min(max(game.InitialCooldown, 0), c.cooldownMax)
	c.idle = newIdlePolicy(c.idleCfg, c.grid, c.rng)
	return c
}

// Cooldown returns the turns left before a ship may fire.
func (c *Controller) Cooldown() int {
	return c.cooldown
}

// Step decides the commands for one turn. The cooldown ticks down before any ship is
// considered, even when the turn reports no owned ships.
func (c *Controller) Step(turn core.Turn) ([]core.Command, error) {
	start := time.Now()

	if c.cooldown > 0 {
		c.cooldown--
	}

	snap := perception.Aggregate(turn.Entities)

	n := max(turn.MyShipCount, 0)
	cmds := make([]core.Command, 0, n)
	records := make([]core.CommandRecord, 0, n)

	for i := 0; i < n; i++ {
		cmd, rec, err := c.decide(i, snap)
		if err != nil {
			return nil, fmt.Errorf("turn %d ship %d: %w", turn.Number, i, err)
		}
		rec.Turn = turn.Number
		cmds = append(cmds, cmd)
		records = append(records, rec)
	}

	c.turns++
	c.publishTurn(turn, snap, records, time.Since(start))

	c.logger.Debug("turn decided",
		"turn", turn.Number,
		"ships", n,
		"entities", len(turn.Entities),
		"cooldown", c.cooldown,
		"enemy", snap.Enemy != nil,
		"barrel", snap.Barrel != nil)

	return cmds, nil
}

func (c *Controller) decide(i int, snap perception.Snapshot) (core.Command, core.CommandRecord, error) {
	rec := core.CommandRecord{ShipIndex: i, ShipID: -1}

	ship, hasShip := snap.ShipFor(i)
	if hasShip {
		rec.ShipID = ship.ID
	}

	// Every ship measures range from the last owned ship seen. Without one there is
	// nothing to measure from.
	if c.cooldown == 0 && snap.OwnShip != nil && snap.Enemy != nil {
		sol, err := c.solver.Solve(hex.ToCube(snap.OwnShip.Position), *snap.Enemy)
		if err != nil {
			return core.Command{}, rec, err
		}
		if sol.InRange && c.grid.Contains(sol.Aim) {
			c.cooldown = c.cooldownMax
			c.shots++
			rec.Command = core.Fire(sol.Aim)
			rec.Lead = sol.Distance
			return rec.Command, rec, nil
		}
	}

	c.moves++
	if snap.Barrel != nil && c.grid.Contains(snap.Barrel.Position) {
		rec.Command = core.Move(snap.Barrel.Position)
		return rec.Command, rec, nil
	}

	var shipPtr *core.Ship
	if hasShip {
		shipPtr = &ship
	}
	rec.Command = core.Move(c.idle.destination(i, shipPtr))
	return rec.Command, rec, nil
}

// Run drives the loop for at most MaxTurns turns. It returns nil when the source is
// exhausted or the turn limit is reached, and the first read, decision or write error
// otherwise. Commands for a turn are written before the next turn is read.
func (c *Controller) Run(ctx context.Context, src TurnSource, sink CommandSink) (err error) {
	reason := core.EndMaxTurns
	defer func() {
		if err != nil {
			reason = core.EndError
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				reason = core.EndCanceled
			}
		}
		c.publishEnd(reason)
	}()

	for n := 1; n <= c.maxTurns; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		turn, err := src.ReadTurn(ctx)
		if errors.Is(err, io.EOF) {
			c.logger.Info("input exhausted", "turns", n-1)
			reason = core.EndExhausted
			return nil
		}
		if err != nil {
			return fmt.Errorf("read turn %d: %w", n, err)
		}
		turn.Number = n
		if c.match != nil {
			c.match.SetTurn(n)
		}

		cmds, err := c.Step(turn)
		if err != nil {
			return err
		}

		if err := sink.WriteCommands(cmds); err != nil {
			return fmt.Errorf("write turn %d: %w", n, err)
		}
	}

	c.logger.Info("turn limit reached", "turns", c.maxTurns)
	return nil
}

// Result returns the running totals of the match.
func (c *Controller) Result() core.MatchResult {
	return core.MatchResult{Turns: c.turns, Shots: c.shots, Moves: c.moves}
}

func (c *Controller) publishTurn(turn core.Turn, snap perception.Snapshot, records []core.CommandRecord, took time.Duration) {
	if c.events == nil {
		return
	}

	rec := core.TurnRecord{
		Turn:        turn.Number,
		Time:        time.Now().UTC(),
		MyShipCount: turn.MyShipCount,
		EntityCount: len(turn.Entities),
		Cooldown:    c.cooldown,
		Duration:    took,
	}
	for _, e := range turn.Entities {
		if s, ok := e.(core.Ship); ok {
			rec.Ships = append(rec.Ships, core.ShipState{
				Turn:    turn.Number,
				ShipID:  s.ID,
				X:       s.Position.X,
				Y:       s.Position.Y,
				Heading: int(s.Heading),
				Speed:   s.Speed,
				Health:  s.Health,
				Mine:    s.Mine,
			})
		}
	}
	if snap.Barrel != nil {
		rec.BarrelRum = snap.Barrel.Rum
	}

	c.publish(dispatcher.Event{Command: dispatcher.CommandTurn, Turn: turn.Number, Payload: rec})
	if len(records) > 0 {
		c.publish(dispatcher.Event{Command: dispatcher.CommandCommands, Turn: turn.Number, Payload: records})
	}
}

func (c *Controller) publishEnd(reason string) {
	if c.events == nil {
		return
	}
	res := c.Result()
	res.Reason = reason
	res.EndTime = time.Now().UTC()
	c.publish(dispatcher.Event{Command: dispatcher.CommandMatchEnd, Turn: c.turns, Payload: res})
}

// publish never fails the turn: recording is best effort.
func (c *Controller) publish(e dispatcher.Event) {
	if _, err := c.events.Dispatch(e); err != nil {
		c.logger.Debug("event not recorded", "command", e.Command, "turn", e.Turn, "error", err)
	}
}
