package worker

import (
	"fmt"

	"github.com/corsair-bot/corsair/internal/dispatcher"
	"github.com/corsair-bot/corsair/internal/influx"
	"github.com/corsair-bot/corsair/pkg/core"
)

// RegisterHandlers registers all event handlers with the dispatcher.
func (m *Manager) RegisterHandlers(d *dispatcher.Dispatcher) {
	// Per-turn records - buffered so recording never stalls the turn loop
	d.Register(dispatcher.CommandTurn, m.handleTurn, dispatcher.Buffered(1000), dispatcher.Logged())
	d.Register(dispatcher.CommandCommands, m.handleCommands, dispatcher.Buffered(1000), dispatcher.Logged())

	// Match end - sync, the result must be held before shutdown
	d.Register(dispatcher.CommandMatchEnd, m.handleMatchEnd, dispatcher.Logged())
}

func (m *Manager) handleTurn(e dispatcher.Event) (any, error) {
	rec, ok := e.Payload.(core.TurnRecord)
	if !ok {
		return nil, fmt.Errorf("%w: %s wants core.TurnRecord, got %T", ErrUnexpectedPayload, e.Command, e.Payload)
	}

	if err := m.backend.RecordTurn(&rec); err != nil {
		return nil, fmt.Errorf("failed to record turn %d: %w", rec.Turn, err)
	}
	m.writePoint(influx.TurnPoint(m.matchID(), rec))
	return nil, nil
}

func (m *Manager) handleCommands(e dispatcher.Event) (any, error) {
	cmds, ok := e.Payload.([]core.CommandRecord)
	if !ok {
		return nil, fmt.Errorf("%w: %s wants []core.CommandRecord, got %T", ErrUnexpectedPayload, e.Command, e.Payload)
	}
	if len(cmds) == 0 {
		return nil, nil
	}

	if err := m.backend.RecordCommands(cmds); err != nil {
		return nil, fmt.Errorf("failed to record commands for turn %d: %w", e.Turn, err)
	}
	m.writePoint(influx.CommandsPoint(m.matchID(), e.Timestamp, cmds))
	return nil, nil
}

func (m *Manager) handleMatchEnd(e dispatcher.Event) (any, error) {
	r, ok := e.Payload.(core.MatchResult)
	if !ok {
		return nil, fmt.Errorf("%w: %s wants core.MatchResult, got %T", ErrUnexpectedPayload, e.Command, e.Payload)
	}

	m.mu.Lock()
	m.result = &r
	m.mu.Unlock()

	m.writePoint(influx.MatchPoint(m.matchID(), r))
	return nil, nil
}
