// Package websocket streams matches to a live viewer over a WebSocket.
package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/corsair-bot/corsair/internal/logging"
	"github.com/corsair-bot/corsair/pkg/core"
	"github.com/corsair-bot/corsair/pkg/streaming"
)

// Config holds WebSocket backend configuration.
type Config struct {
	URL    string
	Secret string
}

// Backend streams match data over WebSocket. Turn and command messages are
// fire-and-forget; match start and end wait for a server ack.
type Backend struct {
	conn *connection
	cfg  Config
}

// New creates a new WebSocket storage backend.
func New(cfg Config, logManager *logging.SlogManager) *Backend {
	if logManager == nil {
		logManager = logging.NewSlogManager()
	}
	return &Backend{
		conn: newConnection(logManager.Logger().With("component", "websocket")),
		cfg:  cfg,
	}
}

// Init connects to the WebSocket server.
func (b *Backend) Init() error {
	return b.conn.dial(b.cfg.URL, b.cfg.Secret)
}

// Close disconnects from the WebSocket server.
func (b *Backend) Close() error {
	return b.conn.close()
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	env := streaming.Envelope{Type: msgType, Payload: raw}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

// sendEnvelope marshals the payload into an Envelope and pushes it
// to the write loop (fire-and-forget).
func (b *Backend) sendEnvelope(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	b.conn.send(data)
	return nil
}

// StartMatch announces the match and waits for the server ack.
func (b *Backend) StartMatch(m *core.Match, settings any) error {
	data, err := marshalEnvelope(streaming.TypeStartMatch, streaming.StartMatchPayload{Match: m, Settings: settings})
	if err != nil {
		return err
	}

	// cached for reconnect replay
	b.conn.mu.Lock()
	b.conn.cachedStart = data
	b.conn.mu.Unlock()

	return b.conn.sendAndWait(data, streaming.TypeStartMatch, ackTimeout)
}

// EndMatch sends the result and waits for the server ack.
func (b *Backend) EndMatch(r core.MatchResult) error {
	data, err := marshalEnvelope(streaming.TypeEndMatch, streaming.EndMatchPayload{Result: r})
	if err != nil {
		return err
	}
	err = b.conn.sendAndWait(data, streaming.TypeEndMatch, ackTimeout)

	// clear cached state regardless of error
	b.conn.mu.Lock()
	b.conn.cachedStart = nil
	b.conn.mu.Unlock()

	return err
}

func (b *Backend) RecordTurn(t *core.TurnRecord) error {
	return b.sendEnvelope(streaming.TypeTurn, t)
}

func (b *Backend) RecordCommands(cmds []core.CommandRecord) error {
	turn := 0
	if len(cmds) > 0 {
		turn = cmds[0].Turn
	}
	return b.sendEnvelope(streaming.TypeCommands, streaming.CommandsPayload{Turn: turn, Commands: cmds})
}
