// Package streaming defines the wire messages the websocket recorder sends to a
// match viewer.
package streaming

import (
	"encoding/json"

	"github.com/corsair-bot/corsair/pkg/core"
)

// Message type constants matching the streaming protocol.
const (
	TypeStartMatch = "start_match"
	TypeEndMatch   = "end_match"
	TypeTurn       = "turn"
	TypeCommands   = "commands"
	TypeAck        = "ack"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// StartMatchPayload announces a match.
type StartMatchPayload struct {
	Match    *core.Match `json:"match"`
	Settings any         `json:"settings,omitempty"`
}

// EndMatchPayload closes a match.
type EndMatchPayload struct {
	Result core.MatchResult `json:"result"`
}

// CommandsPayload carries one turn's commands.
type CommandsPayload struct {
	Turn     int                  `json:"turn"`
	Commands []core.CommandRecord `json:"commands"`
}

// Decode unmarshals the payload of env into v.
func Decode(env Envelope, v any) error {
	return json.Unmarshal(env.Payload, v)
}
