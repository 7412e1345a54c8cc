package streaming

import (
	"encoding/json"
	"testing"

	"github.com/corsair-bot/corsair/internal/hex"
	"github.com/corsair-bot/corsair/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_CommandsPayload(t *testing.T) {
	payload := CommandsPayload{
		Turn: 3,
		Commands: []core.CommandRecord{
			{Turn: 3, ShipID: 1, Command: core.Fire(hex.Offset{X: 12, Y: 5}), Lead: 7},
		},
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	data, err := json.Marshal(Envelope{Type: TypeCommands, Payload: raw})
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, TypeCommands, env.Type)

	var got CommandsPayload
	require.NoError(t, Decode(env, &got))
	assert.Equal(t, payload, got)
}

func TestAckMessage_Wire(t *testing.T) {
	var ack AckMessage
	require.NoError(t, json.Unmarshal([]byte(`{"type":"ack","for":"start_match"}`), &ack))
	assert.Equal(t, TypeAck, ack.Type)
	assert.Equal(t, TypeStartMatch, ack.For)
}
