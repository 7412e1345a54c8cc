package v1

import (
	"testing"
	"time"

	"github.com/corsair-bot/corsair/internal/hex"
	"github.com/corsair-bot/corsair/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Empty(t *testing.T) {
	export := Build(&MatchData{})

	assert.Equal(t, FormatVersion, export.FormatVersion)
	assert.NotNil(t, export.Ships)
	assert.NotNil(t, export.Commands)
	assert.Empty(t, export.Ships)
	assert.Empty(t, export.StartTime)
}

func TestBuild_MatchAndResult(t *testing.T) {
	start := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	export := Build(&MatchData{
		Match:    &core.Match{ID: "m1", StartTime: start, Seed0: 255, Seed1: 1, MapWidth: 23, MapHeight: 21, Version: "v1.2.0"},
		Result:   &core.MatchResult{Turns: 3, Shots: 1, Moves: 2, Reason: core.EndMaxTurns, EndTime: start.Add(time.Minute)},
		Settings: map[string]int{"leadRange": 2},
	})

	assert.Equal(t, "m1", export.MatchID)
	assert.Equal(t, "0xff", export.Seed0)
	assert.Equal(t, "0x1", export.Seed1)
	assert.Equal(t, "2026-05-01T12:00:00Z", export.StartTime)
	assert.Equal(t, "2026-05-01T12:01:00Z", export.EndTime)
	assert.Equal(t, core.EndMaxTurns, export.EndReason)
	assert.Equal(t, 3, export.Turns)
	assert.Equal(t, map[string]int{"leadRange": 2}, export.Settings)
}

func TestBuild_ShipsSortedWithTracks(t *testing.T) {
	turns := []core.TurnRecord{
		{Turn: 1, BarrelRum: 15, Cooldown: 0, Ships: []core.ShipState{
			{Turn: 1, ShipID: 4, X: 10, Y: 5},
			{Turn: 1, ShipID: 1, X: 0, Y: 0, Mine: true, Health: 100},
		}},
		{Turn: 2, BarrelRum: 15, Cooldown: 1, Ships: []core.ShipState{
			{Turn: 2, ShipID: 1, X: 0, Y: 2, Mine: true, Health: 99},
			{Turn: 2, ShipID: 4, X: 10, Y: 5},
		}},
	}

	export := Build(&MatchData{Turns: turns})

	require.Len(t, export.Ships, 2)
	own, enemy := export.Ships[0], export.Ships[1]

	assert.Equal(t, 1, own.ID)
	assert.True(t, own.Mine)
	assert.Equal(t, [][]int{{1, 0, 0, 0, 0, 100}, {2, 0, 2, 0, 0, 99}}, own.Positions)
	assert.Equal(t, "LINESTRING(0 0,0 3)", own.Track)

	assert.Equal(t, 4, enemy.ID)
	assert.False(t, enemy.Mine)
	assert.Equal(t, "LINESTRING EMPTY", enemy.Track, "a ship that never moved has no track")

	assert.Equal(t, [][]int{{1, 15, 0}, {2, 15, 1}}, export.Rum)
}

func TestBuild_Commands(t *testing.T) {
	export := Build(&MatchData{Commands: []core.CommandRecord{
		{Turn: 1, ShipIndex: 0, ShipID: 1, Command: core.Fire(hex.Offset{X: 12, Y: 5}), Lead: 7},
		{Turn: 2, ShipIndex: 0, ShipID: 1, Command: core.Move(hex.Offset{X: 3, Y: 4})},
	}})

	require.Len(t, export.Commands, 2)
	assert.Equal(t, []any{1, 0, 1, "FIRE", 12, 5, 7}, export.Commands[0])
	assert.Equal(t, []any{2, 0, 1, "MOVE", 3, 4, 0}, export.Commands[1])
}
