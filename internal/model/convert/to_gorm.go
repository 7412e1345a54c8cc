// Package convert maps recorder records onto GORM models.
package convert

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/corsair-bot/corsair/internal/geo"
	"github.com/corsair-bot/corsair/internal/hex"
	"github.com/corsair-bot/corsair/internal/model"
	"github.com/corsair-bot/corsair/pkg/core"
	"gorm.io/datatypes"
)

// toJSON marshals v, falling back to fallback when v is empty or cannot be encoded.
func toJSON(v any, fallback string) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return datatypes.JSON(fallback)
	}
	return datatypes.JSON(data)
}

// SeedString renders a seed the way it is stored.
func SeedString(seed uint64) string {
	return fmt.Sprintf("0x%x", seed)
}

// CoreToMatch converts a core.Match. settings is stored as-is in the Settings column.
func CoreToMatch(m core.Match, settings any) model.Match {
	return model.Match{
		ID:        m.ID,
		StartTime: m.StartTime,
		Seed0:     SeedString(m.Seed0),
		Seed1:     SeedString(m.Seed1),
		MapWidth:  m.MapWidth,
		MapHeight: m.MapHeight,
		Version:   m.Version,
		Settings:  toJSON(settings, "{}"),
	}
}

// ApplyResult fills the end-of-match columns.
func ApplyResult(m *model.Match, r core.MatchResult) {
	m.EndTime = sql.NullTime{Time: r.EndTime, Valid: !r.EndTime.IsZero()}
	m.Turns = r.Turns
	m.Shots = r.Shots
	m.Moves = r.Moves
	m.EndReason = r.Reason
}

// CoreToTurn converts a turn record. Ship states are also kept inline as JSON.
func CoreToTurn(matchID string, t core.TurnRecord) model.Turn {
	return model.Turn{
		MatchID:     matchID,
		Turn:        t.Turn,
		Time:        t.Time,
		MyShipCount: t.MyShipCount,
		EntityCount: t.EntityCount,
		Cooldown:    t.Cooldown,
		BarrelRum:   t.BarrelRum,
		DurationUs:  t.Duration.Microseconds(),
		Ships:       toJSON(t.Ships, "[]"),
	}
}

// CoreToShipState converts one ship state.
func CoreToShipState(matchID string, s core.ShipState) model.ShipState {
	return model.ShipState{
		MatchID:  matchID,
		Turn:     s.Turn,
		ShipID:   s.ShipID,
		Col:      s.X,
		Row:      s.Y,
		Position: geo.Point(hex.Offset{X: s.X, Y: s.Y}),
		Heading:  s.Heading,
		Speed:    s.Speed,
		Health:   s.Health,
		Mine:     s.Mine,
	}
}

// CoreToCommand converts one command record. A negative ship id is stored as NULL.
func CoreToCommand(matchID string, c core.CommandRecord) model.Command {
	return model.Command{
		MatchID:   matchID,
		Turn:      c.Turn,
		ShipIndex: c.ShipIndex,
		ShipID:    sql.NullInt32{Int32: int32(c.ShipID), Valid: c.ShipID >= 0},
		Action:    string(c.Command.Action),
		TargetCol: c.Command.Target.X,
		TargetRow: c.Command.Target.Y,
		Target:    geo.Point(c.Command.Target),
		Lead:      c.Lead,
	}
}
