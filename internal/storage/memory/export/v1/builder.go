package v1

import (
	"sort"
	"time"

	"github.com/corsair-bot/corsair/internal/geo"
	"github.com/corsair-bot/corsair/internal/hex"
	"github.com/corsair-bot/corsair/internal/model/convert"
	"github.com/corsair-bot/corsair/pkg/core"
)

// MatchData contains all the data needed to build an export.
type MatchData struct {
	Match    *core.Match
	Result   *core.MatchResult
	Settings any
	Turns    []core.TurnRecord
	Commands []core.CommandRecord
}

// Build creates an Export from the match data.
func Build(data *MatchData) Export {
	export := Export{
		FormatVersion: FormatVersion,
		Settings:      data.Settings,
		Ships:         make([]Ship, 0),
		Commands:      make([][]any, 0, len(data.Commands)),
		Rum:           make([][]int, 0, len(data.Turns)),
	}

	if m := data.Match; m != nil {
		export.MatchID = m.ID
		export.Version = m.Version
		export.Seed0 = convert.SeedString(m.Seed0)
		export.Seed1 = convert.SeedString(m.Seed1)
		export.MapWidth = m.MapWidth
		export.MapHeight = m.MapHeight
		export.StartTime = formatTime(m.StartTime)
	}

	if r := data.Result; r != nil {
		export.EndTime = formatTime(r.EndTime)
		export.EndReason = r.Reason
		export.Turns = r.Turns
		export.Shots = r.Shots
		export.Moves = r.Moves
	}

	ships := make(map[int]*Ship)
	cells := make(map[int][]hex.Offset)
	for _, turn := range data.Turns {
		export.Rum = append(export.Rum, []int{turn.Turn, turn.BarrelRum, turn.Cooldown})
		for _, s := range turn.Ships {
			ship, ok := ships[s.ShipID]
			if !ok {
				ship = &Ship{ID: s.ShipID, Positions: make([][]int, 0)}
				ships[s.ShipID] = ship
			}
			// ownership can only be seen while the ship is alive, keep it sticky
			ship.Mine = ship.Mine || s.Mine
			ship.Positions = append(ship.Positions, []int{s.Turn, s.X, s.Y, s.Heading, s.Speed, s.Health})
			cells[s.ShipID] = append(cells[s.ShipID], hex.Offset{X: s.X, Y: s.Y})
		}
	}

	for id, ship := range ships {
		ship.Track = geo.TrackWKT(cells[id])
		export.Ships = append(export.Ships, *ship)
	}
	sort.Slice(export.Ships, func(i, j int) bool { return export.Ships[i].ID < export.Ships[j].ID })

	for _, c := range data.Commands {
		export.Commands = append(export.Commands, []any{
			c.Turn,
			c.ShipIndex,
			c.ShipID,
			string(c.Command.Action),
			c.Command.Target.X,
			c.Command.Target.Y,
			c.Lead,
		})
	}

	return export
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
