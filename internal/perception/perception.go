// Package perception reduces a turn's entity list to the handful of facts the
// decision logic acts on.
package perception

import "github.com/corsair-bot/corsair/pkg/core"

// Snapshot is the per-turn view of the world. Nil pointers mean "not seen this turn".
type Snapshot struct {
	// OwnShip is the last owned ship seen.
	OwnShip *core.Ship
	// OwnShips lists every owned ship in the order it was reported.
	OwnShips []core.Ship
	// Enemy is the last enemy ship seen.
	Enemy *core.Ship
	// Barrel is the barrel with the most rum; the earliest wins a tie.
	Barrel *core.Barrel
	// Hazards counts ignored entities, for diagnostics only.
	Hazards int
}

// Aggregate runs a single pass over entities. It keeps no state between calls.
func Aggregate(entities []core.Entity) Snapshot {
	var snap Snapshot

	for _, e := range entities {
		switch v := e.(type) {
		case core.Ship:
			ship := v
			if ship.Mine {
				snap.OwnShip = &ship
				snap.OwnShips = append(snap.OwnShips, ship)
			} else {
				snap.Enemy = &ship
			}
		case core.Barrel:
			barrel := v
			if snap.Barrel == nil || barrel.Rum > snap.Barrel.Rum {
				snap.Barrel = &barrel
			}
		default:
			snap.Hazards++
		}
	}

	return snap
}

// ShipFor returns the owned ship attributed to the i-th command of the turn, for
// recording and idle bookkeeping. Firing range is always measured from OwnShip.
// When the turn reported fewer owned ships than the ship count, the last one seen
// stands in.
func (s Snapshot) ShipFor(i int) (core.Ship, bool) {
	if i >= 0 && i < len(s.OwnShips) {
		return s.OwnShips[i], true
	}
	if s.OwnShip != nil {
		return *s.OwnShip, true
	}
	return core.Ship{}, false
}
