// pkg/core/entity.go
package core

import "github.com/corsair-bot/corsair/internal/hex"

// EntityKind is the protocol name of an entity type.
type EntityKind string

const (
	KindShip       EntityKind = "SHIP"
	KindBarrel     EntityKind = "BARREL"
	KindMine       EntityKind = "MINE"
	KindCannonball EntityKind = "CANNONBALL"
)

// Entity is one perceived object in a turn snapshot: a Ship, a Barrel or a Hazard.
// Entities are rebuilt from scratch every turn.
type Entity interface {
	EntityID() int
	Kind() EntityKind
	Pos() hex.Offset
	isEntity()
}

// Ship is a vessel on the map. Mine is true for ships controlled by this agent.
type Ship struct {
	ID       int           `json:"id"`
	Position hex.Offset    `json:"position"`
	Heading  hex.Direction `json:"heading"`
	Speed    int           `json:"speed"`
	Health   int           `json:"health"`
	Mine     bool          `json:"mine"`
}

func (s Ship) EntityID() int    { return s.ID }
func (s Ship) Kind() EntityKind { return KindShip }
func (s Ship) Pos() hex.Offset  { return s.Position }
func (Ship) isEntity()          {}

// Barrel is a floating supply of rum.
type Barrel struct {
	ID       int        `json:"id"`
	Position hex.Offset `json:"position"`
	Rum      int        `json:"rum"`
}

func (b Barrel) EntityID() int    { return b.ID }
func (b Barrel) Kind() EntityKind { return KindBarrel }
func (b Barrel) Pos() hex.Offset  { return b.Position }
func (Barrel) isEntity()          {}

// Hazard covers mines, cannonballs and any kind the decision logic ignores.
// Args holds the four raw protocol arguments.
type Hazard struct {
	ID       int        `json:"id"`
	Type     EntityKind `json:"type"`
	Position hex.Offset `json:"position"`
	Args     [4]int     `json:"args"`
}

func (h Hazard) EntityID() int    { return h.ID }
func (h Hazard) Kind() EntityKind { return h.Type }
func (h Hazard) Pos() hex.Offset  { return h.Position }
func (Hazard) isEntity()          {}
