// pkg/core/turn.go
package core

import "time"

// Turn is the input for one decision pass: the number of ships still owned and every
// entity visible this turn, in protocol order.
type Turn struct {
	Number      int      `json:"number"`
	MyShipCount int      `json:"myShipCount"`
	Entities    []Entity `json:"-"`
}

// Match describes one process run of the agent.
type Match struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"startTime"`
	Seed0     uint64    `json:"seed0"`
	Seed1     uint64    `json:"seed1"`
	MapWidth  int       `json:"mapWidth"`
	MapHeight int       `json:"mapHeight"`
	Version   string    `json:"version"`
}

// ShipState is the recorded position of one ship in one turn.
type ShipState struct {
	Turn    int  `json:"turn"`
	ShipID  int  `json:"shipId"`
	X       int  `json:"x"`
	Y       int  `json:"y"`
	Heading int  `json:"heading"`
	Speed   int  `json:"speed"`
	Health  int  `json:"health"`
	Mine    bool `json:"mine"`
}

// TurnRecord is what the recorder stores for a completed turn.
type TurnRecord struct {
	Turn        int           `json:"turn"`
	Time        time.Time     `json:"time"`
	MyShipCount int           `json:"myShipCount"`
	EntityCount int           `json:"entityCount"`
	Cooldown    int           `json:"cooldown"`
	Ships       []ShipState   `json:"ships"`
	BarrelRum   int           `json:"barrelRum"`
	Duration    time.Duration `json:"duration"`
}

// CommandRecord is one emitted command together with its decision context.
type CommandRecord struct {
	Turn      int     `json:"turn"`
	ShipIndex int     `json:"shipIndex"`
	ShipID    int     `json:"shipId"`
	Command   Command `json:"command"`
	// Lead is the predicted enemy distance for FIRE commands, zero otherwise.
	Lead int `json:"lead"`
}

// Reasons a match ends.
const (
	EndMaxTurns  = "max_turns"
	EndExhausted = "input_exhausted"
	EndCanceled  = "canceled"
	EndError     = "error"
)

// MatchResult summarises a finished match.
type MatchResult struct {
	Turns   int       `json:"turns"`
	Shots   int       `json:"shots"`
	Moves   int       `json:"moves"`
	Reason  string    `json:"reason"`
	EndTime time.Time `json:"endTime"`
}

// UploadMetadata describes an exported match file sent to a replay server.
type UploadMetadata struct {
	MatchID  string
	Turns    int
	Reason   string
	Duration float64 // seconds
	Tag      string
}
