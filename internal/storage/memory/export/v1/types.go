// Package v1 contains the v1 export format for recorded matches.
package v1

// FormatVersion is written into every export.
const FormatVersion = 1

// Export is the root JSON structure for v1 format.
type Export struct {
	FormatVersion int    `json:"formatVersion"`
	MatchID       string `json:"matchId"`
	Version       string `json:"version"`
	Seed0         string `json:"seed0"`
	Seed1         string `json:"seed1"`
	MapWidth      int    `json:"mapWidth"`
	MapHeight     int    `json:"mapHeight"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime,omitempty"`
	EndReason     string `json:"endReason,omitempty"`
	Turns         int    `json:"turns"`
	Shots         int    `json:"shots"`
	Moves         int    `json:"moves"`
	Settings      any    `json:"settings,omitempty"`
	Ships         []Ship `json:"ships"`
	// Commands rows are [turn, shipIndex, shipId, action, x, y, lead].
	Commands [][]any `json:"commands"`
	// Rum rows are [turn, barrelRum, cooldown].
	Rum [][]int `json:"rum"`
}

// Ship is every recorded state of one ship.
type Ship struct {
	ID   int  `json:"id"`
	Mine bool `json:"mine"`
	// Positions rows are [turn, x, y, heading, speed, health].
	Positions [][]int `json:"positions"`
	// Track is the ship's path through hex centres as WKT.
	Track string `json:"track"`
}
