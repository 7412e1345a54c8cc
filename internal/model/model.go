package model

import (
	"database/sql"
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

// DatabaseModels lists every table in the recording schema, in migration order.
var DatabaseModels = []any{
	&Match{},
	&Turn{},
	&ShipState{},
	&Command{},
}

// Match is one process run of the agent.
type Match struct {
	ID        string       `json:"id" gorm:"primaryKey;size:36"`
	StartTime time.Time    `json:"startTime" gorm:"index:idx_match_start_time"`
	EndTime   sql.NullTime `json:"endTime"`
	// Seeds are hex strings: Postgres has no unsigned 64-bit column type.
	Seed0     string         `json:"seed0" gorm:"size:18"`
	Seed1     string         `json:"seed1" gorm:"size:18"`
	MapWidth  int            `json:"mapWidth"`
	MapHeight int            `json:"mapHeight"`
	Version   string         `json:"version" gorm:"size:64"`
	Turns     int            `json:"turns"`
	Shots     int            `json:"shots"`
	Moves     int            `json:"moves"`
	EndReason string         `json:"endReason" gorm:"size:32"`
	Settings  datatypes.JSON `json:"settings"`
}

func (*Match) TableName() string {
	return "matches"
}

// Turn is one decision pass.
type Turn struct {
	ID          uint           `json:"id" gorm:"primarykey;autoIncrement;"`
	MatchID     string         `json:"matchId" gorm:"size:36;index:idx_turn_match_id"`
	Match       Match          `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:MatchID;"`
	Turn        int            `json:"turn" gorm:"index:idx_turn_turn"`
	Time        time.Time      `json:"time"`
	MyShipCount int            `json:"myShipCount"`
	EntityCount int            `json:"entityCount"`
	Cooldown    int            `json:"cooldown"`
	BarrelRum   int            `json:"barrelRum"`
	DurationUs  int64          `json:"durationUs"`
	Ships       datatypes.JSON `json:"ships"`
}

func (*Turn) TableName() string {
	return "turns"
}

// ShipState is the position of one ship in one turn.
type ShipState struct {
	ID       uint       `json:"id" gorm:"primarykey;autoIncrement;"`
	MatchID  string     `json:"matchId" gorm:"size:36;index:idx_shipstate_match_id"`
	Match    Match      `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:MatchID;"`
	Turn     int        `json:"turn" gorm:"index:idx_shipstate_turn"`
	ShipID   int        `json:"shipId" gorm:"index:idx_shipstate_ship_id"`
	Col      int        `json:"col"`
	Row      int        `json:"row"`
	Position geom.Point `json:"position"`
	Heading  int        `json:"heading"`
	Speed    int        `json:"speed"`
	Health   int        `json:"health"`
	Mine     bool       `json:"mine"`
}

func (*ShipState) TableName() string {
	return "ship_states"
}

// Command is one emitted command.
type Command struct {
	ID        uint          `json:"id" gorm:"primarykey;autoIncrement;"`
	MatchID   string        `json:"matchId" gorm:"size:36;index:idx_command_match_id"`
	Match     Match         `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:MatchID;"`
	Turn      int           `json:"turn" gorm:"index:idx_command_turn"`
	ShipIndex int           `json:"shipIndex"`
	ShipID    sql.NullInt32 `json:"shipId" gorm:"default:NULL"` // null when no owned ship was reported for the slot
	Action    string        `json:"action" gorm:"size:8"`
	TargetCol int           `json:"targetCol"`
	TargetRow int           `json:"targetRow"`
	Target    geom.Point    `json:"target"`
	Lead      int           `json:"lead"`
}

func (*Command) TableName() string {
	return "commands"
}
