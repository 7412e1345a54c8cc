// pkg/core/rules.go
package core

// Game rule constants. Only a few drive decisions; the rest describe the referee.
const (
	MapWidth            = 23
	MapHeight           = 21
	CooldownCannon      = 2
	CooldownMine        = 5
	InitialShipHealth   = 100
	MaxShipHealth       = 100
	MaxShipSpeed        = 2
	MinShips            = 1
	MaxShips            = 3
	MinRumBarrels       = 10
	MaxRumBarrels       = 26
	MinRumBarrelValue   = 10
	MaxRumBarrelValue   = 20
	RewardRumBarrel     = 30
	MineVisibilityRange = 5
	FireDistanceMax     = 10
	LowDamage           = 25
	HighDamage          = 50
	MineDamage          = 25
	NearMineDamage      = 10
	MaxTurns            = 200

	// LeadRange is the fixed number of steps per unit of enemy speed used to lead a shot.
	LeadRange = 2
)
