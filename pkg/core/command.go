// pkg/core/command.go
package core

import (
	"fmt"

	"github.com/corsair-bot/corsair/internal/hex"
)

// Action is the verb of a ship command.
type Action string

const (
	ActionMove Action = "MOVE"
	ActionFire Action = "FIRE"
)

// Command is the single order issued to one owned ship for one turn.
type Command struct {
	Action Action     `json:"action"`
	Target hex.Offset `json:"target"`
}

// Move builds a MOVE command.
func Move(target hex.Offset) Command {
	return Command{Action: ActionMove, Target: target}
}

// Fire builds a FIRE command.
func Fire(target hex.Offset) Command {
	return Command{Action: ActionFire, Target: target}
}

// String renders the command in protocol form, e.g. "FIRE 12 5".
func (c Command) String() string {
	return fmt.Sprintf("%s %d %d", c.Action, c.Target.X, c.Target.Y)
}
