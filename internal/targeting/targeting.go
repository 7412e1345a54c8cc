// Package targeting computes firing solutions against moving ships.
package targeting

import (
	"fmt"

	"github.com/corsair-bot/corsair/internal/hex"
	"github.com/corsair-bot/corsair/pkg/core"
)

// Solution describes where to aim at an enemy and whether the shot is allowed.
type Solution struct {
	Predicted hex.Cube   `json:"predicted"`
	Aim       hex.Offset `json:"aim"`
	Distance  int        `json:"distance"`
	InRange   bool       `json:"inRange"`
}

// Solver extrapolates an enemy along its heading by a fixed number of hex steps
// per unit of speed. LeadRange is a fixed window, not the distance to the target.
type Solver struct {
	LeadRange       int
	FireDistanceMax int
}

// NewSolver returns a Solver. Negative values are clamped to zero.
func NewSolver(leadRange, fireDistanceMax int) Solver {
	return Solver{
		LeadRange:       max(leadRange, 0),
		FireDistanceMax: max(fireDistanceMax, 0),
	}
}

// DefaultSolver uses the standard game constants.
func DefaultSolver() Solver {
	return NewSolver(core.LeadRange, core.FireDistanceMax)
}

// Solve predicts the enemy's position and checks it against the firing range from shooter.
// The predicted cell is not clamped to the map.
func (s Solver) Solve(shooter hex.Cube, enemy core.Ship) (Solution, error) {
	course, err := hex.UnitVector(enemy.Heading)
	if err != nil {
		return Solution{}, fmt.Errorf("solve for ship %d: %w", enemy.ID, err)
	}

	predicted := hex.Add(hex.ToCube(enemy.Position), hex.Scale(course, s.LeadRange*enemy.Speed))
	dist := hex.Distance(shooter, predicted)

	return Solution{
		Predicted: predicted,
		Aim:       hex.ToOffset(predicted),
		Distance:  dist,
		InRange:   dist <= s.FireDistanceMax,
	}, nil
}
