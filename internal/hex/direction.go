package hex

import "fmt"

// Direction is one of the six hex headings, clockwise from Right.
type Direction int

const (
	Right Direction = iota
	UpRight
	UpLeft
	Left
	DownLeft
	DownRight
)

// DirectionCount is the number of valid directions.
const DirectionCount = 6

var unitVectors = [DirectionCount]Cube{
	Right:     {X: 1, Y: -1, Z: 0},
	UpRight:   {X: 1, Y: 0, Z: -1},
	UpLeft:    {X: 0, Y: 1, Z: -1},
	Left:      {X: -1, Y: 1, Z: 0},
	DownLeft:  {X: -1, Y: 0, Z: 1},
	DownRight: {X: 0, Y: -1, Z: 1},
}

var directionNames = [DirectionCount]string{
	"right", "upright", "upleft", "left", "downleft", "downright",
}

// Valid reports whether d is in 0..5.
func (d Direction) Valid() bool {
	return d >= 0 && d < DirectionCount
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// UnitVector returns the cube step for d.
func UnitVector(d Direction) (Cube, error) {
	if !d.Valid() {
		return Cube{}, fmt.Errorf("%w: %d", ErrInvalidDirection, int(d))
	}
	return unitVectors[d], nil
}

// Neighbor returns the cell adjacent to c in direction d.
func Neighbor(c Cube, d Direction) (Cube, error) {
	v, err := UnitVector(d)
	if err != nil {
		return Cube{}, err
	}
	return Add(c, v), nil
}
