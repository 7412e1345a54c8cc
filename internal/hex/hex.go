// Package hex provides the hexagonal grid model: offset (column,row) coordinates used on
// the wire, cube coordinates used for arithmetic, and the six unit directions.
package hex

import (
	"errors"
	"fmt"
)

// ErrInvalidDirection is returned when a direction index is outside 0..5.
var ErrInvalidDirection = errors.New("invalid hex direction")

// Offset is a (column, row) cell on the rectangular map. Odd rows are shifted right.
type Offset struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (o Offset) String() string {
	return fmt.Sprintf("(%d,%d)", o.X, o.Y)
}

// Cube is a hex cell in cube coordinates. X+Y+Z is always zero.
type Cube struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Valid reports whether the zero-sum invariant holds.
func (c Cube) Valid() bool {
	return c.X+c.Y+c.Z == 0
}

func (c Cube) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// ToCube converts an offset coordinate to cube form.
func ToCube(o Offset) Cube {
	x := o.X - (o.Y-(o.Y&1))/2
	z := o.Y
	return Cube{X: x, Y: -(x + z), Z: z}
}

// ToOffset converts a cube coordinate back to offset form. It is total over all
// integers and the exact inverse of ToCube.
func ToOffset(c Cube) Offset {
	return Offset{
		X: c.X + (c.Z-(c.Z&1))/2,
		Y: c.Z,
	}
}

// Add returns the component-wise sum of a and b.
func Add(a, b Cube) Cube {
	return Cube{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z}
}

// Scale multiplies every component of c by k.
func Scale(c Cube, k int) Cube {
	return Cube{X: c.X * k, Y: c.Y * k, Z: c.Z * k}
}

// Distance returns the number of unit steps between a and b.
func Distance(a, b Cube) int {
	return (abs(a.X-b.X) + abs(a.Y-b.Y) + abs(a.Z-b.Z)) / 2
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
