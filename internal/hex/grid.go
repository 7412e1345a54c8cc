package hex

import "fmt"

// Grid is the rectangular playing field in offset coordinates.
type Grid struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DefaultGrid is the standard 23x21 map.
var DefaultGrid = Grid{Width: 23, Height: 21}

// Contains reports whether o lies inside the map.
func (g Grid) Contains(o Offset) bool {
	return o.X >= 0 && o.X < g.Width && o.Y >= 0 && o.Y < g.Height
}

// Center returns the middle cell of the map.
func (g Grid) Center() Offset {
	return Offset{X: g.Width / 2, Y: g.Height / 2}
}

// Cells returns every cell in row-major order.
func (g Grid) Cells() []Offset {
	if g.Width <= 0 || g.Height <= 0 {
		return nil
	}
	cells := make([]Offset, 0, g.Width*g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			cells = append(cells, Offset{X: x, Y: y})
		}
	}
	return cells
}

func (g Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d)", g.Width, g.Height)
}
