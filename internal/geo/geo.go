// Package geo renders hex cells as planar geometry so recordings can be stored and
// drawn with ordinary GIS tooling.
package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/corsair-bot/corsair/internal/hex"
	geom "github.com/peterstace/simplefeatures/geom"
)

// Geometry is stored as WKB. Cells are laid out pointy-top with odd rows shifted right
// by half a cell, matching the offset coordinate convention, at unit circumradius.

// ErrTooShort is returned when a track has fewer than two cells.
var ErrTooShort = errors.New("track needs at least two cells")

var sqrt3 = math.Sqrt(3)

// Center returns the planar centre of cell o.
func Center(o hex.Offset) geom.XY {
	return geom.XY{
		X: sqrt3 * (float64(o.X) + 0.5*float64(o.Y&1)),
		Y: 1.5 * float64(o.Y),
	}
}

// Point returns the centre of o as a 2D point.
func Point(o hex.Offset) geom.Point {
	return geom.NewPoint(geom.Coordinates{XY: Center(o), Type: geom.DimXY})
}

// Track joins cell centres into a line string, dropping consecutive repeats so a ship
// that stood still does not produce zero-length segments.
func Track(cells []hex.Offset) (geom.LineString, error) {
	flat := make([]float64, 0, len(cells)*2)
	points := 0
	for i, c := range cells {
		if i > 0 && c == cells[i-1] {
			continue
		}
		xy := Center(c)
		flat = append(flat, xy.X, xy.Y)
		points++
	}
	if points < 2 {
		return geom.LineString{}, fmt.Errorf("%w: got %d distinct", ErrTooShort, points)
	}
	return geom.NewLineString(geom.NewSequence(flat, geom.DimXY)), nil
}

// TrackWKT returns the track as WKT, or "LINESTRING EMPTY" when it is too short.
func TrackWKT(cells []hex.Offset) string {
	ls, err := Track(cells)
	if err != nil {
		return geom.LineString{}.AsText()
	}
	return ls.AsText()
}
