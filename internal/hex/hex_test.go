package hex

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCube(t *testing.T) {
	tests := []struct {
		name string
		in   Offset
		want Cube
	}{
		{"origin", Offset{0, 0}, Cube{0, 0, 0}},
		{"even row", Offset{4, 2}, Cube{3, -5, 2}},
		{"odd row", Offset{4, 3}, Cube{3, -6, 3}},
		{"first odd row", Offset{0, 1}, Cube{0, -1, 1}},
		{"far corner", Offset{22, 20}, Cube{12, -32, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToCube(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestRoundTrip_AllCellsInGrid(t *testing.T) {
	for _, c := range DefaultGrid.Cells() {
		cube := ToCube(c)
		require.True(t, cube.Valid(), "cube %v from %v must sum to zero", cube, c)
		assert.Equal(t, c, ToOffset(cube))
	}
}

func TestRoundTrip_NegativeAndOutsideCells(t *testing.T) {
	for y := -7; y <= 30; y++ {
		for x := -7; x <= 30; x++ {
			o := Offset{x, y}
			assert.Equal(t, o, ToOffset(ToCube(o)), "offset %v", o)
		}
	}
}

func TestAddScale(t *testing.T) {
	a := Cube{1, -3, 2}
	b := Cube{-2, 0, 2}

	assert.Equal(t, Cube{-1, -3, 4}, Add(a, b))
	assert.Equal(t, Cube{3, -9, 6}, Scale(a, 3))
	assert.Equal(t, Cube{0, 0, 0}, Scale(a, 0))
	assert.True(t, Add(a, b).Valid())
}

func TestDistance_Zero(t *testing.T) {
	for _, c := range DefaultGrid.Cells() {
		cube := ToCube(c)
		assert.Equal(t, 0, Distance(cube, cube))
	}
}

func TestDistance_UnitSteps(t *testing.T) {
	for _, c := range DefaultGrid.Cells() {
		cube := ToCube(c)
		for d := Direction(0); d < DirectionCount; d++ {
			n, err := Neighbor(cube, d)
			require.NoError(t, err)
			assert.Equal(t, 1, Distance(cube, n), "from %v toward %s", cube, d)
		}
	}
}

func TestDistance_Symmetric(t *testing.T) {
	cells := DefaultGrid.Cells()
	for i := 0; i < len(cells); i += 7 {
		for j := 0; j < len(cells); j += 11 {
			a, b := ToCube(cells[i]), ToCube(cells[j])
			assert.Equal(t, Distance(a, b), Distance(b, a))
		}
	}
}

func TestDistance_KnownValues(t *testing.T) {
	a := ToCube(Offset{5, 5})
	assert.Equal(t, 5, Distance(a, ToCube(Offset{10, 5})))
	assert.Equal(t, 7, Distance(a, ToCube(Offset{12, 5})))
	assert.Equal(t, 4, Distance(a, ToCube(Offset{5, 9})))
}

func TestUnitVector(t *testing.T) {
	for d := Direction(0); d < DirectionCount; d++ {
		v, err := UnitVector(d)
		require.NoError(t, err)
		assert.True(t, v.Valid())
		assert.Equal(t, 1, Distance(Cube{}, v))
	}

	v, err := UnitVector(Right)
	require.NoError(t, err)
	assert.Equal(t, Offset{1, 0}, ToOffset(v), "right moves along increasing column")
}

func TestUnitVector_Invalid(t *testing.T) {
	for _, d := range []Direction{-1, 6, 42} {
		_, err := UnitVector(d)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidDirection))
	}
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "right", Right.String())
	assert.Equal(t, "downright", DownRight.String())
	assert.Equal(t, "Direction(9)", Direction(9).String())
}

func TestGridContains(t *testing.T) {
	g := DefaultGrid

	assert.True(t, g.Contains(Offset{0, 0}))
	assert.True(t, g.Contains(Offset{22, 20}))
	assert.False(t, g.Contains(Offset{23, 0}))
	assert.False(t, g.Contains(Offset{0, 21}))
	assert.False(t, g.Contains(Offset{-1, 5}))
	assert.Equal(t, Offset{11, 10}, g.Center())
	assert.Len(t, g.Cells(), 23*21)
	assert.Nil(t, Grid{}.Cells())
}
