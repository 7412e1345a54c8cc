package perception

import (
	"testing"

	"github.com/corsair-bot/corsair/internal/hex"
	"github.com/corsair-bot/corsair/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(x, y int) hex.Offset { return hex.Offset{X: x, Y: y} }

func TestAggregate_Empty(t *testing.T) {
	snap := Aggregate(nil)

	assert.Nil(t, snap.OwnShip)
	assert.Nil(t, snap.Enemy)
	assert.Nil(t, snap.Barrel)
	assert.Empty(t, snap.OwnShips)
	_, ok := snap.ShipFor(0)
	assert.False(t, ok)
}

func TestAggregate_SelectsRichestBarrel(t *testing.T) {
	snap := Aggregate([]core.Entity{
		core.Barrel{ID: 10, Position: at(3, 3), Rum: 12},
		core.Barrel{ID: 11, Position: at(8, 1), Rum: 18},
	})

	require.NotNil(t, snap.Barrel)
	assert.Equal(t, 18, snap.Barrel.Rum)
	assert.Equal(t, at(8, 1), snap.Barrel.Position)
}

func TestAggregate_BarrelTieKeepsEarlier(t *testing.T) {
	snap := Aggregate([]core.Entity{
		core.Barrel{ID: 1, Position: at(1, 1), Rum: 15},
		core.Barrel{ID: 2, Position: at(2, 2), Rum: 15},
		core.Barrel{ID: 3, Position: at(3, 3), Rum: 10},
	})

	require.NotNil(t, snap.Barrel)
	assert.Equal(t, 1, snap.Barrel.ID)
}

func TestAggregate_ShipsSplitByOwner(t *testing.T) {
	snap := Aggregate([]core.Entity{
		core.Ship{ID: 0, Position: at(5, 5), Mine: true},
		core.Ship{ID: 1, Position: at(10, 5), Heading: hex.Right, Speed: 1},
		core.Ship{ID: 2, Position: at(6, 8), Mine: true},
		core.Ship{ID: 3, Position: at(15, 15), Heading: hex.Left, Speed: 2},
	})

	require.NotNil(t, snap.OwnShip)
	assert.Equal(t, 2, snap.OwnShip.ID, "last owned ship wins")
	require.Len(t, snap.OwnShips, 2)
	assert.Equal(t, 0, snap.OwnShips[0].ID)
	assert.Equal(t, 2, snap.OwnShips[1].ID)

	require.NotNil(t, snap.Enemy)
	assert.Equal(t, 3, snap.Enemy.ID, "last enemy seen overwrites")
	assert.Equal(t, hex.Left, snap.Enemy.Heading)
}

func TestAggregate_IgnoresHazards(t *testing.T) {
	snap := Aggregate([]core.Entity{
		core.Hazard{ID: 7, Type: core.KindMine, Position: at(4, 4)},
		core.Hazard{ID: 8, Type: core.KindCannonball, Position: at(4, 5)},
		core.Hazard{ID: 9, Type: "KRAKEN", Position: at(4, 6)},
	})

	assert.Nil(t, snap.OwnShip)
	assert.Nil(t, snap.Enemy)
	assert.Nil(t, snap.Barrel)
	assert.Equal(t, 3, snap.Hazards)
}

func TestShipFor_FallsBackToLastSeen(t *testing.T) {
	snap := Aggregate([]core.Entity{
		core.Ship{ID: 4, Position: at(2, 2), Mine: true},
	})

	s0, ok := snap.ShipFor(0)
	require.True(t, ok)
	assert.Equal(t, 4, s0.ID)

	s1, ok := snap.ShipFor(1)
	require.True(t, ok)
	assert.Equal(t, 4, s1.ID)
}

func TestAggregate_DoesNotAliasInput(t *testing.T) {
	entities := []core.Entity{core.Barrel{ID: 1, Position: at(1, 1), Rum: 11}}
	snap := Aggregate(entities)
	snap.Barrel.Rum = 99

	assert.Equal(t, 11, entities[0].(core.Barrel).Rum)
}
