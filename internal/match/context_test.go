package match

import (
	"sync"
	"testing"

	"github.com/corsair-bot/corsair/internal/hex"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_BeforeStart(t *testing.T) {
	ctx := NewContext()

	assert.Nil(t, ctx.GetMatch())
	assert.Nil(t, ctx.LogAttrs())
	assert.Equal(t, 0, ctx.Turn())
}

func TestContext_Start(t *testing.T) {
	ctx := NewContext()
	ctx.SetTurn(9)

	m := ctx.Start(1, 2, hex.DefaultGrid, "test")

	require.NotNil(t, m)
	_, err := uuid.Parse(m.ID)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), m.Seed0)
	assert.Equal(t, uint64(2), m.Seed1)
	assert.Equal(t, 23, m.MapWidth)
	assert.Equal(t, 21, m.MapHeight)
	assert.False(t, m.StartTime.IsZero())
	assert.Same(t, m, ctx.GetMatch())
	assert.Equal(t, 0, ctx.Turn(), "turn resets on start")

	other := ctx.Start(1, 2, hex.DefaultGrid, "test")
	assert.NotEqual(t, m.ID, other.ID)
}

func TestContext_LogAttrs(t *testing.T) {
	ctx := NewContext()
	m := ctx.Start(0, 1, hex.DefaultGrid, "test")
	ctx.SetTurn(5)

	attrs := ctx.LogAttrs()
	require.Len(t, attrs, 2)
	assert.Equal(t, "match", attrs[0].Key)
	assert.Equal(t, m.ID, attrs[0].Value.String())
	assert.Equal(t, "turn", attrs[1].Key)
	assert.Equal(t, int64(5), attrs[1].Value.Int64())
}

func TestContext_ThreadSafe(t *testing.T) {
	ctx := NewContext()
	ctx.Start(0, 1, hex.DefaultGrid, "test")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				ctx.SetTurn(i*100 + j)
				_ = ctx.LogAttrs()
				_ = ctx.GetMatch()
			}
		}(i)
	}
	wg.Wait()

	assert.GreaterOrEqual(t, ctx.Turn(), 0)
}
