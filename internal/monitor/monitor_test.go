package monitor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/corsair-bot/corsair/internal/hex"
	"github.com/corsair-bot/corsair/internal/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	pending int
	last    time.Duration
}

func (f fakeRecorder) Pending() int { return f.pending }
func (f fakeRecorder) GetLastDBWriteDuration() time.Duration { return f.last }

func readStatus(t *testing.T, path string) Status {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var st Status
	require.NoError(t, json.Unmarshal(data, &st))
	return st
}

func TestGetStatus(t *testing.T) {
	mc := match.NewContext()
	m := mc.Start(1, 2, hex.DefaultGrid, "test")
	mc.SetTurn(17)

	s := NewService(Dependencies{
		Match:    mc,
		Recorder: fakeRecorder{pending: 42, last: 1500 * time.Microsecond},
	})

	st := s.GetStatus()
	assert.Equal(t, m.ID, st.MatchID)
	assert.Equal(t, 17, st.Turn)
	assert.Equal(t, 42, st.PendingRows)
	assert.InDelta(t, 1.5, st.LastWriteMs, 1e-9)
}

func TestGetStatus_NoDependencies(t *testing.T) {
	st := NewService(Dependencies{}).GetStatus()
	assert.Empty(t, st.MatchID)
	assert.Zero(t, st.PendingRows)
}

func TestWriteStatus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "status.json")
	s := NewService(Dependencies{StatusFile: path, Recorder: fakeRecorder{pending: 3}})

	require.NoError(t, s.WriteStatus())
	assert.Equal(t, 3, readStatus(t, path).PendingRows)

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWriteStatus_NoFile(t *testing.T) {
	assert.NoError(t, NewService(Dependencies{}).WriteStatus())
}

func TestStartStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	mc := match.NewContext()
	s := NewService(Dependencies{Match: mc, StatusFile: path, Interval: 10 * time.Millisecond})

	require.NoError(t, s.Start())
	require.NoError(t, s.Start(), "second Start is a no-op")
	assert.True(t, s.IsRunning())

	assert.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	mc.SetTurn(5)
	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Equal(t, 5, readStatus(t, path).Turn, "Stop writes a final snapshot")

	s.Stop()
}
