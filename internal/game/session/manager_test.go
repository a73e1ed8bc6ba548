package session_test

import (
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/cory-johannsen/fairdice/internal/game/match"
	"github.com/cory-johannsen/fairdice/internal/game/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestManager_AddRemove verifies registration, lookup failure, and counting.
func TestManager_AddRemove(t *testing.T) {
	m := session.NewManager()
	assert.Equal(t, 0, m.Count())

	s1 := m.Add("127.0.0.1:50001")
	s2 := m.Add("127.0.0.1:50002")
	assert.Equal(t, 2, m.Count())
	assert.NotEqual(t, s1.ID, s2.ID)

	require.NoError(t, m.Remove(s1.ID))
	assert.Equal(t, 1, m.Count())

	err := m.Remove(s1.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = m.Remove(uuid.New())
	assert.Error(t, err)
}

// TestManager_Record verifies score accounting per outcome.
func TestManager_Record(t *testing.T) {
	m := session.NewManager()
	s := m.Add("127.0.0.1:50001")

	require.NoError(t, m.Record(s.ID, match.PlayerWins))
	require.NoError(t, m.Record(s.ID, match.PlayerWins))
	require.NoError(t, m.Record(s.ID, match.ComputerWins))
	require.NoError(t, m.Record(s.ID, match.Draw))

	snap := m.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, 2, snap[0].Wins)
	assert.Equal(t, 1, snap[0].Losses)
	assert.Equal(t, 1, snap[0].Draws)

	assert.Error(t, m.Record(uuid.New(), match.Draw))
}

// TestManager_ConcurrentAccess exercises the manager from many goroutines;
// run with -race.
func TestManager_ConcurrentAccess(t *testing.T) {
	m := session.NewManager()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := m.Add("127.0.0.1:5")
			_ = m.Record(s.ID, match.Draw)
			_ = m.Count()
			_ = m.Snapshot()
			_ = m.Remove(s.ID)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, m.Count())
}
