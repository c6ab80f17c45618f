package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audiolith/jobwatch/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func report(at time.Time, healthy bool) types.HealthReport {
	r := types.HealthReport{
		CheckedAt:   at,
		Queue:       &types.QueueStats{Visible: 4, InFlight: 1},
		WorkerCount: 2,
		Healthy:     healthy,
	}
	if !healthy {
		r.Issues = []string{"High queue backlog: 30 messages"}
	}
	return r
}

func TestAppendAndRecent(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := store.Append(report(base.Add(time.Duration(i)*time.Minute), i != 1))
		require.NoError(t, err)
	}

	snaps, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, snaps, 3)

	// Newest first.
	assert.Equal(t, base.Add(2*time.Minute), snaps[0].TakenAt)
	assert.Equal(t, base, snaps[2].TakenAt)
	assert.False(t, snaps[1].Healthy)
	assert.Equal(t, []string{"High queue backlog: 30 messages"}, snaps[1].Issues)
	assert.Equal(t, 4, snaps[0].Visible)
	assert.NotEmpty(t, snaps[0].ID)
}

func TestRecent_HonorsLimit(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_, err := store.Append(report(base.Add(time.Duration(i)*time.Minute), true))
		require.NoError(t, err)
	}

	snaps, err := store.Recent(2)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, base.Add(4*time.Minute), snaps[0].TakenAt)
}

func TestAppend_PrunesOldest(t *testing.T) {
	store := openTestStore(t)
	store.retain = 3
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_, err := store.Append(report(base.Add(time.Duration(i)*time.Minute), true))
		require.NoError(t, err)
	}

	snaps, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	// The two oldest were pruned.
	assert.Equal(t, base.Add(2*time.Minute), snaps[2].TakenAt)
}
