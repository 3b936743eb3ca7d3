package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore implementation
// adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	runID := "contract-test-run-" + time.Now().Format("20060102150405")

	sample := func() *machine.Snapshot {
		return &machine.Snapshot{
			Machine: "last-symbol",
			State:   3,
			Head:    2,
			Tape:    []int{1, 3, 3, 3, 2},
			Status:  domain.StatusRunning,
			Clock:   domain.Clock{Time: 2, TimeLimit: 10, Space: 5},
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		snap := sample()

		err := store.Save(ctx, runID, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap, loaded)
	})

	t.Run("Save Isolates Caller", func(t *testing.T) {
		snap := sample()
		require.NoError(t, store.Save(ctx, runID, snap))

		snap.Tape[1] = 0
		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, 3, loaded.Tape[1], "mutating the saved snapshot must not leak into the store")
	})

	t.Run("Overwrite", func(t *testing.T) {
		snap := sample()
		require.NoError(t, store.Save(ctx, runID, snap))

		snap.Status = domain.StatusAccept
		snap.Clock.Time = 7
		require.NoError(t, store.Save(ctx, runID, snap))

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusAccept, loaded.Status)
		assert.Equal(t, 7, loaded.Clock.Time)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, runID, sample()))

		err := store.Delete(ctx, runID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		_ = store.Save(ctx, id1, sample())
		_ = store.Save(ctx, id2, sample())

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		runs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, runs, id1)
		assert.Contains(t, runs, id2)
	})
}
