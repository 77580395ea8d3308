// Package tests holds reusable contract suites for the interfaces in pkg/ports.
package tests

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// RunSnapshotStoreContract verifies that a SnapshotStore implementation adheres to the
// interface contract.
func RunSnapshotStoreContract(t *testing.T, store ports.SnapshotStore) {
	t.Helper()
	ctx := context.Background()
	treeID := "contract-tree-" + time.Now().Format("20060102150405")

	newSnapshot := func(id string) *ports.Snapshot {
		bb := blackboard.New()
		require.NoError(t, blackboard.Set(bb, "alive", true))
		require.NoError(t, blackboard.Set(bb, "hp", 42))
		require.NoError(t, blackboard.Set(bb, "speed", 1.5))
		require.NoError(t, blackboard.Set(bb, "name", "orc"))
		return &ports.Snapshot{
			TreeID:  id,
			Tick:    7,
			State:   domain.Running,
			SavedAt: time.Now().UTC().Truncate(time.Second),
			Entries: bb.Snapshot(),
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		snap := newSnapshot(treeID)
		require.NoError(t, store.Save(ctx, treeID, snap))

		loaded, err := store.Load(ctx, treeID)
		require.NoError(t, err)
		assert.Equal(t, snap.TreeID, loaded.TreeID)
		assert.Equal(t, snap.Tick, loaded.Tick)
		assert.Equal(t, snap.State, loaded.State)
		assert.True(t, snap.SavedAt.Equal(loaded.SavedAt))

		// Types must survive the round trip: an int stays an int, not a float.
		restored := blackboard.New()
		require.NoError(t, restored.Restore(loaded.Entries))
		hp, err := blackboard.Get[int](restored, "hp")
		require.NoError(t, err)
		assert.Equal(t, 42, hp)
		speed, err := blackboard.Get[float64](restored, "speed")
		require.NoError(t, err)
		assert.Equal(t, 1.5, speed)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		snap := newSnapshot(treeID)
		snap.Tick = 99
		require.NoError(t, store.Save(ctx, treeID, snap))

		loaded, err := store.Load(ctx, treeID)
		require.NoError(t, err)
		assert.Equal(t, uint64(99), loaded.Tick)
	})

	t.Run("Load Is Isolated", func(t *testing.T) {
		loaded, err := store.Load(ctx, treeID)
		require.NoError(t, err)
		loaded.Entries = nil
		loaded.Tick = 0

		again, err := store.Load(ctx, treeID)
		require.NoError(t, err)
		assert.NotEmpty(t, again.Entries)
		assert.NotZero(t, again.Tick)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+treeID)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, treeID, newSnapshot(treeID)))
		require.NoError(t, store.Delete(ctx, treeID))

		_, err := store.Load(ctx, treeID)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")

		assert.NoError(t, store.Delete(ctx, treeID), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := treeID + "-1"
		id2 := treeID + "-2"
		require.NoError(t, store.Save(ctx, id1, newSnapshot(id1)))
		require.NoError(t, store.Save(ctx, id2, newSnapshot(id2)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}

// RunLockerContract verifies mutual exclusion and release for a DistributedLocker.
func RunLockerContract(t *testing.T, locker ports.DistributedLocker) {
	t.Helper()
	ctx := context.Background()

	t.Run("Lock and Unlock", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, "contract-a", 5*time.Second)
		require.NoError(t, err)
		require.NotNil(t, unlock)
		require.NoError(t, unlock(ctx))

		unlock, err = locker.Lock(ctx, "contract-a", 5*time.Second)
		require.NoError(t, err, "a released lock can be taken again")
		require.NoError(t, unlock(ctx))
	})

	t.Run("Contention", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, "contract-b", 5*time.Second)
		require.NoError(t, err)

		timeout, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
		defer cancel()
		_, err = locker.Lock(timeout, "contract-b", 5*time.Second)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		require.NoError(t, unlock(ctx))
	})

	t.Run("Independent Keys", func(t *testing.T) {
		var wg sync.WaitGroup
		for _, key := range []string{"contract-c", "contract-d"} {
			wg.Add(1)
			go func(key string) {
				defer wg.Done()
				timeout, cancel := context.WithTimeout(ctx, 2*time.Second)
				defer cancel()
				unlock, err := locker.Lock(timeout, key, 5*time.Second)
				if assert.NoError(t, err) {
					assert.NoError(t, unlock(ctx))
				}
			}(key)
		}
		wg.Wait()
	})
}
