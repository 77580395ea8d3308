package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/ports/tests"
)

func TestMemoryStore_Contract(t *testing.T) {
	tests.RunSnapshotStoreContract(t, memory.NewStore())
}

func TestMemoryLocker_Contract(t *testing.T) {
	tests.RunLockerContract(t, memory.NewLocker())
}

func TestMemoryStore_SaveCopiesEntries(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	snap := &ports.Snapshot{TreeID: "t", Tick: 1}
	require.NoError(t, store.Save(ctx, "t", snap))
	snap.Tick = 2

	loaded, err := store.Load(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), loaded.Tick)
}
