package ports

import (
	"context"
	"time"

	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/domain"
)

// Snapshot is the persisted state of one tree between ticks.
// Trees keep no per-node memory, so the blackboard is all there is to save.
type Snapshot struct {
	TreeID  string             `json:"tree_id"`
	Tick    uint64             `json:"tick"`
	State   domain.NodeState   `json:"state"`
	SavedAt time.Time          `json:"saved_at"`
	Entries []blackboard.Entry `json:"entries"`
}

// SnapshotStore defines the interface for persisting tree snapshots.
type SnapshotStore interface {
	// Save persists the snapshot under treeID, replacing any previous one.
	Save(ctx context.Context, treeID string, snap *Snapshot) error

	// Load retrieves the snapshot for treeID.
	// Returns domain.ErrSnapshotNotFound if none exists.
	Load(ctx context.Context, treeID string) (*Snapshot, error)

	// Delete removes the snapshot for treeID. Deleting a missing snapshot is not an error.
	Delete(ctx context.Context, treeID string) error

	// List returns the ids of stored snapshots.
	List(ctx context.Context) ([]string, error)
}
