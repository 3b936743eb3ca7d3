package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/machine"
)

// SnapshotStore defines the interface for persisting execution snapshots.
// This enables "Stop & Resume" of long runs. Machine definitions are never
// stored, only the name a snapshot was taken under.
type SnapshotStore interface {
	// Save persists the snapshot for a given run ID, replacing any previous one.
	Save(ctx context.Context, runID string, snap *machine.Snapshot) error

	// Load retrieves the snapshot for a given run ID.
	// Returns domain.ErrSnapshotNotFound if the run does not exist.
	Load(ctx context.Context, runID string) (*machine.Snapshot, error)

	// Delete removes the snapshot for a given run ID.
	Delete(ctx context.Context, runID string) error

	// List returns the stored run IDs.
	List(ctx context.Context) ([]string, error)
}
