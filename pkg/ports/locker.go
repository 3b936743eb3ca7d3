package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a run lock.
type UnlockFunc func(ctx context.Context) error

// RunLocker defines the interface for run ownership.
// An execution has exactly one owner; the lock enforces that across
// processes when several runners share a store.
type RunLocker interface {
	// Lock acquires the lock for the given run ID.
	// It blocks until the lock is acquired, the context is canceled, or the TTL expires (implementation specific).
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, runID string, ttl time.Duration) (UnlockFunc, error)
}
