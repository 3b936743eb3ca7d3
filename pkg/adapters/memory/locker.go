package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/turing/pkg/ports"
)

// Locker implements ports.RunLocker within a single process.
// The TTL is ignored: a lock is held until released.
type Locker struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

// NewLocker creates a new in-process locker.
func NewLocker() *Locker {
	return &Locker{
		locks: make(map[string]chan struct{}),
	}
}

// Lock blocks until the run lock is free or ctx is done.
func (l *Locker) Lock(ctx context.Context, runID string, _ time.Duration) (ports.UnlockFunc, error) {
	for {
		l.mu.Lock()
		held, busy := l.locks[runID]
		if !busy {
			release := make(chan struct{})
			l.locks[runID] = release
			l.mu.Unlock()

			var once sync.Once
			return func(context.Context) error {
				once.Do(func() {
					l.mu.Lock()
					delete(l.locks, runID)
					l.mu.Unlock()
					close(release)
				})
				return nil
			}, nil
		}
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-held:
		}
	}
}
