package runner

import (
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

// DefaultCheckpointEvery is the number of steps between snapshots and context checks.
const DefaultCheckpointEvery = 4096

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithStore configures the SnapshotStore for durable runs.
// Without a store, runs are ephemeral and cannot be resumed.
func WithStore(store ports.SnapshotStore) Option {
	return func(r *Runner) {
		r.store = store
	}
}

// WithLocker makes run ownership exclusive across processes sharing the store.
func WithLocker(locker ports.RunLocker) Option {
	return func(r *Runner) {
		r.locker = locker
	}
}

// WithLockTTL sets the lease requested from the locker.
func WithLockTTL(ttl time.Duration) Option {
	return func(r *Runner) {
		r.lockTTL = ttl
	}
}

// WithHooks registers lifecycle hooks, merged after any already set.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Runner) {
		r.hooks = r.hooks.Merge(hooks)
	}
}

// WithCheckpointEvery sets the number of steps between snapshots.
// Values below 1 keep the default.
func WithCheckpointEvery(steps int) Option {
	return func(r *Runner) {
		if steps > 0 {
			r.checkpointEvery = steps
		}
	}
}

// WithTrace writes every configuration the execution passes through to w.
func WithTrace(w io.Writer) Option {
	return func(r *Runner) {
		r.trace = w
	}
}
