package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/session"
)

// Resolver finds a machine definition by name. *registry.Registry implements it.
type Resolver interface {
	Get(name string) (*machine.Definition, error)
}

// Result summarizes an execution when the runner gives it back.
type Result struct {
	RunID   string        `json:"run_id,omitempty"`
	Machine string        `json:"machine"`
	Status  domain.Status `json:"status"`
	State   domain.State  `json:"state"`
	Head    int           `json:"head"`
	Clock   domain.Clock  `json:"clock"`
	Word    string        `json:"word"`
	Elapsed time.Duration `json:"elapsed"`
}

// Runner handles the execution loop around machine.Execution.
type Runner struct {
	logger          *slog.Logger
	store           ports.SnapshotStore
	locker          ports.RunLocker
	lockTTL         time.Duration
	hooks           domain.LifecycleHooks
	checkpointEvery int
	trace           io.Writer

	sessions *session.Manager
}

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger:          logging.NewNop(),
		lockTTL:         session.DefaultLockTTL,
		checkpointEvery: DefaultCheckpointEvery,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.store != nil {
		sessOpts := []session.Option{
			session.WithLogger(r.logger),
			session.WithLockTTL(r.lockTTL),
		}
		if r.locker != nil {
			sessOpts = append(sessOpts, session.WithLocker(r.locker))
		}
		r.sessions = session.NewManager(r.store, sessOpts...)
	}
	return r
}

// Sessions returns the manager over the configured store, or nil without one.
func (r *Runner) Sessions() *session.Manager {
	return r.sessions
}

// Execute drives exec until it halts or ctx ends.
// With a store, the run is saved under runID after every checkpoint and on
// halt; runID must then be non-empty. If ctx ends first, the latest snapshot
// is saved and ctx.Err() is returned alongside the partial result.
func (r *Runner) Execute(ctx context.Context, runID, machineName string, exec *machine.Execution) (*Result, error) {
	if r.sessions == nil {
		return r.drive(ctx, runID, machineName, exec, nil)
	}
	if runID == "" {
		return nil, fmt.Errorf("runID is required when a store is configured")
	}

	var res *Result
	err := r.sessions.WithLock(ctx, runID, func(ctx context.Context) error {
		var err error
		res, err = r.drive(ctx, runID, machineName, exec, r.sessions.Store())
		return err
	})
	return res, err
}

// Resume loads the snapshot saved under runID, restores it on the machine it
// names and continues it. Resuming a halted run returns its result unchanged.
func (r *Runner) Resume(ctx context.Context, runID string, machines Resolver) (*Result, error) {
	if r.sessions == nil {
		return nil, fmt.Errorf("resume requires a snapshot store")
	}

	var res *Result
	err := r.sessions.WithLock(ctx, runID, func(ctx context.Context) error {
		store := r.sessions.Store()
		snap, err := store.Load(ctx, runID)
		if err != nil {
			return fmt.Errorf("failed to load run %q: %w", runID, err)
		}

		def, err := machines.Get(snap.Machine)
		if err != nil {
			return err
		}
		exec, err := def.Restore(snap)
		if err != nil {
			return fmt.Errorf("run %q: %w", runID, err)
		}

		r.logger.Debug("Resuming run", "run_id", runID, "machine", snap.Machine, "time", snap.Clock.Time)
		res, err = r.drive(ctx, runID, snap.Machine, exec, store)
		return err
	})
	return res, err
}

func (r *Runner) drive(ctx context.Context, runID, machineName string, exec *machine.Execution, store ports.SnapshotStore) (*Result, error) {
	if exec.Halted() {
		return result(runID, machineName, exec, 0), nil
	}

	started := time.Now()
	r.fire(ctx, r.hooks.OnRunStart, domain.EventRunStart, runID, machineName, exec, 0)
	r.logger.Debug("Run started",
		"run_id", runID,
		"machine", machineName,
		"time", exec.Clock().Time,
		"halt_order", exec.HaltOrder().String(),
	)

	checkpoint := func() error {
		if store == nil {
			return nil
		}
		snap := exec.Snapshot()
		snap.Machine = machineName
		if err := store.Save(ctx, runID, snap); err != nil {
			return fmt.Errorf("failed to checkpoint run %q: %w", runID, err)
		}
		return nil
	}

	for !exec.Halted() {
		if err := ctx.Err(); err != nil {
			// Save with a context that outlives the cancellation.
			if store != nil {
				snap := exec.Snapshot()
				snap.Machine = machineName
				if serr := store.Save(context.WithoutCancel(ctx), runID, snap); serr != nil {
					err = errors.Join(err, serr)
				}
			}
			r.logger.Info("Run interrupted", "run_id", runID, "machine", machineName, "time", exec.Clock().Time)
			return result(runID, machineName, exec, time.Since(started)), err
		}

		if err := r.chunk(exec); err != nil {
			return nil, err
		}
		if err := checkpoint(); err != nil {
			return nil, err
		}
	}

	elapsed := time.Since(started)
	r.fire(ctx, r.hooks.OnRunHalt, domain.EventRunHalt, runID, machineName, exec, elapsed)
	r.logger.Info("Run halted",
		"run_id", runID,
		"machine", machineName,
		"status", exec.Status().String(),
		"time", exec.Clock().Time,
		"space", exec.Clock().Space,
		"elapsed", elapsed,
	)
	return result(runID, machineName, exec, elapsed), nil
}

// chunk advances exec by one checkpoint interval, tracing if enabled.
func (r *Runner) chunk(exec *machine.Execution) error {
	if r.trace == nil {
		exec.StepN(r.checkpointEvery)
		return nil
	}

	for i := 0; i < r.checkpointEvery && !exec.Halted(); i++ {
		if exec.Clock().Time == 0 {
			if err := r.traceLine(exec); err != nil {
				return err
			}
		}
		exec.Step()
		if err := r.traceLine(exec); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) traceLine(exec *machine.Execution) error {
	if _, err := fmt.Fprintf(r.trace, "%d\t%s\n", exec.Clock().Time, exec); err != nil {
		return fmt.Errorf("trace: %w", err)
	}
	return nil
}

func (r *Runner) fire(ctx context.Context, hook func(context.Context, *domain.RunEvent), typ domain.EventType, runID, machineName string, exec *machine.Execution, elapsed time.Duration) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.RunEvent{
		Timestamp: time.Now(),
		Type:      typ,
		RunID:     runID,
		Machine:   machineName,
		Status:    exec.Status(),
		Clock:     exec.Clock(),
		Elapsed:   elapsed,
	})
}

func result(runID, machineName string, exec *machine.Execution, elapsed time.Duration) *Result {
	return &Result{
		RunID:   runID,
		Machine: machineName,
		Status:  exec.Status(),
		State:   exec.StateLabel(),
		Head:    exec.Head(),
		Clock:   exec.Clock(),
		Word:    exec.Word(),
		Elapsed: elapsed,
	}
}
