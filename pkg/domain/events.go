package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart EventType = "run_start"
	EventRunHalt  EventType = "run_halt"
)

// RunEvent describes an execution as seen by a driver at a lifecycle boundary.
type RunEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Type      EventType     `json:"type"`
	RunID     string        `json:"run_id,omitempty"`
	Machine   string        `json:"machine"`
	Status    Status        `json:"status"`
	Clock     Clock         `json:"clock"`
	Elapsed   time.Duration `json:"elapsed,omitempty"`
}

// LifecycleHooks defines callbacks for observability.
// The engine's step loop never calls them; drivers fire them around runs.
type LifecycleHooks struct {
	OnRunStart func(context.Context, *RunEvent)
	OnRunHalt  func(context.Context, *RunEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRunStart: chain(h.OnRunStart, other.OnRunStart),
		OnRunHalt:  chain(h.OnRunHalt, other.OnRunHalt),
	}
}

func chain(a, b func(context.Context, *RunEvent)) func(context.Context, *RunEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *RunEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
