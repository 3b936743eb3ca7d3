package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/turing/pkg/domain"
)

// LogHooks returns lifecycle hooks that write one structured record per event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.DebugContext(ctx, "run_start",
				"run_id", e.RunID,
				"machine", e.Machine,
				"time_limit", e.Clock.TimeLimit,
				"space_limit", e.Clock.SpaceLimit,
			)
		},
		OnRunHalt: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_halt",
				"run_id", e.RunID,
				"machine", e.Machine,
				"status", e.Status.String(),
				"time", e.Clock.Time,
				"space", e.Clock.Space,
				"elapsed", e.Elapsed,
			)
		},
	}
}
