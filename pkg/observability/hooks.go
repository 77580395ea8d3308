package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/arbor/pkg/domain"
)

// Combine fans each event out to every hook set, in argument order. Nil hooks are skipped.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		if h.Empty() {
			continue
		}
		out.OnTickStart = chain(out.OnTickStart, h.OnTickStart)
		out.OnTickEnd = chain(out.OnTickEnd, h.OnTickEnd)
		out.OnNodeEnter = chain(out.OnNodeEnter, h.OnNodeEnter)
		out.OnNodeLeave = chain(out.OnNodeLeave, h.OnNodeLeave)
	}
	return out
}

func chain(a, b func(context.Context, *domain.Event)) func(context.Context, *domain.Event) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *domain.Event) {
		a(ctx, e)
		b(ctx, e)
	}
}

// LoggingHooks logs tick boundaries at Info and node results at Debug.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTickStart: func(ctx context.Context, e *domain.Event) {
			logger.InfoContext(ctx, "tick_start", "tree", e.TreeID, "tick", e.Tick)
		},
		OnTickEnd: func(ctx context.Context, e *domain.Event) {
			if e.Err != nil {
				logger.ErrorContext(ctx, "tick_end", "tree", e.TreeID, "tick", e.Tick, "state", e.State, "error", e.Err)
				return
			}
			logger.InfoContext(ctx, "tick_end", "tree", e.TreeID, "tick", e.Tick, "state", e.State, "duration", e.Duration)
		},
		OnNodeLeave: func(ctx context.Context, e *domain.Event) {
			logger.DebugContext(ctx, "node_leave",
				"tree", e.TreeID,
				"node_id", e.NodeID,
				"name", e.NodeName,
				"state", e.State,
			)
		},
	}
}
