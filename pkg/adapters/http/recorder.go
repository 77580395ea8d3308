package http

import (
	"context"
	"maps"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
)

// Recorder keeps the node results of the last completed tick.
type Recorder struct {
	pending map[string]domain.NodeState

	mu   sync.RWMutex
	last map[string]domain.NodeState
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		pending: make(map[string]domain.NodeState),
		last:    make(map[string]domain.NodeState),
	}
}

// Hooks returns the hooks that feed the recorder. pending is only touched by the
// ticking goroutine; last is swapped under the lock when the tick ends.
func (rec *Recorder) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTickStart: func(ctx context.Context, e *domain.Event) {
			clear(rec.pending)
		},
		OnNodeLeave: func(ctx context.Context, e *domain.Event) {
			rec.pending[e.NodeID] = e.State
		},
		OnTickEnd: func(ctx context.Context, e *domain.Event) {
			rec.mu.Lock()
			rec.last = maps.Clone(rec.pending)
			rec.mu.Unlock()
		},
	}
}

// Last returns a copy of the results of the last completed tick.
func (rec *Recorder) Last() map[string]domain.NodeState {
	rec.mu.RLock()
	defer rec.mu.RUnlock()
	return maps.Clone(rec.last)
}
