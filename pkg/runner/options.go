package runner

import (
	"log/slog"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed process can hold a tree lock.
const DefaultLockTTL = 30 * time.Second

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithStore configures the SnapshotStore for persistence.
func WithStore(store ports.SnapshotStore) Option {
	return func(r *Runner) {
		r.store = store
	}
}

// WithLocker serializes ticks across processes. A zero ttl selects DefaultLockTTL.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(r *Runner) {
		r.locker = locker
		if ttl > 0 {
			r.lockTTL = ttl
		}
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithInterval sets the pause between ticks in Run (default: none).
func WithInterval(d time.Duration) Option {
	return func(r *Runner) {
		r.interval = d
	}
}

// WithMaxTicks stops Run after n ticks. Zero means no limit.
func WithMaxTicks(n uint64) Option {
	return func(r *Runner) {
		r.maxTicks = n
	}
}

// WithStopOn stops Run as soon as the root returns one of states.
func WithStopOn(states ...domain.NodeState) Option {
	return func(r *Runner) {
		r.stopOn = append(r.stopOn, states...)
	}
}

// WithContinueOnError keeps Run going after a tick error instead of returning it.
func WithContinueOnError() Option {
	return func(r *Runner) {
		r.continueOnError = true
	}
}

// WithObserver registers fn to receive the status after every tick.
// Observers run outside the tree lock, in registration order.
func WithObserver(fn func(Status)) Option {
	return func(r *Runner) {
		r.observers = append(r.observers, fn)
	}
}
