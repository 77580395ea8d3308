package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// Status describes the most recent tick.
type Status struct {
	TreeID string           `json:"tree_id"`
	Tick   uint64           `json:"tick"`
	State  domain.NodeState `json:"state"`
	Error  string           `json:"error,omitempty"`
	At     time.Time        `json:"at,omitzero"`
}

// Runner ticks one tree and guards it with a mutex.
type Runner struct {
	tree *arbor.Tree

	store           ports.SnapshotStore
	locker          ports.DistributedLocker
	lockTTL         time.Duration
	logger          *slog.Logger
	interval        time.Duration
	maxTicks        uint64
	stopOn          []domain.NodeState
	continueOnError bool
	observers       []func(Status)

	mu     sync.Mutex
	base   uint64
	status Status
}

// New creates a runner for tree.
func New(tree *arbor.Tree, opts ...Option) *Runner {
	r := &Runner{
		tree:    tree,
		lockTTL: DefaultLockTTL,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("tree", tree.ID())
	r.status = Status{TreeID: tree.ID()}
	return r
}

// ID returns the id of the driven tree.
func (r *Runner) ID() string {
	return r.tree.ID()
}

// Resume restores the blackboard from the store. A missing snapshot is not an error.
func (r *Runner) Resume(ctx context.Context) error {
	if r.store == nil {
		return nil
	}

	snap, err := r.store.Load(ctx, r.tree.ID())
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		r.logger.DebugContext(ctx, "no snapshot to resume")
		return nil
	}
	if err != nil {
		return fmt.Errorf("resume: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.tree.Blackboard().Restore(snap.Entries); err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	if ticks := r.tree.Ticks(); snap.Tick > ticks {
		r.base = snap.Tick - ticks
	}
	r.status = Status{
		TreeID: r.tree.ID(),
		Tick:   snap.Tick,
		State:  snap.State,
		At:     snap.SavedAt,
	}
	r.logger.InfoContext(ctx, "resumed from snapshot", "tick", snap.Tick, "keys", len(snap.Entries))
	return nil
}

// Tick runs exactly one tick and persists the result.
func (r *Runner) Tick(ctx context.Context) (Status, error) {
	if r.locker != nil {
		unlock, err := r.locker.Lock(ctx, r.tree.ID(), r.lockTTL)
		if err != nil {
			return r.Status(), fmt.Errorf("acquire tree lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				r.logger.WarnContext(ctx, "failed to release tree lock", "error", err)
			}
		}()
	}

	status, err := r.tick(ctx)
	for _, fn := range r.observers {
		fn(status)
	}
	return status, err
}

func (r *Runner) tick(ctx context.Context) (Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, tickErr := r.tree.ExecuteContext(ctx)
	r.status = Status{
		TreeID: r.tree.ID(),
		Tick:   r.base + r.tree.Ticks(),
		State:  state,
		At:     time.Now(),
	}
	if tickErr != nil {
		r.status.Error = tickErr.Error()
	}

	if r.store != nil {
		snap := &ports.Snapshot{
			TreeID:  r.tree.ID(),
			Tick:    r.status.Tick,
			State:   state,
			SavedAt: r.status.At,
			Entries: r.tree.Blackboard().Snapshot(),
		}
		if err := r.store.Save(ctx, r.tree.ID(), snap); err != nil {
			r.logger.ErrorContext(ctx, "failed to save snapshot", "tick", r.status.Tick, "error", err)
			return r.status, errors.Join(tickErr, fmt.Errorf("save snapshot: %w", err))
		}
	}
	return r.status, tickErr
}

// Run ticks until a stop rule matches or ctx is done.
// It returns nil when a stop rule ends the run and ctx.Err() on cancellation.
func (r *Runner) Run(ctx context.Context) error {
	var timer *time.Timer
	if r.interval > 0 {
		timer = time.NewTimer(0)
		defer timer.Stop()
	}

	for n := uint64(1); ; n++ {
		if timer != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		status, err := r.Tick(ctx)
		if err != nil {
			if !r.continueOnError {
				return err
			}
			r.logger.WarnContext(ctx, "tick failed, continuing", "tick", status.Tick, "error", err)
		}

		if slices.Contains(r.stopOn, status.State) {
			r.logger.InfoContext(ctx, "run finished", "tick", status.Tick, "state", status.State)
			return nil
		}
		if r.maxTicks > 0 && n >= r.maxTicks {
			r.logger.InfoContext(ctx, "tick budget exhausted", "ticks", n, "state", status.State)
			return nil
		}

		if timer != nil {
			timer.Reset(r.interval)
		}
	}
}

// Status returns the status of the most recent tick.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Inspect describes the tree structure. The graph is immutable, so no lock is taken.
func (r *Runner) Inspect() []domain.NodeInfo {
	return r.tree.Inspect()
}

// Entries returns a consistent copy of the blackboard between ticks.
func (r *Runner) Entries() []blackboard.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tree.Blackboard().Snapshot()
}

// Update runs fn with exclusive access to the blackboard, between ticks.
func (r *Runner) Update(fn func(bb *blackboard.Blackboard) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.tree.Blackboard())
}
