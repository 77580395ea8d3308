package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/graph"
)

// Executor ticks a sealed graph depth-first.
// It holds no per-node state between ticks: any memory a long-running action needs
// lives in the action's own closure.
type Executor struct {
	graph  *graph.Graph
	treeID string
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithLifecycleHooks registers node-level observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Executor) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTreeID sets the id reported in events.
func WithTreeID(id string) Option {
	return func(e *Executor) {
		e.treeID = id
	}
}

// NewExecutor creates an executor for g.
func NewExecutor(g *graph.Graph, opts ...Option) *Executor {
	e := &Executor{
		graph:  g,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute ticks the root. The first error aborts the tick and is returned with Failure.
func (e *Executor) Execute(ctx context.Context, tick uint64) (domain.NodeState, error) {
	root, ok := e.graph.Root()
	if !ok {
		return domain.Failure, &domain.StructuralError{Op: "execute", Err: domain.ErrNoRoot}
	}
	return e.ExecuteNode(ctx, tick, root)
}

// ExecuteNode ticks the subtree rooted at node i.
func (e *Executor) ExecuteNode(ctx context.Context, tick uint64, i int) (domain.NodeState, error) {
	if i < 0 || i >= e.graph.Len() {
		return domain.Failure, &domain.StructuralError{Op: "execute", Node: fmt.Sprintf("#%d", i), Err: domain.ErrInvalidNode}
	}
	return e.execute(ctx, tick, i)
}

func (e *Executor) execute(ctx context.Context, tick uint64, i int) (domain.NodeState, error) {
	n := e.graph.At(i)
	observed := e.hooks.OnNodeEnter != nil || e.hooks.OnNodeLeave != nil

	var start time.Time
	if observed {
		start = time.Now()
		if e.hooks.OnNodeEnter != nil {
			e.hooks.OnNodeEnter(ctx, e.event(domain.EventNodeEnter, tick, i, n))
		}
	}

	state, err := e.run(ctx, tick, i, n)
	if err != nil {
		state = domain.Failure
	}

	if e.logger.Enabled(ctx, slog.LevelDebug) {
		e.logger.DebugContext(ctx, "node executed",
			"node", e.graph.ID(i),
			"name", n.Name,
			"state", state,
			"tick", tick,
		)
	}

	if e.hooks.OnNodeLeave != nil {
		ev := e.event(domain.EventNodeLeave, tick, i, n)
		ev.State = state
		ev.Duration = time.Since(start)
		ev.Err = err
		e.hooks.OnNodeLeave(ctx, ev)
	}

	return state, err
}

func (e *Executor) run(ctx context.Context, tick uint64, i int, n graph.Node) (domain.NodeState, error) {
	switch n.Kind {
	case domain.KindAction:
		return e.callAction(ctx, i, n.Action)

	case domain.KindCondition:
		ok, err := e.callPredicate(ctx, i, n.Predicate)
		if err != nil {
			return domain.Failure, err
		}
		if ok {
			return domain.Success, nil
		}
		return domain.Failure, nil

	case domain.KindSequence:
		for _, c := range n.Children {
			state, err := e.execute(ctx, tick, c)
			if err != nil {
				return domain.Failure, err
			}
			if state != domain.Success {
				return state, nil
			}
		}
		return domain.Success, nil

	case domain.KindSelector:
		for _, c := range n.Children {
			state, err := e.execute(ctx, tick, c)
			if err != nil {
				return domain.Failure, err
			}
			if state != domain.Failure {
				return state, nil
			}
		}
		return domain.Failure, nil

	case domain.KindInverter:
		if len(n.Children) == 0 {
			return domain.Failure, &domain.StructuralError{Op: "execute", Node: e.graph.ID(i), Err: domain.ErrMissingChild}
		}
		state, err := e.execute(ctx, tick, n.Children[0])
		if err != nil {
			return domain.Failure, err
		}
		return state.Invert(), nil
	}

	return domain.Failure, &domain.StructuralError{Op: "execute", Node: e.graph.ID(i), Err: fmt.Errorf("unknown node kind %s", n.Kind)}
}

func (e *Executor) callAction(ctx context.Context, i int, fn func() domain.NodeState) (state domain.NodeState, err error) {
	if fn == nil {
		return domain.Failure, &domain.StructuralError{Op: "execute", Node: e.graph.ID(i), Err: domain.ErrNilCallable}
	}
	defer e.recoverLeaf(ctx, i, &err)

	state = fn()
	if !state.Valid() {
		return domain.Failure, &domain.StructuralError{
			Op:   "execute",
			Node: e.graph.ID(i),
			Err:  fmt.Errorf("%w: %d", domain.ErrInvalidState, int(state)),
		}
	}
	return state, nil
}

func (e *Executor) callPredicate(ctx context.Context, i int, fn func() bool) (ok bool, err error) {
	if fn == nil {
		return false, &domain.StructuralError{Op: "execute", Node: e.graph.ID(i), Err: domain.ErrNilCallable}
	}
	defer e.recoverLeaf(ctx, i, &err)
	return fn(), nil
}

func (e *Executor) recoverLeaf(ctx context.Context, i int, err *error) {
	r := recover()
	if r == nil {
		return
	}
	id := e.graph.ID(i)
	e.logger.WarnContext(ctx, "leaf callable panicked", "node", id, "panic", r)
	*err = fmt.Errorf("execute %s: %w: %v", id, domain.ErrLeafPanic, r)
}

func (e *Executor) event(typ domain.EventType, tick uint64, i int, n graph.Node) *domain.Event {
	return &domain.Event{
		Timestamp: time.Now(),
		Type:      typ,
		TreeID:    e.treeID,
		Tick:      tick,
		NodeID:    e.graph.ID(i),
		NodeKind:  n.Kind,
		NodeName:  n.Name,
	}
}
