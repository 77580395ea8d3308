package arbor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/graph"
)

const instrumentationName = "github.com/aretw0/arbor"

// Tree is a built behavior tree: a sealed node graph plus the blackboard its leaves share.
// A Tree is not safe for concurrent use.
type Tree struct {
	id     string
	graph  *graph.Graph
	bb     *blackboard.Blackboard
	exec   *runtime.Executor
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	tracer trace.Tracer
	ticks  uint64
}

// Option defines a functional option for configuring a Tree.
type Option func(*Tree)

// WithLifecycleHooks registers observability hooks for ticks and nodes.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(t *Tree) {
		t.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the tree.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tree) {
		t.logger = logger
	}
}

// WithBlackboard gives the tree an existing blackboard instead of a fresh one.
func WithBlackboard(bb *blackboard.Blackboard) Option {
	return func(t *Tree) {
		t.bb = bb
	}
}

// WithID overrides the generated tree id.
func WithID(id string) Option {
	return func(t *Tree) {
		t.id = id
	}
}

// WithTracerProvider sets the provider used for tick spans (default: the global provider).
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(t *Tree) {
		if tp != nil {
			t.tracer = tp.Tracer(instrumentationName)
		}
	}
}

// New pairs g with a blackboard. An unsealed graph is validated and sealed first.
func New(g *graph.Graph, opts ...Option) (*Tree, error) {
	if g == nil {
		return nil, &domain.StructuralError{Op: "new tree", Err: domain.ErrNoRoot}
	}

	t := &Tree{graph: g}
	for _, opt := range opts {
		opt(t)
	}

	if !g.Sealed() {
		if err := g.Seal(); err != nil {
			return nil, fmt.Errorf("new tree: %w", err)
		}
	}

	if t.id == "" {
		t.id = uuid.NewString()
	}
	if t.bb == nil {
		t.bb = blackboard.New()
	}
	if t.logger == nil {
		t.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	t.logger = t.logger.With("tree", t.id)
	if t.tracer == nil {
		t.tracer = otel.Tracer(instrumentationName)
	}

	t.exec = runtime.NewExecutor(g,
		runtime.WithLifecycleHooks(t.hooks),
		runtime.WithLogger(t.logger),
		runtime.WithTreeID(t.id),
	)
	return t, nil
}

// Execute runs one tick from the root.
func (t *Tree) Execute() (domain.NodeState, error) {
	return t.ExecuteContext(context.Background())
}

// ExecuteContext runs one tick from the root. ctx is handed to hooks and tracing only;
// a tick is never interrupted halfway.
func (t *Tree) ExecuteContext(ctx context.Context) (domain.NodeState, error) {
	t.ticks++
	tick := t.ticks

	ctx, span := t.tracer.Start(ctx, "arbor.Tree.Execute",
		trace.WithAttributes(
			attribute.String("arbor.tree.id", t.id),
			attribute.Int64("arbor.tick", int64(tick)),
			attribute.Int("arbor.node_count", t.graph.Len()),
		),
	)
	defer span.End()

	start := time.Now()
	if t.hooks.OnTickStart != nil {
		t.hooks.OnTickStart(ctx, &domain.Event{
			Timestamp: start,
			Type:      domain.EventTickStart,
			TreeID:    t.id,
			Tick:      tick,
		})
	}

	state, err := t.exec.Execute(ctx, tick)
	elapsed := time.Since(start)

	if t.hooks.OnTickEnd != nil {
		t.hooks.OnTickEnd(ctx, &domain.Event{
			Timestamp: time.Now(),
			Type:      domain.EventTickEnd,
			TreeID:    t.id,
			Tick:      tick,
			State:     state,
			Duration:  elapsed,
			Err:       err,
		})
	}

	span.SetAttributes(attribute.String("arbor.result", state.String()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.logger.ErrorContext(ctx, "tick failed", "tick", tick, "error", err)
		return state, err
	}
	span.SetStatus(codes.Ok, "")

	t.logger.DebugContext(ctx, "tick completed", "tick", tick, "state", state, "duration", elapsed)
	return state, nil
}

// ID returns the tree id used for logs, metrics, spans and snapshot keys.
func (t *Tree) ID() string {
	return t.id
}

// Blackboard returns the blackboard owned by the tree.
func (t *Tree) Blackboard() *blackboard.Blackboard {
	return t.bb
}

// Graph returns the sealed node graph.
func (t *Tree) Graph() *graph.Graph {
	return t.graph
}

// Inspect returns the node structure in depth-first order for visualization tools.
func (t *Tree) Inspect() []domain.NodeInfo {
	return t.graph.Inspect()
}

// Ticks returns the number of ticks executed so far.
func (t *Tree) Ticks() uint64 {
	return t.ticks
}
