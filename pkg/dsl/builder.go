package dsl

import (
	"io"
	"log/slog"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/conditions"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/graph"
)

// Builder assembles one tree.
type Builder struct {
	graph  *graph.Graph
	bb     *blackboard.Blackboard
	logger *slog.Logger
	open   []int
	err    error
	built  bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithBlackboard makes the built tree own bb instead of a fresh blackboard.
func WithBlackboard(bb *blackboard.Blackboard) Option {
	return func(b *Builder) {
		if bb != nil {
			b.bb = bb
		}
	}
}

// WithLogger sets the logger handed to expression conditions.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New creates an empty builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		graph:  graph.New(),
		bb:     blackboard.New(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Blackboard returns the blackboard the built tree will own, so leaves can capture
// handles before the tree exists.
func (b *Builder) Blackboard() *blackboard.Blackboard {
	return b.bb
}

// Err returns the first recorded error, if any.
func (b *Builder) Err() error {
	return b.err
}

// Action adds a leaf that delegates to fn.
func (b *Builder) Action(name string, fn func() domain.NodeState) *Builder {
	b.add("action", graph.Node{Kind: domain.KindAction, Name: name, Action: fn})
	return b
}

// Condition adds a leaf that succeeds when pred returns true and fails otherwise.
func (b *Builder) Condition(name string, pred func() bool) *Builder {
	b.add("condition", graph.Node{Kind: domain.KindCondition, Name: name, Predicate: pred})
	return b
}

// ConditionExpr adds a condition leaf evaluating an expr-lang expression over the blackboard.
func (b *Builder) ConditionExpr(name, source string) *Builder {
	if !b.usable("condition") {
		return b
	}
	c, err := conditions.Compile(source, b.bb, conditions.WithLogger(b.logger))
	if err != nil {
		b.record(&domain.StructuralError{Op: "condition", Node: name, Err: err})
		return b
	}
	b.add("condition", graph.Node{Kind: domain.KindCondition, Name: name, Predicate: c.Match})
	return b
}

// Sequence opens a sequence level.
func (b *Builder) Sequence() *Builder {
	b.add("sequence", graph.Node{Kind: domain.KindSequence})
	return b
}

// Selector opens a selector level.
func (b *Builder) Selector() *Builder {
	b.add("selector", graph.Node{Kind: domain.KindSelector})
	return b
}

// Inverter opens a decorator level that accepts exactly one child.
func (b *Builder) Inverter() *Builder {
	b.add("inverter", graph.Node{Kind: domain.KindInverter})
	return b
}

// End closes the innermost open level.
func (b *Builder) End() *Builder {
	if !b.usable("end") {
		return b
	}
	if len(b.open) == 0 {
		b.record(&domain.StructuralError{Op: "end", Err: domain.ErrNothingToClose})
		return b
	}
	top := b.open[len(b.open)-1]
	if n := b.graph.At(top); n.Kind.IsDecorator() && len(n.Children) == 0 {
		b.record(&domain.StructuralError{Op: "end", Node: b.graph.ID(top), Err: domain.ErrMissingChild})
		return b
	}
	b.open = b.open[:len(b.open)-1]
	return b
}

// Build finishes the tree. It fails if an error was recorded, a level is still open,
// no root was added, or the builder was already used. opts are passed to arbor.New after
// the builder's own blackboard option.
func (b *Builder) Build(opts ...arbor.Option) (*arbor.Tree, error) {
	if b.built {
		return nil, &domain.StructuralError{Op: "build", Err: domain.ErrBuilderFinalized}
	}
	b.built = true

	if b.err != nil {
		return nil, b.err
	}
	if len(b.open) > 0 {
		top := b.open[len(b.open)-1]
		return nil, &domain.StructuralError{Op: "build", Node: b.graph.ID(top), Err: domain.ErrUnclosedNode}
	}
	if err := b.graph.Seal(); err != nil {
		return nil, err
	}

	treeOpts := append([]arbor.Option{arbor.WithBlackboard(b.bb)}, opts...)
	return arbor.New(b.graph, treeOpts...)
}

// add inserts n under the innermost open level, or as the root when nothing is open.
func (b *Builder) add(op string, n graph.Node) {
	if !b.usable(op) {
		return
	}

	i, err := b.graph.Add(n)
	if err != nil {
		b.record(err)
		return
	}

	if len(b.open) == 0 {
		err = b.graph.SetRoot(i)
	} else {
		err = b.graph.Attach(b.open[len(b.open)-1], i)
	}
	if err != nil {
		b.record(err)
		return
	}

	if !n.Kind.IsLeaf() {
		b.open = append(b.open, i)
	}
}

// usable reports whether the builder still accepts calls, recording misuse after Build.
func (b *Builder) usable(op string) bool {
	if b.built {
		b.record(&domain.StructuralError{Op: op, Err: domain.ErrBuilderFinalized})
		return false
	}
	return b.err == nil
}

func (b *Builder) record(err error) {
	if b.err == nil {
		b.err = err
	}
}
