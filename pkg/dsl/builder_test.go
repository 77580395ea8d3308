package dsl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/dsl"
)

func returns(s domain.NodeState) func() domain.NodeState {
	return func() domain.NodeState { return s }
}

func TestBuilder_NestedTree(t *testing.T) {
	tree, err := dsl.New().
		Selector().
		Sequence().
		Condition("enemy visible", func() bool { return false }).
		Action("attack", returns(domain.Success)).
		End().
		Inverter().
		Action("idle", returns(domain.Failure)).
		End().
		End().
		Build()
	require.NoError(t, err)

	infos := tree.Inspect()
	require.Len(t, infos, 6)

	kinds := make([]domain.NodeKind, 0, len(infos))
	for _, info := range infos {
		kinds = append(kinds, info.Kind)
	}
	assert.Equal(t, []domain.NodeKind{
		domain.KindSelector,
		domain.KindSequence,
		domain.KindCondition,
		domain.KindAction,
		domain.KindInverter,
		domain.KindAction,
	}, kinds)
	assert.True(t, infos[0].Root)
	assert.Equal(t, "attack", infos[3].Name)

	state, err := tree.Execute()
	require.NoError(t, err)
	assert.Equal(t, domain.Success, state, "the inverted idle failure makes the selector succeed")
}

func TestBuilder_SingleLeafRoot(t *testing.T) {
	tree, err := dsl.New().Action("only", returns(domain.Running)).Build()
	require.NoError(t, err)

	state, err := tree.Execute()
	require.NoError(t, err)
	assert.Equal(t, domain.Running, state)
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *dsl.Builder) *dsl.Builder
		class error
		cause error
	}{
		{
			name:  "no root",
			build: func(b *dsl.Builder) *dsl.Builder { return b },
			class: domain.ErrStructural,
			cause: domain.ErrNoRoot,
		},
		{
			name:  "unclosed level",
			build: func(b *dsl.Builder) *dsl.Builder { return b.Sequence().Action("a", returns(domain.Success)) },
			class: domain.ErrStructural,
			cause: domain.ErrUnclosedNode,
		},
		{
			name:  "end without open level",
			build: func(b *dsl.Builder) *dsl.Builder { return b.Action("a", returns(domain.Success)).End() },
			class: domain.ErrStructural,
			cause: domain.ErrNothingToClose,
		},
		{
			name: "second root",
			build: func(b *dsl.Builder) *dsl.Builder {
				return b.Action("a", returns(domain.Success)).Action("b", returns(domain.Success))
			},
			class: domain.ErrInvariant,
			cause: domain.ErrRootAlreadySet,
		},
		{
			name: "second root after closed composite",
			build: func(b *dsl.Builder) *dsl.Builder {
				return b.Sequence().End().Selector().End()
			},
			class: domain.ErrInvariant,
			cause: domain.ErrRootAlreadySet,
		},
		{
			name: "second decorator child",
			build: func(b *dsl.Builder) *dsl.Builder {
				return b.Inverter().Action("a", returns(domain.Success)).Action("b", returns(domain.Success)).End()
			},
			class: domain.ErrInvariant,
			cause: domain.ErrChildAlreadySet,
		},
		{
			name:  "decorator closed without child",
			build: func(b *dsl.Builder) *dsl.Builder { return b.Sequence().Inverter().End().End() },
			class: domain.ErrStructural,
			cause: domain.ErrMissingChild,
		},
		{
			name:  "nil action",
			build: func(b *dsl.Builder) *dsl.Builder { return b.Action("nil", nil) },
			class: domain.ErrStructural,
			cause: domain.ErrNilCallable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := tt.build(dsl.New()).Build()
			assert.Nil(t, tree)
			assert.ErrorIs(t, err, tt.class)
			assert.ErrorIs(t, err, tt.cause)
		})
	}
}

func TestBuilder_FirstErrorIsSticky(t *testing.T) {
	called := false
	b := dsl.New().
		Action("first", returns(domain.Success)).
		Action("second root", returns(domain.Success)).
		End().
		Sequence().
		Action("late", func() domain.NodeState { called = true; return domain.Success })

	require.ErrorIs(t, b.Err(), domain.ErrRootAlreadySet)

	_, err := b.Build()
	assert.ErrorIs(t, err, domain.ErrRootAlreadySet, "later mistakes must not replace the first one")
	assert.False(t, called)
}

func TestBuilder_SingleUse(t *testing.T) {
	b := dsl.New().Action("a", returns(domain.Success))

	tree, err := b.Build()
	require.NoError(t, err)
	require.NotNil(t, tree)

	again, err := b.Build()
	assert.Nil(t, again)
	assert.ErrorIs(t, err, domain.ErrBuilderFinalized)

	b.Sequence()
	assert.ErrorIs(t, b.Err(), domain.ErrBuilderFinalized)
	assert.Len(t, tree.Inspect(), 1, "calls after Build must not touch the built tree")
}

func TestBuilder_BlackboardIsOwnedByTree(t *testing.T) {
	b := dsl.New()
	hp, err := blackboard.GetOrCreate[int](b.Blackboard(), "hp")
	require.NoError(t, err)

	tree, err := b.
		Sequence().
		Action("hurt", func() domain.NodeState { hp.Set(hp.Get() - 10); return domain.Success }).
		ConditionExpr("still alive", "hp > 0").
		End().
		Build(arbor.WithID("hero"))
	require.NoError(t, err)
	assert.Same(t, b.Blackboard(), tree.Blackboard())
	assert.Equal(t, "hero", tree.ID())

	hp.Set(15)
	state, err := tree.Execute()
	require.NoError(t, err)
	assert.Equal(t, domain.Success, state)

	state, err = tree.Execute()
	require.NoError(t, err)
	assert.Equal(t, domain.Failure, state)

	got, err := blackboard.Get[int](tree.Blackboard(), "hp")
	require.NoError(t, err)
	assert.Equal(t, -5, got)
}

func TestBuilder_ConditionExprSyntaxError(t *testing.T) {
	_, err := dsl.New().ConditionExpr("broken", "hp <").Build()
	assert.ErrorIs(t, err, domain.ErrStructural)
}

func TestBuilder_WithBlackboard(t *testing.T) {
	bb := blackboard.New(blackboard.WithStrict())
	_, err := blackboard.Declare(bb, "armed", true)
	require.NoError(t, err)

	tree, err := dsl.New(dsl.WithBlackboard(bb)).ConditionExpr("armed", "armed").Build()
	require.NoError(t, err)
	assert.Same(t, bb, tree.Blackboard())

	state, err := tree.Execute()
	require.NoError(t, err)
	assert.Equal(t, domain.Success, state)
}
