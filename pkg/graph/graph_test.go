package graph_test

import (
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func succeed() domain.NodeState { return domain.Success }

func mustAdd(t *testing.T, g *graph.Graph, n graph.Node) int {
	t.Helper()
	i, err := g.Add(n)
	require.NoError(t, err)
	return i
}

func TestGraph_BuildAndInspect(t *testing.T) {
	g := graph.New()
	seq := mustAdd(t, g, graph.Node{Kind: domain.KindSequence})
	a := mustAdd(t, g, graph.Node{Kind: domain.KindAction, Name: "a", Action: succeed})
	inv := mustAdd(t, g, graph.Node{Kind: domain.KindInverter})
	c := mustAdd(t, g, graph.Node{Kind: domain.KindCondition, Name: "c", Predicate: func() bool { return true }})

	require.NoError(t, g.SetRoot(seq))
	require.NoError(t, g.Attach(seq, a))
	require.NoError(t, g.Attach(seq, inv))
	require.NoError(t, g.Attach(inv, c))
	require.NoError(t, g.Seal())
	assert.True(t, g.Sealed())

	infos := g.Inspect()
	require.Len(t, infos, 4)
	assert.Equal(t, "sequence#0", infos[0].ID)
	assert.True(t, infos[0].Root)
	assert.Equal(t, []int{a, inv}, infos[0].Children)
	assert.Equal(t, "a", infos[1].Name)
	assert.Equal(t, domain.KindInverter, infos[2].Kind)
	assert.Equal(t, []int{c}, infos[2].Children)
	assert.Equal(t, "condition#3", infos[3].ID)

	parent, ok := g.Parent(c)
	require.True(t, ok)
	assert.Equal(t, inv, parent)
	_, ok = g.Parent(seq)
	assert.False(t, ok)
}

func TestGraph_DecoratorAcceptsOneChild(t *testing.T) {
	g := graph.New()
	inv := mustAdd(t, g, graph.Node{Kind: domain.KindInverter})
	a := mustAdd(t, g, graph.Node{Kind: domain.KindAction, Name: "a", Action: succeed})
	b := mustAdd(t, g, graph.Node{Kind: domain.KindAction, Name: "b", Action: succeed})

	require.NoError(t, g.Attach(inv, a))
	err := g.Attach(inv, b)
	require.ErrorIs(t, err, domain.ErrInvariant)
	assert.ErrorIs(t, err, domain.ErrChildAlreadySet)
	assert.Equal(t, []int{a}, g.At(inv).Children)
}

func TestGraph_AttachRules(t *testing.T) {
	g := graph.New()
	seq := mustAdd(t, g, graph.Node{Kind: domain.KindSequence})
	sel := mustAdd(t, g, graph.Node{Kind: domain.KindSelector})
	a := mustAdd(t, g, graph.Node{Kind: domain.KindAction, Name: "a", Action: succeed})

	assert.ErrorIs(t, g.Attach(a, seq), domain.ErrNotAContainer)
	assert.ErrorIs(t, g.Attach(seq, seq), domain.ErrCycle)

	require.NoError(t, g.Attach(seq, sel))
	assert.ErrorIs(t, g.Attach(sel, seq), domain.ErrCycle)

	require.NoError(t, g.Attach(sel, a))
	assert.ErrorIs(t, g.Attach(seq, a), domain.ErrNodeOwned, "a node cannot have two parents")

	assert.ErrorIs(t, g.Attach(seq, 99), domain.ErrInvalidNode)
	assert.ErrorIs(t, g.SetRoot(sel), domain.ErrNodeOwned)

	require.NoError(t, g.SetRoot(seq))
	assert.ErrorIs(t, g.SetRoot(seq), domain.ErrRootAlreadySet)
}

func TestGraph_AddRejectsNilCallables(t *testing.T) {
	g := graph.New()
	_, err := g.Add(graph.Node{Kind: domain.KindAction, Name: "noop"})
	assert.ErrorIs(t, err, domain.ErrNilCallable)
	assert.ErrorIs(t, err, domain.ErrStructural)

	_, err = g.Add(graph.Node{Kind: domain.KindCondition, Name: "check"})
	assert.ErrorIs(t, err, domain.ErrNilCallable)

	_, err = g.Add(graph.Node{Kind: domain.NodeKind(42)})
	assert.ErrorIs(t, err, domain.ErrStructural)
	assert.Equal(t, 0, g.Len())
}

func TestGraph_Validate(t *testing.T) {
	t.Run("no root", func(t *testing.T) {
		g := graph.New()
		mustAdd(t, g, graph.Node{Kind: domain.KindSequence})
		assert.ErrorIs(t, g.Seal(), domain.ErrNoRoot)
		assert.False(t, g.Sealed())
	})

	t.Run("decorator without child", func(t *testing.T) {
		g := graph.New()
		inv := mustAdd(t, g, graph.Node{Kind: domain.KindInverter})
		require.NoError(t, g.SetRoot(inv))
		assert.ErrorIs(t, g.Seal(), domain.ErrMissingChild)
	})

	t.Run("unreachable node", func(t *testing.T) {
		g := graph.New()
		seq := mustAdd(t, g, graph.Node{Kind: domain.KindSequence})
		mustAdd(t, g, graph.Node{Kind: domain.KindAction, Name: "orphan", Action: succeed})
		require.NoError(t, g.SetRoot(seq))
		assert.ErrorIs(t, g.Seal(), domain.ErrUnreachableNode)
	})

	t.Run("empty composite is allowed", func(t *testing.T) {
		g := graph.New()
		seq := mustAdd(t, g, graph.Node{Kind: domain.KindSequence})
		require.NoError(t, g.SetRoot(seq))
		assert.NoError(t, g.Seal())
	})
}

func TestGraph_SealedIsImmutable(t *testing.T) {
	g := graph.New()
	seq := mustAdd(t, g, graph.Node{Kind: domain.KindSequence})
	require.NoError(t, g.SetRoot(seq))
	require.NoError(t, g.Seal())

	_, err := g.Add(graph.Node{Kind: domain.KindAction, Name: "late", Action: succeed})
	assert.ErrorIs(t, err, domain.ErrGraphSealed)
	assert.ErrorIs(t, g.Attach(seq, 0), domain.ErrGraphSealed)
}
