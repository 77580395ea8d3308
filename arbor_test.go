package arbor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/dsl"
	"github.com/aretw0/arbor/pkg/graph"
)

// The scenario of the original demo: two successful steps followed by a selector whose
// alternatives both fail.
func TestTree_DemoScenario(t *testing.T) {
	var ran []string
	step := func(name string, s domain.NodeState) func() domain.NodeState {
		return func() domain.NodeState {
			ran = append(ran, name)
			return s
		}
	}

	tree, err := dsl.New().
		Sequence().
		Action("A2", step("A2", domain.Success)).
		Action("A3", step("A3", domain.Success)).
		Selector().
		Action("A4", step("A4", domain.Failure)).
		Action("A5", step("A5", domain.Failure)).
		End().
		End().
		Build()
	require.NoError(t, err)

	state, err := tree.Execute()
	require.NoError(t, err)
	assert.Equal(t, domain.Failure, state)
	assert.Equal(t, []string{"A2", "A3", "A4", "A5"}, ran)
	assert.Equal(t, uint64(1), tree.Ticks())
}

func TestTree_RunningIsReevaluatedEachTick(t *testing.T) {
	progress := 0
	tree, err := dsl.New().
		Sequence().
		Action("walk", func() domain.NodeState {
			progress++
			if progress < 3 {
				return domain.Running
			}
			return domain.Success
		}).
		Action("arrive", func() domain.NodeState { return domain.Success }).
		End().
		Build()
	require.NoError(t, err)

	var states []domain.NodeState
	for i := 0; i < 3; i++ {
		s, err := tree.Execute()
		require.NoError(t, err)
		states = append(states, s)
	}
	assert.Equal(t, []domain.NodeState{domain.Running, domain.Running, domain.Success}, states)
	assert.Equal(t, uint64(3), tree.Ticks())
}

func TestTree_TickHooks(t *testing.T) {
	var events []domain.EventType
	var end *domain.Event
	hooks := domain.LifecycleHooks{
		OnTickStart: func(ctx context.Context, e *domain.Event) { events = append(events, e.Type) },
		OnNodeEnter: func(ctx context.Context, e *domain.Event) { events = append(events, e.Type) },
		OnNodeLeave: func(ctx context.Context, e *domain.Event) { events = append(events, e.Type) },
		OnTickEnd: func(ctx context.Context, e *domain.Event) {
			events = append(events, e.Type)
			end = e
		},
	}

	tree, err := dsl.New().
		Action("noop", func() domain.NodeState { return domain.Success }).
		Build(arbor.WithLifecycleHooks(hooks), arbor.WithID("tree-1"))
	require.NoError(t, err)

	_, err = tree.Execute()
	require.NoError(t, err)

	assert.Equal(t, []domain.EventType{
		domain.EventTickStart,
		domain.EventNodeEnter,
		domain.EventNodeLeave,
		domain.EventTickEnd,
	}, events)
	require.NotNil(t, end)
	assert.Equal(t, "tree-1", end.TreeID)
	assert.Equal(t, uint64(1), end.Tick)
	assert.Equal(t, domain.Success, end.State)
}

func TestTree_Tracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	tree, err := dsl.New().
		Action("boom", func() domain.NodeState { panic("boom") }).
		Build(arbor.WithTracerProvider(tp), arbor.WithID("traced"))
	require.NoError(t, err)

	state, err := tree.Execute()
	assert.Equal(t, domain.Failure, state)
	assert.True(t, errors.Is(err, domain.ErrLeafPanic))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "arbor.Tree.Execute", span.Name())
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Contains(t, span.Attributes(), attribute.String("arbor.tree.id", "traced"))
	assert.Contains(t, span.Attributes(), attribute.String("arbor.result", "failure"))
}

func TestNew_ValidatesGraph(t *testing.T) {
	_, err := arbor.New(graph.New())
	assert.ErrorIs(t, err, domain.ErrNoRoot)

	g := graph.New()
	inv, err := g.Add(graph.Node{Kind: domain.KindInverter})
	require.NoError(t, err)
	require.NoError(t, g.SetRoot(inv))

	_, err = arbor.New(g)
	assert.ErrorIs(t, err, domain.ErrMissingChild)

	_, err = arbor.New(nil)
	assert.ErrorIs(t, err, domain.ErrStructural)
}

func TestNew_GeneratesID(t *testing.T) {
	g := graph.New()
	i, err := g.Add(graph.Node{Kind: domain.KindSequence})
	require.NoError(t, err)
	require.NoError(t, g.SetRoot(i))

	a, err := arbor.New(g)
	require.NoError(t, err)
	assert.Len(t, a.ID(), 36)
	assert.NotNil(t, a.Blackboard())
	assert.Same(t, g, a.Graph())
}
