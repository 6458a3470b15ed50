package generator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hodaniel/graphwalker/pkg/condition"
	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/hodaniel/graphwalker/pkg/dsl"
	"github.com/hodaniel/graphwalker/pkg/generator"
	"github.com/hodaniel/graphwalker/pkg/machine"
	"github.com/hodaniel/graphwalker/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMachine(t *testing.T, b *dsl.Builder) *machine.FiniteStateMachine {
	t.Helper()
	m, err := machine.New(b.MustBuild())
	require.NoError(t, err)
	return m
}

// cycle is V1 -E1-> V2 -E2-> V3 -E3-> V1.
func cycle() *dsl.Builder {
	return dsl.New("cycle").
		Edge("E1", "V1", "V2").
		Edge("E2", "V2", "V3").
		Edge("E3", "V3", "V1")
}

func configure(g ports.PathGenerator, m ports.Machine, c ports.StopCondition) {
	g.SetMachine(m)
	g.SetStopCondition(c)
}

func drain(t *testing.T, g ports.PathGenerator) []string {
	t.Helper()
	var edges []string
	for g.HasNext() {
		step, err := g.GetNext(context.Background())
		require.NoError(t, err)
		edges = append(edges, step.Edge)
		require.Less(t, len(edges), 1000, "generator did not terminate")
	}
	return edges
}

func searchCounter() (*int, domain.LifecycleHooks) {
	n := 0
	return &n, domain.LifecycleHooks{
		OnSearch: func(_ context.Context, e *domain.SearchEvent) {
			if e.Err == nil {
				n++
			}
		},
	}
}

func TestAStar_ThreeVertexCycle(t *testing.T) {
	m := newMachine(t, cycle())
	c := condition.EdgesWalked(m, "E2", "E3")

	g := generator.NewAStar()
	configure(g, m, c)

	assert.Equal(t, []string{"E1", "E2", "E3"}, drain(t, g))
	assert.Equal(t, 1.0, c.Fulfilment())
	assert.Equal(t, "V1", m.CurrentVertex().ID)
}

func TestAStar_ReusesCachedPath(t *testing.T) {
	m := newMachine(t, cycle())
	searches, hooks := searchCounter()

	g := generator.NewAStar(generator.WithHooks(hooks))
	configure(g, m, condition.EdgesWalked(m, "E2", "E3"))

	drain(t, g)
	assert.Equal(t, 1, *searches, "a followed path must not be searched again")
}

func TestAStar_RecomputesOnDivergence(t *testing.T) {
	model := cycle().MustBuild()
	m, err := machine.New(model)
	require.NoError(t, err)
	searches, hooks := searchCounter()

	g := generator.NewAStar(generator.WithHooks(hooks))
	configure(g, m, condition.EdgesWalked(m, "E2", "E3"))

	step, err := g.GetNext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "E1", step.Edge)
	assert.Len(t, g.Remaining(), 2)

	// Someone else moves the machine along E2.
	require.NoError(t, m.WalkEdge(model.Edges[1]))

	step, err = g.GetNext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "E3", step.Edge)
	assert.Equal(t, 2, *searches)
	assert.False(t, g.HasNext())
}

func TestAStar_ResetForcesSearch(t *testing.T) {
	m := newMachine(t, cycle())
	searches, hooks := searchCounter()

	g := generator.NewAStar(generator.WithHooks(hooks))
	configure(g, m, condition.EdgesWalked(m, "E2", "E3"))

	_, err := g.GetNext(context.Background())
	require.NoError(t, err)
	g.Reset()
	_, err = g.GetNext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, *searches)
}

func TestAStar_NoPathReportsBest(t *testing.T) {
	m := newMachine(t, dsl.New("line").Edge("ab", "a", "b").Edge("bc", "b", "c"))
	g := generator.NewAStar()
	configure(g, m, condition.EdgesWalked(m, "ab", "bc", "missing"))

	_, err := g.GetNext(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoPathFound)

	var noPath *domain.NoPathError
	require.True(t, errors.As(err, &noPath))
	assert.Equal(t, 66, noPath.Percent())
	assert.Contains(t, err.Error(), "best path satisfied only 66% of condition")

	assert.Equal(t, "a", m.CurrentVertex().ID, "a failed search must not move the machine")
	assert.Zero(t, m.Statistics().Steps)
	assert.False(t, m.SearchMode())
}

func TestAStar_DeadEndAtOrigin(t *testing.T) {
	m := newMachine(t, dsl.New("single").Vertex("only", "Only"))
	g := generator.NewAStar()
	configure(g, m, condition.Never())

	_, err := g.GetNext(context.Background())
	assert.ErrorIs(t, err, domain.ErrDeadEnd)
}

func TestAStar_DeadEndDuringSearchIsNotAnError(t *testing.T) {
	// The trap edge leads into a dead end; the search must route around it.
	m := newMachine(t, dsl.New("trap").
		Edge("trap", "s", "pit").
		Edge("go", "s", "t").
		Edge("goal", "t", "done"))
	g := generator.NewAStar()
	configure(g, m, condition.ReachedEdge(m, "goal"))

	assert.Equal(t, []string{"go", "goal"}, drain(t, g))
}

func TestAStar_Cancellation(t *testing.T) {
	m := newMachine(t, cycle())
	g := generator.NewAStar()
	configure(g, m, condition.EdgesWalked(m, "E2", "E3"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.GetNext(ctx)
	assert.ErrorIs(t, err, domain.ErrCancelled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrNoPathFound)

	assert.Equal(t, "V1", m.CurrentVertex().ID)
	assert.Zero(t, m.Statistics().Steps, "speculative walks must be rolled back on cancellation")
	assert.False(t, m.SearchMode())
}

// The queue pops the candidate with the lowest fulfilment first. This ordering is
// intentional: a candidate that already fulfils the condition waits until lower
// ranked ones are expanded.
func TestAStar_ExpandsLowestFulfilmentFirst(t *testing.T) {
	m := newMachine(t, dsl.New("fork").
		Edge("detour", "s", "x").
		Edge("direct", "s", "goal"))

	var event *domain.SearchEvent
	g := generator.NewAStar(generator.WithHooks(domain.LifecycleHooks{
		OnSearch: func(_ context.Context, e *domain.SearchEvent) { event = e },
	}))
	configure(g, m, condition.ReachedVertex(m, "goal"))

	assert.Equal(t, []string{"direct"}, drain(t, g))
	require.NotNil(t, event)
	assert.Equal(t, 1, event.Expanded, "the lower ranked detour is expanded before the goal is accepted")
	assert.Equal(t, 1, event.PathLength)
}

func TestAStar_RevisitWithNewCoverageIsNotPruned(t *testing.T) {
	// The form is entered twice; the second visit carries more coverage.
	m := newMachine(t, dsl.New("states").
		Vertex("hub", "Hub/idle").
		Edge("open", "hub", "form", dsl.Label("Open")).
		Edge("back", "form", "hub").
		Edge("finish", "form", "end"))
	g := generator.NewAStar()
	configure(g, m, condition.EdgeCoverage(m, 100))

	// The second arrival through Open ends in the same vertex with higher
	// fulfilment, so its signature differs and it is expanded again.
	assert.Equal(t, []string{"Open", "back", "Open", "finish"}, drain(t, g))
}

func TestAStar_FulfilledDoesNotWalk(t *testing.T) {
	m := newMachine(t, cycle())
	g := generator.NewAStar()
	configure(g, m, condition.ReachedVertex(m, "V1"))

	require.False(t, g.HasNext())
	step, err := g.GetNext(context.Background())
	assert.ErrorIs(t, err, domain.ErrExhausted)
	assert.True(t, step.IsZero())
	assert.Equal(t, "V1", m.CurrentVertex().ID, "the machine must not move")
	assert.Empty(t, m.History())
}

func TestAStar_NotConfigured(t *testing.T) {
	g := generator.NewAStar()
	assert.False(t, g.HasNext())
	_, err := g.GetNext(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestAStar_String(t *testing.T) {
	m := newMachine(t, cycle())
	g := generator.NewAStar()
	configure(g, m, condition.EdgeCoverage(m, 100))
	assert.Equal(t, "A_STAR{EdgeCoverage(100)}", g.String())
}
