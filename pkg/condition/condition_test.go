package condition_test

import (
	"testing"

	"github.com/hodaniel/graphwalker/pkg/condition"
	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/hodaniel/graphwalker/pkg/dsl"
	"github.com/hodaniel/graphwalker/pkg/machine"
	"github.com/hodaniel/graphwalker/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// line builds a -> b -> c -> d with edges ab, bc, cd.
func line(t *testing.T) (*machine.FiniteStateMachine, *domain.Model) {
	t.Helper()
	model, err := dsl.New("line").
		Start("a").
		Edge("ab", "a", "b").
		Edge("bc", "b", "c").
		Edge("cd", "c", "d").
		Build()
	require.NoError(t, err)
	m, err := machine.New(model)
	require.NoError(t, err)
	return m, model
}

func walk(t *testing.T, m *machine.FiniteStateMachine, model *domain.Model, ids ...string) {
	t.Helper()
	for _, id := range ids {
		for _, e := range model.Edges {
			if e.ID == id {
				require.NoError(t, m.WalkEdge(e))
			}
		}
	}
}

func TestEdgeCoverage(t *testing.T) {
	m, model := line(t)
	full := condition.EdgeCoverage(m, 100)
	half := condition.EdgeCoverage(m, 50)

	assert.Zero(t, full.Fulfilment())
	walk(t, m, model, "ab")
	assert.InDelta(t, 1.0/3, full.Fulfilment(), 1e-9)
	assert.InDelta(t, 2.0/3, half.Fulfilment(), 1e-9)

	walk(t, m, model, "bc")
	assert.True(t, half.IsFulfilled())
	assert.Equal(t, 1.0, half.Fulfilment(), "fulfilment is clamped")
	assert.False(t, full.IsFulfilled())
	assert.Equal(t, "EdgeCoverage(100)", full.String())
}

func TestVertexCoverage_CountsStart(t *testing.T) {
	m, model := line(t)
	c := condition.VertexCoverage(m, 100)
	assert.InDelta(t, 0.25, c.Fulfilment(), 1e-9)

	walk(t, m, model, "ab", "bc", "cd")
	assert.True(t, c.IsFulfilled())
}

func TestReachedVertex_DistanceHeuristic(t *testing.T) {
	m, model := line(t)
	c := condition.ReachedVertex(m, "d")

	assert.InDelta(t, 1-3.0/4, c.Fulfilment(), 1e-9)
	walk(t, m, model, "ab")
	assert.InDelta(t, 1-2.0/4, c.Fulfilment(), 1e-9)
	walk(t, m, model, "bc", "cd")
	assert.True(t, c.IsFulfilled())

	unreachable := condition.ReachedVertex(m, "a")
	assert.Zero(t, unreachable.Fulfilment())
}

func TestReachedEdge(t *testing.T) {
	m, model := line(t)
	c := condition.ReachedEdge(m, "bc")

	before := c.Fulfilment()
	walk(t, m, model, "ab")
	assert.Greater(t, c.Fulfilment(), before)
	assert.False(t, c.IsFulfilled())

	walk(t, m, model, "bc")
	assert.True(t, c.IsFulfilled())
}

func TestEdgesWalked(t *testing.T) {
	m, model := line(t)
	c := condition.EdgesWalked(m, "bc", "cd")

	walk(t, m, model, "ab", "bc")
	assert.InDelta(t, 0.5, c.Fulfilment(), 1e-9)
	walk(t, m, model, "cd")
	assert.True(t, c.IsFulfilled())
}

func TestTestLength(t *testing.T) {
	m, model := line(t)
	c := condition.TestLength(m, 2)

	walk(t, m, model, "ab")
	assert.InDelta(t, 0.5, c.Fulfilment(), 1e-9)
	walk(t, m, model, "bc", "cd")
	assert.Equal(t, 1.0, c.Fulfilment())
}

func TestComposites(t *testing.T) {
	m, model := line(t)
	never := condition.Never()
	length := condition.TestLength(m, 1)
	walk(t, m, model, "ab")

	or := condition.Alternative(never, length)
	and := condition.Combinational(never, length)

	assert.True(t, or.IsFulfilled())
	assert.Equal(t, 1.0, or.Fulfilment())
	assert.False(t, and.IsFulfilled())
	assert.InDelta(t, 0.5, and.Fulfilment(), 1e-9)
	assert.Equal(t, "Alternative(Never() OR TestLength(1))", or.String())
}

func TestBuild(t *testing.T) {
	m, _ := line(t)

	c, err := condition.Build(condition.Spec{Type: condition.TypeEdgeCoverage}, m)
	require.NoError(t, err)
	assert.Equal(t, "EdgeCoverage(100)", c.(interface{ String() string }).String())

	c, err = condition.Build(condition.Spec{
		Type: condition.TypeAlternative,
		Conditions: []condition.Spec{
			{Type: condition.TypeReachedVertex, Params: map[string]any{"name": "d"}},
			{Type: condition.TypeTestLength, Params: map[string]any{"length": "5"}},
		},
	}, m)
	require.NoError(t, err, "string numbers are weakly decoded")
	assert.IsType(t, &condition.AlternativeCondition{}, c)

	failures := map[string]condition.Spec{
		"unknown":     {Type: "bogus"},
		"percent":     {Type: condition.TypeEdgeCoverage, Params: map[string]any{"percent": 0}},
		"unused key":  {Type: condition.TypeTestLength, Params: map[string]any{"length": 3, "extra": true}},
		"no name":     {Type: condition.TypeReachedEdge},
		"no children": {Type: condition.TypeCombinational},
	}
	for name, spec := range failures {
		t.Run(name, func(t *testing.T) {
			_, err := condition.Build(spec, m)
			assert.Error(t, err)
		})
	}

	_, err = condition.Build(condition.Spec{Type: "bogus"}, m)
	assert.ErrorIs(t, err, condition.ErrUnknownCondition)
}

var _ ports.StopCondition = condition.Never()
