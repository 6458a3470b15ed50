package machine_test

import (
	"testing"

	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/hodaniel/graphwalker/pkg/machine"
	"github.com/hodaniel/graphwalker/pkg/ports"
	contract "github.com/hodaniel/graphwalker/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiniteStateMachine_Contract(t *testing.T) {
	contract.MachineContractTest(t, func(t *testing.T) ports.Machine {
		m, err := machine.New(contract.ContractModel())
		require.NoError(t, err)
		return m
	})
}

func TestNew_RejectsBrokenModels(t *testing.T) {
	cases := map[string]*domain.Model{
		"nil":           nil,
		"missing start": {Start: "x", Vertices: []domain.Vertex{{ID: "a"}}},
		"dangling edge": {
			Start:    "a",
			Vertices: []domain.Vertex{{ID: "a"}},
			Edges:    []domain.Edge{{ID: "e1", Source: "a", Target: "ghost"}},
		},
		"duplicate edge": {
			Start:    "a",
			Vertices: []domain.Vertex{{ID: "a"}},
			Edges: []domain.Edge{
				{ID: "e1", Source: "a", Target: "a"},
				{ID: "e1", Source: "a", Target: "a"},
			},
		},
	}
	for name, model := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := machine.New(model)
			assert.ErrorIs(t, err, domain.ErrInvalidModel)
		})
	}
}

func TestRollback_RestoresCoverage(t *testing.T) {
	model := contract.ContractModel()
	m, err := machine.New(model)
	require.NoError(t, err)

	require.NoError(t, m.WalkEdge(model.Edges[0]))
	before := m.Statistics()

	cp := m.Checkpoint()
	require.NoError(t, m.WalkPath(domain.Path{model.Edges[1], model.Edges[0], model.Edges[2]}))
	assert.Equal(t, 2, m.EdgeVisits("e1"))
	assert.Equal(t, 1, m.VertexVisits("c"))

	require.NoError(t, m.Rollback(cp))
	assert.Equal(t, before, m.Statistics())
	assert.Equal(t, 1, m.EdgeVisits("e1"))
	assert.Zero(t, m.EdgeVisits("e2"))
	assert.Zero(t, m.VertexVisits("c"))
	assert.Equal(t, []domain.Step{{Edge: "e1", Vertex: "b"}}, m.History())
}

func TestSearchMode_SkipsHistory(t *testing.T) {
	model := contract.ContractModel()
	m, err := machine.New(model)
	require.NoError(t, err)

	m.SetSearchMode(true)
	require.NoError(t, m.WalkEdge(model.Edges[0]))
	m.SetSearchMode(false)

	assert.Empty(t, m.History())
	assert.Equal(t, 1, m.Statistics().Steps, "coverage still counts speculative-mode walks")
}

func TestStatistics_StartVertexCounts(t *testing.T) {
	m, err := machine.New(contract.ContractModel())
	require.NoError(t, err)

	stats := m.Statistics()
	assert.Equal(t, 3, stats.Vertices)
	assert.Equal(t, 1, stats.VisitedVertices)
	assert.Equal(t, 0, stats.VisitedEdges)
	assert.InDelta(t, 1.0/3, stats.VertexCoverage(), 1e-9)

	m.Reset()
	assert.Equal(t, "a", m.CurrentVertex().ID)
}
