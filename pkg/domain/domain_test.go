package domain_test

import (
	"errors"
	"testing"

	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestSubState(t *testing.T) {
	cases := map[string]string{
		"Login":             "",
		"Login/step2":       "step2",
		"Login/step2/inner": "step2/inner",
		"Login/":            "",
		"":                  "",
	}
	for label, want := range cases {
		assert.Equal(t, want, domain.SubState(label), "label %q", label)
	}

	v := domain.Vertex{ID: "v1", Label: "Cart/full"}
	assert.Equal(t, "full", v.SubState())
	assert.Equal(t, "v1", domain.Vertex{ID: "v1"}.Name())
}

func TestPath_AppendDoesNotAlias(t *testing.T) {
	base := domain.Path{{ID: "e1"}}
	base = base.Append(domain.Edge{ID: "e2"})

	left := base.Append(domain.Edge{ID: "left"})
	right := base.Append(domain.Edge{ID: "right"})

	assert.Equal(t, []string{"e1", "e2", "left"}, left.Labels())
	assert.Equal(t, []string{"e1", "e2", "right"}, right.Labels())
	assert.Len(t, base, 2)

	last, ok := right.Last()
	assert.True(t, ok)
	assert.Equal(t, "right", last.ID)

	_, ok = domain.Path{}.Last()
	assert.False(t, ok)
}

func TestEdge_Matches(t *testing.T) {
	e := domain.Edge{ID: "e1", Label: "e_Login"}
	assert.True(t, e.Matches("e1"))
	assert.True(t, e.Matches("e_Login"))
	assert.False(t, e.Matches(""))
	assert.False(t, domain.Edge{ID: "e2"}.Matches(""))
}

func TestEdge_Weighted(t *testing.T) {
	assert.False(t, domain.Edge{ID: "unset"}.Weighted())
	assert.False(t, domain.Edge{ID: "zero", Weight: domain.Weight(0)}.Weighted())
	assert.True(t, domain.Edge{ID: "half", Weight: domain.Weight(0.5)}.Weighted())

	zeros := &domain.Model{Edges: []domain.Edge{{ID: "a", Weight: domain.Weight(0)}, {ID: "b"}}}
	assert.False(t, zeros.Weighted(), "zero weights alone do not make a model weighted")
}

func TestErrors_MatchSentinels(t *testing.T) {
	noPath := &domain.NoPathError{Condition: "EdgeCoverage(100%)", Best: 0.756}
	assert.True(t, errors.Is(noPath, domain.ErrNoPathFound))
	assert.Equal(t, 75, noPath.Percent())
	assert.Contains(t, noPath.Error(), "75%")

	assert.True(t, errors.Is(&domain.DeadEndError{Vertex: "v"}, domain.ErrDeadEnd))
	assert.True(t, errors.Is(&domain.WeightError{Vertex: "v", Sum: 1.2}, domain.ErrInvalidModelWeight))
	assert.False(t, errors.Is(&domain.WeightError{}, domain.ErrDeadEnd))
}

func TestStatistics_Coverage(t *testing.T) {
	s := domain.Statistics{Vertices: 4, VisitedVertices: 2, Edges: 8, VisitedEdges: 2}
	assert.InDelta(t, 0.5, s.VertexCoverage(), 1e-9)
	assert.InDelta(t, 0.25, s.EdgeCoverage(), 1e-9)
	assert.Zero(t, domain.Statistics{}.EdgeCoverage())
}
