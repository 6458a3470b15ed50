package machine

import "github.com/hodaniel/graphwalker/pkg/domain"

// Vertices implements ports.Coverage.
func (m *FiniteStateMachine) Vertices() []domain.Vertex {
	return append([]domain.Vertex(nil), m.model.Vertices...)
}

// Edges implements ports.Coverage.
func (m *FiniteStateMachine) Edges() []domain.Edge {
	return append([]domain.Edge(nil), m.model.Edges...)
}

// OutEdgesOf implements ports.Coverage.
func (m *FiniteStateMachine) OutEdgesOf(vertexID string) []domain.Edge {
	return append([]domain.Edge(nil), m.out[vertexID]...)
}

// EdgeVisits implements ports.Coverage.
func (m *FiniteStateMachine) EdgeVisits(edgeID string) int {
	return m.edgeVisits[edgeID]
}

// VertexVisits implements ports.Coverage.
func (m *FiniteStateMachine) VertexVisits(vertexID string) int {
	return m.vertexVisits[vertexID]
}

// Statistics implements ports.Coverage.
func (m *FiniteStateMachine) Statistics() domain.Statistics {
	stats := domain.Statistics{
		Vertices: len(m.model.Vertices),
		Edges:    len(m.model.Edges),
		Steps:    m.steps,
	}
	for _, v := range m.model.Vertices {
		if m.vertexVisits[v.ID] > 0 {
			stats.VisitedVertices++
		}
	}
	for _, e := range m.model.Edges {
		if m.edgeVisits[e.ID] > 0 {
			stats.VisitedEdges++
		}
	}
	return stats
}
