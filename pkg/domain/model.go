package domain

// Model is the graph walked by a generator: a finite state machine of
// vertices and edges with a single start vertex.
type Model struct {
	Name     string   `json:"name" yaml:"name"`
	Start    string   `json:"start" yaml:"start"`
	Vertices []Vertex `json:"vertices" yaml:"vertices"`
	Edges    []Edge   `json:"edges" yaml:"edges"`
}

// Vertex looks up a vertex by ID.
func (m *Model) Vertex(id string) (Vertex, bool) {
	for _, v := range m.Vertices {
		if v.ID == id {
			return v, true
		}
	}
	return Vertex{}, false
}

// OutEdges returns the edges leaving the vertex, in definition order.
func (m *Model) OutEdges(vertexID string) []Edge {
	var out []Edge
	for _, e := range m.Edges {
		if e.Source == vertexID {
			out = append(out, e)
		}
	}
	return out
}

// Weighted reports whether any edge of the model carries an explicit weight.
func (m *Model) Weighted() bool {
	for _, e := range m.Edges {
		if e.Weighted() {
			return true
		}
	}
	return false
}

// Step is the outcome of advancing the real model position by one edge.
type Step struct {
	Edge   string `json:"edge"`
	Vertex string `json:"vertex"`
}

// IsZero reports whether the step is the empty placeholder.
func (s Step) IsZero() bool {
	return s.Edge == "" && s.Vertex == ""
}

// Statistics summarises the coverage a machine has accumulated.
type Statistics struct {
	Vertices        int `json:"vertices"`
	VisitedVertices int `json:"visited_vertices"`
	Edges           int `json:"edges"`
	VisitedEdges    int `json:"visited_edges"`
	Steps           int `json:"steps"`
}

// EdgeCoverage returns the ratio of visited edges, 0 for an edgeless model.
func (s Statistics) EdgeCoverage() float64 {
	if s.Edges == 0 {
		return 0
	}
	return float64(s.VisitedEdges) / float64(s.Edges)
}

// VertexCoverage returns the ratio of visited vertices, 0 for an empty model.
func (s Statistics) VertexCoverage() float64 {
	if s.Vertices == 0 {
		return 0
	}
	return float64(s.VisitedVertices) / float64(s.Vertices)
}

// Clone returns a deep copy of the model, weights included.
func (m *Model) Clone() *Model {
	if m == nil {
		return nil
	}
	c := &Model{
		Name:     m.Name,
		Start:    m.Start,
		Vertices: append([]Vertex(nil), m.Vertices...),
		Edges:    make([]Edge, len(m.Edges)),
	}
	for i, e := range m.Edges {
		if e.Weight != nil {
			e.Weight = Weight(*e.Weight)
		}
		c.Edges[i] = e
	}
	return c
}
