package machine

import (
	"fmt"
	"log/slog"

	"github.com/hodaniel/graphwalker/internal/logging"
	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/hodaniel/graphwalker/pkg/ports"
)

// Option configures a FiniteStateMachine.
type Option func(*FiniteStateMachine)

// WithLogger sets a custom logger for the machine.
func WithLogger(logger *slog.Logger) Option {
	return func(m *FiniteStateMachine) {
		m.logger = logger
	}
}

type walkRecord struct {
	edgeID   string
	vertexID string
}

type snapshot struct {
	token      ports.Checkpoint
	current    string
	steps      int
	historyLen int
	journalLen int
}

// FiniteStateMachine is the default ports.Machine and ports.Coverage.
// It is not safe for concurrent use; callers serialise access per walk.
type FiniteStateMachine struct {
	model    *domain.Model
	vertices map[string]domain.Vertex
	out      map[string][]domain.Edge
	weighted bool
	logger   *slog.Logger

	current      string
	edgeVisits   map[string]int
	vertexVisits map[string]int
	steps        int
	history      []domain.Step

	searchMode  bool
	checkpoints []snapshot
	journal     []walkRecord
	nextToken   ports.Checkpoint
}

var (
	_ ports.Machine  = (*FiniteStateMachine)(nil)
	_ ports.Coverage = (*FiniteStateMachine)(nil)
)

// New creates a machine positioned at the start vertex of model.
func New(model *domain.Model, opts ...Option) (*FiniteStateMachine, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: nil model", domain.ErrInvalidModel)
	}

	m := &FiniteStateMachine{
		model:    model,
		vertices: make(map[string]domain.Vertex, len(model.Vertices)),
		out:      make(map[string][]domain.Edge, len(model.Vertices)),
		weighted: model.Weighted(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, v := range model.Vertices {
		if _, dup := m.vertices[v.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate vertex %q", domain.ErrInvalidModel, v.ID)
		}
		m.vertices[v.ID] = v
	}
	if _, ok := m.vertices[model.Start]; !ok {
		return nil, fmt.Errorf("%w: start vertex %q does not exist", domain.ErrInvalidModel, model.Start)
	}

	seen := make(map[string]bool, len(model.Edges))
	for _, e := range model.Edges {
		if seen[e.ID] {
			return nil, fmt.Errorf("%w: duplicate edge %q", domain.ErrInvalidModel, e.ID)
		}
		seen[e.ID] = true
		if _, ok := m.vertices[e.Source]; !ok {
			return nil, fmt.Errorf("%w: edge %q leaves unknown vertex %q", domain.ErrInvalidModel, e.ID, e.Source)
		}
		if _, ok := m.vertices[e.Target]; !ok {
			return nil, fmt.Errorf("%w: edge %q enters unknown vertex %q", domain.ErrInvalidModel, e.ID, e.Target)
		}
		m.out[e.Source] = append(m.out[e.Source], e)
	}

	m.Reset()
	return m, nil
}

// Reset moves the machine back to the start vertex and clears all coverage.
func (m *FiniteStateMachine) Reset() {
	m.current = m.model.Start
	m.edgeVisits = make(map[string]int, len(m.model.Edges))
	m.vertexVisits = make(map[string]int, len(m.model.Vertices))
	m.vertexVisits[m.current] = 1
	m.steps = 0
	m.history = nil
	m.checkpoints = nil
	m.journal = nil
	m.searchMode = false
}

// Model returns the model being walked.
func (m *FiniteStateMachine) Model() *domain.Model {
	return m.model
}

// CurrentVertex implements ports.Machine.
func (m *FiniteStateMachine) CurrentVertex() domain.Vertex {
	return m.vertices[m.current]
}

// CurrentOutEdges implements ports.Machine.
func (m *FiniteStateMachine) CurrentOutEdges() ([]domain.Edge, error) {
	edges := m.out[m.current]
	if len(edges) == 0 {
		return nil, &domain.DeadEndError{Vertex: m.CurrentVertex().Name()}
	}
	return append([]domain.Edge(nil), edges...), nil
}

// WalkEdge implements ports.Machine.
func (m *FiniteStateMachine) WalkEdge(edge domain.Edge) error {
	if !m.leavesCurrent(edge.ID) {
		return fmt.Errorf("%w: %q from %q", domain.ErrEdgeNotAvailable, edge.ID, m.current)
	}

	m.current = edge.Target
	m.edgeVisits[edge.ID]++
	m.vertexVisits[edge.Target]++
	m.steps++

	if len(m.checkpoints) > 0 {
		m.journal = append(m.journal, walkRecord{edgeID: edge.ID, vertexID: edge.Target})
	}
	if !m.searchMode {
		m.history = append(m.history, domain.Step{Edge: edge.ID, Vertex: edge.Target})
		m.logger.Debug("Edge walked", "edge", edge.Name(), "vertex", m.CurrentVertex().Name(), "steps", m.steps)
	}
	return nil
}

func (m *FiniteStateMachine) leavesCurrent(edgeID string) bool {
	for _, e := range m.out[m.current] {
		if e.ID == edgeID {
			return true
		}
	}
	return false
}

// WalkPath implements ports.Machine.
func (m *FiniteStateMachine) WalkPath(path domain.Path) error {
	for i, e := range path {
		if err := m.WalkEdge(e); err != nil {
			return fmt.Errorf("path step %d: %w", i, err)
		}
	}
	return nil
}

// Checkpoint implements ports.Machine.
func (m *FiniteStateMachine) Checkpoint() ports.Checkpoint {
	m.nextToken++
	m.checkpoints = append(m.checkpoints, snapshot{
		token:      m.nextToken,
		current:    m.current,
		steps:      m.steps,
		historyLen: len(m.history),
		journalLen: len(m.journal),
	})
	return m.nextToken
}

// Rollback implements ports.Machine.
func (m *FiniteStateMachine) Rollback(cp ports.Checkpoint) error {
	idx := -1
	for i := len(m.checkpoints) - 1; i >= 0; i-- {
		if m.checkpoints[i].token == cp {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidCheckpoint, cp)
	}

	snap := m.checkpoints[idx]
	for _, rec := range m.journal[snap.journalLen:] {
		m.edgeVisits[rec.edgeID]--
		if m.edgeVisits[rec.edgeID] == 0 {
			delete(m.edgeVisits, rec.edgeID)
		}
		m.vertexVisits[rec.vertexID]--
		if m.vertexVisits[rec.vertexID] == 0 {
			delete(m.vertexVisits, rec.vertexID)
		}
	}

	m.journal = m.journal[:snap.journalLen]
	m.history = m.history[:snap.historyLen]
	m.current = snap.current
	m.steps = snap.steps
	m.checkpoints = m.checkpoints[:idx]
	if len(m.checkpoints) == 0 {
		m.journal = m.journal[:0]
	}
	return nil
}

// IsWeighted implements ports.Machine.
func (m *FiniteStateMachine) IsWeighted() bool {
	return m.weighted
}

// EdgeLabel implements ports.Machine.
func (m *FiniteStateMachine) EdgeLabel(edge domain.Edge) string {
	return edge.Name()
}

// VertexLabel implements ports.Machine.
func (m *FiniteStateMachine) VertexLabel() string {
	return m.CurrentVertex().Name()
}

// SetSearchMode implements ports.Machine.
func (m *FiniteStateMachine) SetSearchMode(on bool) bool {
	previous := m.searchMode
	m.searchMode = on
	return previous
}

// SearchMode reports whether the machine is currently being driven speculatively.
func (m *FiniteStateMachine) SearchMode() bool {
	return m.searchMode
}

// History returns the real steps taken since the last Reset.
func (m *FiniteStateMachine) History() []domain.Step {
	return append([]domain.Step(nil), m.history...)
}
