package ports

import (
	"errors"

	"github.com/hodaniel/graphwalker/pkg/domain"
)

// Checkpoint is an opaque token capturing a machine position.
type Checkpoint uint64

// Machine is the model access contract consumed by path generators.
// The machine owns the real position; generators only read it and request
// moves or checkpoints through this interface.
type Machine interface {
	// CurrentVertex returns the current position.
	CurrentVertex() domain.Vertex

	// CurrentOutEdges returns the edges leaving the current vertex in definition order.
	// It fails with domain.ErrDeadEnd when there are none.
	CurrentOutEdges() ([]domain.Edge, error)

	// WalkEdge advances the position by exactly one edge, which must leave the
	// current vertex.
	WalkEdge(edge domain.Edge) error

	// WalkPath applies every edge of path from the current position.
	WalkPath(path domain.Path) error

	// Checkpoint captures the current position. Every checkpoint must be paired
	// with a Rollback.
	Checkpoint() Checkpoint

	// Rollback restores the position captured by cp, discarding any checkpoint
	// taken after it.
	Rollback(cp Checkpoint) error

	// IsWeighted reports whether edges of the model carry explicit weights.
	IsWeighted() bool

	// EdgeLabel returns the display label of edge.
	EdgeLabel(edge domain.Edge) string

	// VertexLabel returns the display label of the current vertex.
	VertexLabel() string

	// SetSearchMode marks whether the machine is being driven speculatively and
	// returns the previous value, so callers can restore it.
	SetSearchMode(on bool) (previous bool)
}

// Coverage is the read-only view of a machine that stop conditions measure.
type Coverage interface {
	CurrentVertex() domain.Vertex
	Vertices() []domain.Vertex
	Edges() []domain.Edge
	OutEdgesOf(vertexID string) []domain.Edge
	EdgeVisits(edgeID string) int
	VertexVisits(vertexID string) int
	Statistics() domain.Statistics
}

// Speculate walks path from the current position of m, calls fn at the
// reached position and restores the original position afterwards.
// The rollback runs on every exit path, including errors from fn.
func Speculate(m Machine, path domain.Path, fn func() error) (err error) {
	cp := m.Checkpoint()
	defer func() {
		if rbErr := m.Rollback(cp); rbErr != nil {
			err = errors.Join(err, rbErr)
		}
	}()

	if err := m.WalkPath(path); err != nil {
		return err
	}
	return fn()
}

// WithSearchMode runs fn with the search mode of m enabled and restores the
// previous mode afterwards.
func WithSearchMode(m Machine, fn func() error) error {
	previous := m.SetSearchMode(true)
	defer m.SetSearchMode(previous)
	return fn()
}
