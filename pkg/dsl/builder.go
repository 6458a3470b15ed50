package dsl

import (
	"fmt"

	"github.com/hodaniel/graphwalker/pkg/domain"
)

// EdgeOption configures an edge added through the Builder.
type EdgeOption func(*domain.Edge)

// Label sets the display label of an edge.
func Label(label string) EdgeOption {
	return func(e *domain.Edge) {
		e.Label = label
	}
}

// Weight sets the explicit selection probability of an edge.
func Weight(w float64) EdgeOption {
	return func(e *domain.Edge) {
		e.Weight = domain.Weight(w)
	}
}

// Builder manages the model construction.
type Builder struct {
	name     string
	start    string
	vertices []domain.Vertex
	index    map[string]int
	edges    []domain.Edge
	errs     []error
}

// New creates a new model builder.
func New(name string) *Builder {
	return &Builder{
		name:  name,
		index: make(map[string]int),
	}
}

// Vertex adds a vertex, or relabels it if it already exists.
func (b *Builder) Vertex(id, label string) *Builder {
	if i, ok := b.index[id]; ok {
		b.vertices[i].Label = label
		return b
	}
	b.index[id] = len(b.vertices)
	b.vertices = append(b.vertices, domain.Vertex{ID: id, Label: label})
	return b
}

func (b *Builder) ensure(id string) {
	if _, ok := b.index[id]; !ok {
		b.Vertex(id, "")
	}
}

// Start marks the start vertex, adding it if needed.
// Without it, the first vertex added is the start.
func (b *Builder) Start(id string) *Builder {
	b.ensure(id)
	b.start = id
	return b
}

// Edge adds an edge from source to target, adding missing vertices in order.
func (b *Builder) Edge(id, source, target string, opts ...EdgeOption) *Builder {
	for _, e := range b.edges {
		if e.ID == id {
			b.errs = append(b.errs, fmt.Errorf("duplicate edge %q", id))
			return b
		}
	}
	b.ensure(source)
	b.ensure(target)

	edge := domain.Edge{ID: id, Source: source, Target: target}
	for _, opt := range opts {
		opt(&edge)
	}
	b.edges = append(b.edges, edge)
	return b
}

// Build compiles the builder into a model.
func (b *Builder) Build() (*domain.Model, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidModel, b.errs[0])
	}
	if len(b.vertices) == 0 {
		return nil, fmt.Errorf("%w: model %q has no vertices", domain.ErrInvalidModel, b.name)
	}

	start := b.start
	if start == "" {
		start = b.vertices[0].ID
	}
	return &domain.Model{
		Name:     b.name,
		Start:    start,
		Vertices: append([]domain.Vertex(nil), b.vertices...),
		Edges:    append([]domain.Edge(nil), b.edges...),
	}, nil
}

// MustBuild is like Build but panics on error. It is meant for tests and examples.
func (b *Builder) MustBuild() *domain.Model {
	model, err := b.Build()
	if err != nil {
		panic(err)
	}
	return model
}
