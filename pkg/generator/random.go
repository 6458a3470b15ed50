package generator

import (
	"context"
	"math/rand/v2"

	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/hodaniel/graphwalker/pkg/ports"
)

// weightEpsilon absorbs rounding when explicit weights add up to exactly 1.
const weightEpsilon = 1e-9

// Random walks one randomly chosen outgoing edge per call.
// On weighted models, edges without an explicit weight share the probability
// left over by the weighted ones.
type Random struct {
	base
	rng *rand.Rand
}

var _ ports.PathGenerator = (*Random)(nil)

// NewRandom creates a random walker. A machine and a stop condition must be
// injected before use.
func NewRandom(opts ...Option) *Random {
	cfg := newConfig(opts)
	return &Random{base: newBase("random", cfg), rng: cfg.rng}
}

// HasNext reports whether the stop condition is still unfulfilled.
func (g *Random) HasNext() bool {
	return g.condition != nil && g.machine != nil && !g.fulfilled()
}

// GetNext selects and walks one outgoing edge of the current vertex.
// It does not consult the stop condition; callers guard with HasNext.
func (g *Random) GetNext(ctx context.Context) (domain.Step, error) {
	if err := g.configured(); err != nil {
		return domain.Step{}, err
	}

	// Cancellation wins over a dead end.
	if err := cancelled(ctx); err != nil {
		return domain.Step{}, err
	}
	edges, err := g.machine.CurrentOutEdges()
	if err != nil {
		return domain.Step{}, err
	}

	var edge domain.Edge
	if g.machine.IsWeighted() {
		edge, err = g.weighted(edges)
		if err != nil {
			return domain.Step{}, err
		}
	} else {
		edge = edges[g.rng.IntN(len(edges))]
	}

	g.logger.Debug("Random edge selected", "edge", g.machine.EdgeLabel(edge), "candidates", len(edges))
	return g.walk(ctx, edge)
}

func (g *Random) weighted(edges []domain.Edge) (domain.Edge, error) {
	sum := 0.0
	unweighted := 0
	for _, e := range edges {
		if e.Weighted() {
			sum += *e.Weight
		} else {
			unweighted++
		}
	}
	if sum > 1+weightEpsilon {
		return domain.Edge{}, &domain.WeightError{Vertex: g.machine.VertexLabel(), Sum: sum}
	}

	rest := 0.0
	if unweighted > 0 {
		rest = (1 - sum) / float64(unweighted)
	}

	draw := float64(g.rng.IntN(100))
	cumulative := 0.0
	for _, e := range edges {
		p := rest
		if e.Weighted() {
			p = *e.Weight
		}
		cumulative += p * 100
		if draw < cumulative {
			return e, nil
		}
	}
	// Weights below 1 in total leave a gap at the top of the range.
	return edges[len(edges)-1], nil
}

func (g *Random) String() string {
	return "RANDOM{" + describe(g.condition) + "}"
}
