package generator

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/hodaniel/graphwalker/pkg/ports"
)

// fulfilledAt tolerates floating point error around a fulfilment of 1.0.
const fulfilledAt = 0.99999

type signature struct {
	edge       string
	subState   string
	fulfilment float64
}

// AStar walks a precomputed path that ends in a state fulfilling the stop
// condition. The path is searched for on demand and recomputed whenever the
// machine is no longer where the generator left it.
//
// Candidates are expanded lowest fulfilment first, then shortest path first.
type AStar struct {
	base
	path     domain.Path
	expected string
}

var _ ports.PathGenerator = (*AStar)(nil)

// NewAStar creates an A* generator. A machine and a stop condition must be
// injected before use.
func NewAStar(opts ...Option) *AStar {
	return &AStar{base: newBase("a_star", newConfig(opts))}
}

// HasNext reports whether the stop condition is still unfulfilled.
func (g *AStar) HasNext() bool {
	return g.condition != nil && g.machine != nil && !g.fulfilled()
}

// GetNext walks the next edge of the cached path, searching for a new path first
// when the cache is empty or stale. It fails with domain.ErrExhausted once the
// stop condition is fulfilled.
func (g *AStar) GetNext(ctx context.Context) (domain.Step, error) {
	if err := g.configured(); err != nil {
		return domain.Step{}, err
	}
	if g.fulfilled() {
		return domain.Step{}, fmt.Errorf("%w: %s is already fulfilled", domain.ErrExhausted, describe(g.condition))
	}

	if len(g.path) == 0 || g.machine.CurrentVertex().ID != g.expected {
		path, err := g.search(ctx)
		if err != nil {
			g.Reset()
			return domain.Step{}, err
		}
		g.path = path
	}

	edge := g.path[0]
	g.path = g.path[1:]
	step, err := g.walk(ctx, edge)
	if err != nil {
		g.Reset()
		return domain.Step{}, err
	}
	g.expected = g.machine.CurrentVertex().ID
	return step, nil
}

// Reset drops the cached path, so the next call searches from the current position.
func (g *AStar) Reset() {
	g.path = nil
	g.expected = ""
}

// Remaining returns the cached edges not yet walked.
func (g *AStar) Remaining() domain.Path {
	return append(domain.Path(nil), g.path...)
}

func (g *AStar) String() string {
	return "A_STAR{" + describe(g.condition) + "}"
}

type searchStats struct {
	expanded int
	pruned   int
	best     float64
}

func (g *AStar) search(ctx context.Context) (domain.Path, error) {
	started := time.Now()
	origin := g.machine.CurrentVertex()
	g.logger.Debug("Searching path", "origin", origin.Name(), "condition", describe(g.condition))

	var (
		result domain.Path
		stats  searchStats
	)
	err := ports.WithSearchMode(g.machine, func() error {
		var err error
		result, err = g.bestFirst(ctx, origin, &stats)
		return err
	})

	if err == nil {
		g.expected = origin.ID
		g.logger.Debug("Path found", "length", len(result), "expanded", stats.expanded, "pruned", stats.pruned)
	} else {
		g.logger.Debug("Search failed", "err", err, "best", stats.best, "expanded", stats.expanded)
	}

	if g.hooks.OnSearch != nil {
		g.hooks.OnSearch(ctx, &domain.SearchEvent{
			EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventSearch},
			Origin:     origin.Name(),
			Expanded:   stats.expanded,
			Pruned:     stats.pruned,
			PathLength: len(result),
			Best:       stats.best,
			Duration:   time.Since(started),
			Err:        err,
		})
	}
	return result, err
}

func (g *AStar) bestFirst(ctx context.Context, origin domain.Vertex, stats *searchStats) (domain.Path, error) {
	edges, err := g.machine.CurrentOutEdges()
	if err != nil {
		return nil, err
	}

	queue := &candidateQueue{}
	heap.Init(queue)
	seq := 0
	push := func(path domain.Path) error {
		c, err := g.evaluate(path)
		if err != nil {
			return err
		}
		c.seq = seq
		seq++
		heap.Push(queue, c)
		return nil
	}

	for _, e := range edges {
		if err := push(domain.Path{e}); err != nil {
			return nil, err
		}
	}

	visited := make(map[signature]struct{})
	for queue.Len() > 0 {
		if err := cancelled(ctx); err != nil {
			return nil, err
		}

		current := heap.Pop(queue).(*candidate)
		stats.best = max(stats.best, current.fulfilment)
		if current.fulfilment >= fulfilledAt {
			return current.path, nil
		}

		last, _ := current.path.Last()
		sig := signature{edge: last.ID, subState: current.subState, fulfilment: current.fulfilment}
		if _, seen := visited[sig]; seen {
			stats.pruned++
			continue
		}
		visited[sig] = struct{}{}
		stats.expanded++

		var next []domain.Edge
		err := ports.Speculate(g.machine, current.path, func() error {
			out, err := g.machine.CurrentOutEdges()
			if errors.Is(err, domain.ErrDeadEnd) {
				return nil
			}
			next = out
			return err
		})
		if err != nil {
			return nil, err
		}
		for _, e := range next {
			if err := push(current.path.Append(e)); err != nil {
				return nil, err
			}
		}
	}

	return nil, &domain.NoPathError{Condition: describe(g.condition), Best: stats.best}
}

// evaluate measures the stop condition as if path had been walked.
func (g *AStar) evaluate(path domain.Path) (*candidate, error) {
	c := &candidate{path: path}
	err := ports.Speculate(g.machine, path, func() error {
		c.fulfilment = g.condition.Fulfilment()
		c.subState = g.machine.CurrentVertex().SubState()
		return nil
	})
	return c, err
}
