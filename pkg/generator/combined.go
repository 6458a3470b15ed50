package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/hodaniel/graphwalker/pkg/ports"
)

// Combined runs its children one after the other. A child is dropped for good
// as soon as it reports it has no next step.
type Combined struct {
	children []ports.PathGenerator
	cursor   int
	strict   bool
	logger   *slog.Logger
}

var _ ports.PathGenerator = (*Combined)(nil)

// NewCombined creates a generator chaining children in the given order.
func NewCombined(children []ports.PathGenerator, opts ...Option) *Combined {
	cfg := newConfig(opts)
	return &Combined{
		children: append([]ports.PathGenerator(nil), children...),
		strict:   cfg.strict,
		logger:   cfg.logger,
	}
}

// Add appends a child after the existing ones.
func (g *Combined) Add(child ports.PathGenerator) {
	g.children = append(g.children, child)
}

// Children returns the configured children, exhausted ones included.
func (g *Combined) Children() []ports.PathGenerator {
	return append([]ports.PathGenerator(nil), g.children...)
}

// Active returns the index of the child currently in charge, or -1 once every
// child is exhausted.
func (g *Combined) Active() int {
	if !g.HasNext() {
		return -1
	}
	return g.cursor
}

// HasNext skips exhausted children and reports whether one is left.
func (g *Combined) HasNext() bool {
	for g.cursor < len(g.children) && !g.children[g.cursor].HasNext() {
		g.logger.Debug("Generator exhausted", "generator", fmt.Sprint(g.children[g.cursor]), "index", g.cursor)
		g.cursor++
	}
	return g.cursor < len(g.children)
}

// GetNext delegates to the first child that still has a step.
// Once every child is exhausted it returns an empty step and no error, unless
// the generator was built with Strict.
func (g *Combined) GetNext(ctx context.Context) (domain.Step, error) {
	if !g.HasNext() {
		if g.strict {
			return domain.Step{}, domain.ErrExhausted
		}
		return domain.Step{}, nil
	}
	return g.children[g.cursor].GetNext(ctx)
}

// SetMachine injects m into every child.
func (g *Combined) SetMachine(m ports.Machine) {
	for _, child := range g.children {
		child.SetMachine(m)
	}
}

// SetStopCondition injects c into every child.
func (g *Combined) SetStopCondition(c ports.StopCondition) {
	for _, child := range g.children {
		child.SetStopCondition(c)
	}
}

func (g *Combined) String() string {
	parts := make([]string, len(g.children))
	for i, child := range g.children {
		parts[i] = fmt.Sprint(child)
	}
	return strings.Join(parts, "\n")
}
