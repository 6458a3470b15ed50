package ports

import (
	"context"

	"github.com/hodaniel/graphwalker/pkg/domain"
)

// PathGenerator produces a test walk one step at a time.
// Implementations are not safe for concurrent use.
type PathGenerator interface {
	// HasNext reports whether further steps can be produced.
	HasNext() bool

	// GetNext advances the real machine position by exactly one edge and
	// returns the resulting (edge label, vertex label) pair.
	GetNext(ctx context.Context) (domain.Step, error)

	// SetMachine injects the machine to walk.
	SetMachine(m Machine)

	// SetStopCondition injects the condition that ends the walk.
	SetStopCondition(c StopCondition)
}
