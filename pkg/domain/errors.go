package domain

import (
	"errors"
	"fmt"
)

// ErrDeadEnd is returned when the current vertex has no outgoing edges.
var ErrDeadEnd = errors.New("dead end")

// ErrNoPathFound is returned when a search exhausts its candidates without
// satisfying the stop condition.
var ErrNoPathFound = errors.New("no path found")

// ErrInvalidModelWeight is returned when the explicit edge weights at a vertex
// add up to more than 1.
var ErrInvalidModelWeight = errors.New("invalid model weight")

// ErrCancelled is returned when a generator observes a cancelled context.
// It wraps the context error, so context.Canceled matches as well.
var ErrCancelled = errors.New("cancelled")

// ErrExhausted is returned when a generator is asked for a step it cannot produce.
var ErrExhausted = errors.New("generator exhausted")

// ErrNotConfigured is returned when a generator is used before a machine and a
// stop condition were injected.
var ErrNotConfigured = errors.New("generator not configured")

// ErrEdgeNotAvailable is returned when walking an edge that does not leave the
// current vertex.
var ErrEdgeNotAvailable = errors.New("edge not available from current vertex")

// ErrInvalidCheckpoint is returned when rolling back to an unknown checkpoint.
var ErrInvalidCheckpoint = errors.New("invalid checkpoint")

// ErrInvalidModel is returned when a model is structurally unusable, e.g. it
// references a vertex that does not exist.
var ErrInvalidModel = errors.New("invalid model")

// ErrModelNotFound is returned when a model name cannot be found in a store.
var ErrModelNotFound = errors.New("model not found")

// ErrSessionNotFound is returned when a session ID cannot be found.
var ErrSessionNotFound = errors.New("session not found")

// DeadEndError reports the vertex at which no outgoing edge exists.
type DeadEndError struct {
	Vertex string
}

func (e *DeadEndError) Error() string {
	return fmt.Sprintf("no available edges found at '%s'", e.Vertex)
}

func (e *DeadEndError) Is(target error) bool {
	return target == ErrDeadEnd
}

// NoPathError reports the best fulfilment a failed search achieved.
type NoPathError struct {
	Condition string
	Best      float64
}

// Percent returns the best fulfilment as a whole percentage.
func (e *NoPathError) Percent() int {
	return int(e.Best * 100)
}

func (e *NoPathError) Error() string {
	return fmt.Sprintf("no path found to satisfy stop condition %s, best path satisfied only %d%% of condition",
		e.Condition, e.Percent())
}

func (e *NoPathError) Is(target error) bool {
	return target == ErrNoPathFound
}

// WeightError reports a vertex whose explicit edge weights exceed 1.
type WeightError struct {
	Vertex string
	Sum    float64
}

func (e *WeightError) Error() string {
	return fmt.Sprintf("the sum of all weights in edges from vertex '%s' adds up to %.2f, more than 1.00", e.Vertex, e.Sum)
}

func (e *WeightError) Is(target error) bool {
	return target == ErrInvalidModelWeight
}
