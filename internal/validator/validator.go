package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hodaniel/graphwalker/pkg/domain"
)

// ErrInvalid is matched by every ValidationError.
var ErrInvalid = errors.New("model validation failed")

// Issue is a single problem found in a model.
type Issue struct {
	Err     error
	Warning bool
}

func (i Issue) String() string {
	if i.Warning {
		return "warning: " + i.Err.Error()
	}
	return i.Err.Error()
}

// ValidationError lists every problem found in a model.
type ValidationError struct {
	Model  string
	Issues []Issue
}

func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Issues))
	for _, i := range e.Issues {
		lines = append(lines, i.String())
	}
	return fmt.Sprintf("model '%s': found %d problems:\n- %s", e.Model, len(e.Issues), strings.Join(lines, "\n- "))
}

// Unwrap exposes the underlying errors to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Issues))
	for _, i := range e.Issues {
		errs = append(errs, i.Err)
	}
	return errs
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// HasErrors reports whether any issue is more than a warning.
func (e *ValidationError) HasErrors() bool {
	for _, i := range e.Issues {
		if !i.Warning {
			return true
		}
	}
	return false
}

// Validate checks a model for broken links, unreachable vertices and bad weights.
// It returns nil for a clean model and a *ValidationError otherwise, even if it only holds warnings.
func Validate(model *domain.Model) error {
	if model == nil {
		return &ValidationError{Issues: []Issue{{Err: fmt.Errorf("%w: nil model", domain.ErrInvalidModel)}}}
	}

	v := &ValidationError{Model: model.Name}
	add := func(warning bool, err error) {
		v.Issues = append(v.Issues, Issue{Err: err, Warning: warning})
	}

	vertices := make(map[string]bool, len(model.Vertices))
	for _, vx := range model.Vertices {
		if vertices[vx.ID] {
			add(false, fmt.Errorf("%w: duplicate vertex '%s'", domain.ErrInvalidModel, vx.ID))
		}
		vertices[vx.ID] = true
	}

	if model.Start == "" {
		add(false, fmt.Errorf("%w: no start vertex", domain.ErrInvalidModel))
	} else if !vertices[model.Start] {
		add(false, fmt.Errorf("%w: start vertex '%s' not found", domain.ErrInvalidModel, model.Start))
	}

	edges := make(map[string]bool, len(model.Edges))
	sums := make(map[string]float64)
	for _, e := range model.Edges {
		if edges[e.ID] {
			add(false, fmt.Errorf("%w: duplicate edge '%s'", domain.ErrInvalidModel, e.ID))
		}
		edges[e.ID] = true

		if !vertices[e.Source] {
			add(false, fmt.Errorf("%w: edge '%s' leaves unknown vertex '%s'", domain.ErrInvalidModel, e.ID, e.Source))
		}
		if !vertices[e.Target] {
			add(false, fmt.Errorf("%w: edge '%s' targets unknown vertex '%s'", domain.ErrInvalidModel, e.ID, e.Target))
		}
		if e.Weight != nil {
			if *e.Weight < 0 || *e.Weight > 1 {
				add(false, fmt.Errorf("%w: edge '%s' weight %.2f is outside [0,1]", domain.ErrInvalidModelWeight, e.ID, *e.Weight))
			}
			sums[e.Source] += *e.Weight
		}
	}

	for _, vx := range model.Vertices {
		if sum, ok := sums[vx.ID]; ok && sum > 1+1e-9 {
			add(false, &domain.WeightError{Vertex: vx.ID, Sum: sum})
		}
	}

	if vertices[model.Start] {
		reached := reachable(model)
		for _, vx := range model.Vertices {
			if !reached[vx.ID] {
				add(true, fmt.Errorf("vertex '%s' is unreachable from '%s'", vx.ID, model.Start))
			}
		}
		for _, vx := range model.Vertices {
			if reached[vx.ID] && len(model.OutEdges(vx.ID)) == 0 {
				add(true, &domain.DeadEndError{Vertex: vx.ID})
			}
		}
	}

	if len(v.Issues) == 0 {
		return nil
	}
	return v
}

func reachable(model *domain.Model) map[string]bool {
	visited := map[string]bool{model.Start: true}
	queue := []string{model.Start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, e := range model.OutEdges(current) {
			if !visited[e.Target] {
				visited[e.Target] = true
				queue = append(queue, e.Target)
			}
		}
	}
	return visited
}
