package condition

import (
	"errors"
	"fmt"

	"github.com/hodaniel/graphwalker/pkg/ports"
	"github.com/mitchellh/mapstructure"
)

// Condition type names accepted by Build.
const (
	TypeEdgeCoverage   = "edge_coverage"
	TypeVertexCoverage = "vertex_coverage"
	TypeReachedVertex  = "reached_vertex"
	TypeReachedEdge    = "reached_edge"
	TypeEdgesWalked    = "edges_walked"
	TypeTestLength     = "test_length"
	TypeNever          = "never"
	TypeAlternative    = "alternative"
	TypeCombinational  = "combinational"
)

// ErrUnknownCondition is returned when a Spec names an unregistered type.
var ErrUnknownCondition = errors.New("unknown stop condition")

// ErrInvalidParams is returned when a Spec carries unusable parameters.
var ErrInvalidParams = errors.New("invalid stop condition parameters")

// Spec is the declarative form of a stop condition.
// Composite types list their children in Conditions.
type Spec struct {
	Type       string         `json:"type" yaml:"type"`
	Params     map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
	Conditions []Spec         `json:"conditions,omitempty" yaml:"conditions,omitempty"`
}

type coverageParams struct {
	Percent int `mapstructure:"percent"`
}

type nameParams struct {
	Name string `mapstructure:"name"`
}

type edgesParams struct {
	Edges []string `mapstructure:"edges"`
}

type lengthParams struct {
	Length int `mapstructure:"length"`
}

// Build turns spec into a stop condition measuring cov.
func Build(spec Spec, cov ports.Coverage) (ports.StopCondition, error) {
	switch spec.Type {
	case TypeEdgeCoverage, TypeVertexCoverage:
		p := coverageParams{Percent: 100}
		if err := decode(spec, &p); err != nil {
			return nil, err
		}
		if p.Percent < 1 || p.Percent > 100 {
			return nil, fmt.Errorf("%w: %s percent must be within 1..100, got %d", ErrInvalidParams, spec.Type, p.Percent)
		}
		if spec.Type == TypeEdgeCoverage {
			return EdgeCoverage(cov, p.Percent), nil
		}
		return VertexCoverage(cov, p.Percent), nil

	case TypeReachedVertex, TypeReachedEdge:
		var p nameParams
		if err := decode(spec, &p); err != nil {
			return nil, err
		}
		if p.Name == "" {
			return nil, fmt.Errorf("%w: %s requires a name", ErrInvalidParams, spec.Type)
		}
		if spec.Type == TypeReachedVertex {
			return ReachedVertex(cov, p.Name), nil
		}
		return ReachedEdge(cov, p.Name), nil

	case TypeEdgesWalked:
		var p edgesParams
		if err := decode(spec, &p); err != nil {
			return nil, err
		}
		if len(p.Edges) == 0 {
			return nil, fmt.Errorf("%w: %s requires at least one edge", ErrInvalidParams, spec.Type)
		}
		return EdgesWalked(cov, p.Edges...), nil

	case TypeTestLength:
		var p lengthParams
		if err := decode(spec, &p); err != nil {
			return nil, err
		}
		if p.Length < 1 {
			return nil, fmt.Errorf("%w: %s length must be positive, got %d", ErrInvalidParams, spec.Type, p.Length)
		}
		return TestLength(cov, p.Length), nil

	case TypeNever:
		return Never(), nil

	case TypeAlternative, TypeCombinational:
		if len(spec.Conditions) == 0 {
			return nil, fmt.Errorf("%w: %s requires nested conditions", ErrInvalidParams, spec.Type)
		}
		children := make([]ports.StopCondition, 0, len(spec.Conditions))
		for i, child := range spec.Conditions {
			c, err := Build(child, cov)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", spec.Type, i, err)
			}
			children = append(children, c)
		}
		if spec.Type == TypeAlternative {
			return Alternative(children...), nil
		}
		return Combinational(children...), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCondition, spec.Type)
	}
}

func decode(spec Spec, out any) error {
	if len(spec.Params) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(spec.Params); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidParams, spec.Type, err)
	}
	return nil
}
