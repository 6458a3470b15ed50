// Package strategy builds multi-phase walks from a declarative description.
//
// A strategy is an ordered list of phases. Each phase names a generator and the
// stop condition that ends it; phases run one after the other on the same
// machine through a generator.Combined.
package strategy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hodaniel/graphwalker/pkg/condition"
	"github.com/hodaniel/graphwalker/pkg/generator"
	"github.com/hodaniel/graphwalker/pkg/ports"
	"gopkg.in/yaml.v3"
)

// Generator names accepted in a Phase.
const (
	GeneratorAStar  = "a_star"
	GeneratorRandom = "random"
)

// ErrUnknownGenerator is returned when a phase names an unregistered generator.
var ErrUnknownGenerator = errors.New("unknown generator")

// Phase is one generator bounded by one stop condition.
type Phase struct {
	Generator     string         `json:"generator" yaml:"generator"`
	StopCondition condition.Spec `json:"stop_condition" yaml:"stop_condition"`
}

// Spec describes a strategy.
type Spec struct {
	Name   string  `json:"name,omitempty" yaml:"name,omitempty"`
	Phases []Phase `json:"phases" yaml:"phases"`
}

// Target is what a strategy walks: a machine that also exposes coverage.
type Target interface {
	ports.Machine
	ports.Coverage
}

// Default walks randomly until every edge was visited.
func Default() Spec {
	return Spec{
		Name: "default",
		Phases: []Phase{{
			Generator:     GeneratorRandom,
			StopCondition: condition.Spec{Type: condition.TypeEdgeCoverage, Params: map[string]any{"percent": 100}},
		}},
	}
}

// Load reads a strategy file (YAML or JSON, chosen by extension).
func Load(path string) (Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("failed to read strategy: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes a strategy. ext selects the format; anything but ".json" is YAML.
func Parse(data []byte, ext string) (Spec, error) {
	var spec Spec
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &spec); err != nil {
			return Spec{}, fmt.Errorf("failed to parse strategy json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return Spec{}, fmt.Errorf("failed to parse strategy yaml: %w", err)
		}
	}
	if len(spec.Phases) == 0 {
		return Spec{}, fmt.Errorf("strategy %q has no phases", spec.Name)
	}
	return spec, nil
}

// Build wires every phase to target and chains them. opts are applied to
// every generator, the Combined one included.
func Build(spec Spec, target Target, opts ...generator.Option) (*generator.Combined, error) {
	children := make([]ports.PathGenerator, 0, len(spec.Phases))
	for i, phase := range spec.Phases {
		gen, err := newGenerator(phase.Generator, opts)
		if err != nil {
			return nil, fmt.Errorf("phase %d: %w", i, err)
		}
		cond, err := condition.Build(phase.StopCondition, target)
		if err != nil {
			return nil, fmt.Errorf("phase %d: %w", i, err)
		}
		gen.SetMachine(target)
		gen.SetStopCondition(cond)
		children = append(children, gen)
	}
	return generator.NewCombined(children, opts...), nil
}

func newGenerator(name string, opts []generator.Option) (ports.PathGenerator, error) {
	switch strings.ToLower(name) {
	case GeneratorAStar, "astar":
		return generator.NewAStar(opts...), nil
	case GeneratorRandom:
		return generator.NewRandom(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGenerator, name)
	}
}
