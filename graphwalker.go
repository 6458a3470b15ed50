package graphwalker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hodaniel/graphwalker/internal/logging"
	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/hodaniel/graphwalker/pkg/generator"
	"github.com/hodaniel/graphwalker/pkg/machine"
	"github.com/hodaniel/graphwalker/pkg/ports"
	"github.com/hodaniel/graphwalker/pkg/strategy"
)

// Walker is the high-level entry point of the library.
// It owns a machine positioned on a model and the generator strategy walking it.
// A Walker is not safe for concurrent use.
type Walker struct {
	model     *domain.Model
	machine   *machine.FiniteStateMachine
	generator *generator.Combined
	strategy  strategy.Spec
	genOpts   []generator.Option
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	Name      string
}

// Option defines a functional option for configuring the Walker.
type Option func(*Walker)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(w *Walker) {
		w.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the walker.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Walker) {
		w.logger = logger
	}
}

// WithStrategy sets the generator phases. Defaults to strategy.Default.
func WithStrategy(spec strategy.Spec) Option {
	return func(w *Walker) {
		w.strategy = spec
	}
}

// WithSeed makes random choices reproducible.
func WithSeed(seed uint64) Option {
	return func(w *Walker) {
		w.genOpts = append(w.genOpts, generator.WithSeed(seed))
	}
}

// WithStrict makes Next fail with domain.ErrExhausted once the strategy is done.
func WithStrict() Option {
	return func(w *Walker) {
		w.genOpts = append(w.genOpts, generator.Strict())
	}
}

// New creates a walker positioned on the start vertex of model.
func New(model *domain.Model, opts ...Option) (*Walker, error) {
	w := &Walker{model: model, strategy: strategy.Default()}
	for _, opt := range opts {
		opt(w)
	}

	if w.logger == nil {
		w.logger = logging.NewNop()
	}
	if model != nil && model.Name != "" {
		w.Name = model.Name
		w.logger = w.logger.With("model", w.Name)
	}

	m, err := machine.New(model, machine.WithLogger(w.logger))
	if err != nil {
		return nil, err
	}
	w.machine = m

	if err := w.build(); err != nil {
		return nil, err
	}
	return w, nil
}

// Load reads a model through loader and creates a walker for it.
func Load(ctx context.Context, loader ports.ModelLoader, opts ...Option) (*Walker, error) {
	model, err := loader.LoadModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}
	return New(model, opts...)
}

func (w *Walker) build() error {
	opts := append([]generator.Option{
		generator.WithLogger(w.logger),
		generator.WithHooks(w.hooks),
	}, w.genOpts...)

	gen, err := strategy.Build(w.strategy, w.machine, opts...)
	if err != nil {
		return fmt.Errorf("invalid strategy: %w", err)
	}
	w.generator = gen
	return nil
}

// HasNext reports whether the strategy can produce another step.
func (w *Walker) HasNext() bool {
	return w.generator.HasNext()
}

// Next advances the machine by one edge.
func (w *Walker) Next(ctx context.Context) (domain.Step, error) {
	return w.generator.GetNext(ctx)
}

// Run walks until the strategy is exhausted, calling fn after every step.
// It stops at the first error returned by the generator or by fn.
func (w *Walker) Run(ctx context.Context, fn func(domain.Step) error) error {
	for w.HasNext() {
		step, err := w.Next(ctx)
		if err != nil {
			return err
		}
		if step.IsZero() {
			return nil
		}
		if fn != nil {
			if err := fn(step); err != nil {
				return err
			}
		}
	}
	return nil
}

// Collect runs the walk and returns every step taken. On error it returns the
// steps taken so far along with the error.
func (w *Walker) Collect(ctx context.Context) ([]domain.Step, error) {
	var steps []domain.Step
	err := w.Run(ctx, func(s domain.Step) error {
		steps = append(steps, s)
		return nil
	})
	return steps, err
}

// Reset moves back to the start vertex, clears coverage and restarts the strategy.
func (w *Walker) Reset() error {
	w.machine.Reset()
	return w.build()
}

// Statistics returns the coverage accumulated so far.
func (w *Walker) Statistics() domain.Statistics {
	return w.machine.Statistics()
}

// CurrentVertex returns the current position.
func (w *Walker) CurrentVertex() domain.Vertex {
	return w.machine.CurrentVertex()
}

// History returns the real steps taken, as edge and vertex IDs.
func (w *Walker) History() []domain.Step {
	return w.machine.History()
}

// Model returns the walked model.
func (w *Walker) Model() *domain.Model {
	return w.model
}

// Machine returns the underlying machine.
func (w *Walker) Machine() *machine.FiniteStateMachine {
	return w.machine
}

// Generator returns the generator chain built from the strategy.
func (w *Walker) Generator() *generator.Combined {
	return w.generator
}

// Strategy returns the strategy the walker was built with.
func (w *Walker) Strategy() strategy.Spec {
	return w.strategy
}

// IsTerminal reports whether err ends a walk for good, as opposed to a
// cancellation the caller may retry.
func IsTerminal(err error) bool {
	return err != nil && !errors.Is(err, domain.ErrCancelled)
}
