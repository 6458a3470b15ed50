package generator

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/hodaniel/graphwalker/internal/logging"
	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/hodaniel/graphwalker/pkg/ports"
)

// Option configures a generator.
type Option func(*config)

type config struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	rng    *rand.Rand
	strict bool
}

func newConfig(opts []Option) config {
	cfg := config{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return cfg
}

// WithLogger sets a custom logger for the generator.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHooks registers lifecycle hooks fired for real steps and finished searches.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.hooks = hooks
	}
}

// WithRand sets the random source. Inject a seeded source for reproducible walks.
func WithRand(rng *rand.Rand) Option {
	return func(c *config) {
		c.rng = rng
	}
}

// WithSeed seeds a private random source.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed)))
}

// Strict makes a Combined generator fail with domain.ErrExhausted when asked
// for a step after all children are exhausted, instead of returning an empty step.
func Strict() Option {
	return func(c *config) {
		c.strict = true
	}
}

// base holds the collaborators shared by every leaf generator.
type base struct {
	name      string
	machine   ports.Machine
	condition ports.StopCondition
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
}

func newBase(name string, cfg config) base {
	return base{name: name, logger: cfg.logger, hooks: cfg.hooks}
}

// SetMachine implements ports.PathGenerator.
func (b *base) SetMachine(m ports.Machine) { b.machine = m }

// SetStopCondition implements ports.PathGenerator.
func (b *base) SetStopCondition(c ports.StopCondition) { b.condition = c }

// Machine returns the injected machine.
func (b *base) Machine() ports.Machine { return b.machine }

// StopCondition returns the injected stop condition.
func (b *base) StopCondition() ports.StopCondition { return b.condition }

func (b *base) configured() error {
	if b.machine == nil || b.condition == nil {
		return fmt.Errorf("%w: %s needs a machine and a stop condition", domain.ErrNotConfigured, b.name)
	}
	return nil
}

func (b *base) fulfilled() bool {
	return b.condition != nil && b.condition.IsFulfilled()
}

// walk performs the real move and reports it.
func (b *base) walk(ctx context.Context, edge domain.Edge) (domain.Step, error) {
	if err := b.machine.WalkEdge(edge); err != nil {
		return domain.Step{}, err
	}
	step := domain.Step{
		Edge:   b.machine.EdgeLabel(edge),
		Vertex: b.machine.VertexLabel(),
	}
	if b.hooks.OnStep != nil {
		b.hooks.OnStep(ctx, &domain.StepEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStep},
			Generator: b.name,
			Edge:      step.Edge,
			Vertex:    step.Vertex,
		})
	}
	return step, nil
}

func cancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCancelled, err)
	}
	return nil
}

func describe(c ports.StopCondition) string {
	if c == nil {
		return ""
	}
	return fmt.Sprint(c)
}
