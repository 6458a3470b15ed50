package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/hodaniel/graphwalker"
	"github.com/hodaniel/graphwalker/internal/logging"
	"github.com/hodaniel/graphwalker/internal/presentation/graph"
	"github.com/hodaniel/graphwalker/internal/presentation/tui"
	"github.com/hodaniel/graphwalker/pkg/adapters/process"
	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/hodaniel/graphwalker/pkg/observability"
)

// GenerateOptions configures an offline path generation run.
type GenerateOptions struct {
	ModelPath string
	Strategy  string
	Seed      *uint64
	Strict    bool
	JSON      bool // NDJSON steps instead of text lines
	Report    bool // markdown coverage report after the walk
	Graph     bool // Mermaid graph with the walk overlay after the walk
	Bindings  string // bindings file; when set, each step runs its bound commands
	Color     bool
	Output    io.Writer
	Logger    *slog.Logger
}

// RunGenerate walks the model with the chosen strategy and prints every step.
func RunGenerate(ctx context.Context, opts GenerateOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	loader, err := OpenLoader(opts.ModelPath)
	if err != nil {
		return err
	}
	spec, err := ResolveStrategy(opts.Strategy)
	if err != nil {
		return fmt.Errorf("invalid strategy: %w", err)
	}

	walkOpts := []graphwalker.Option{
		graphwalker.WithLogger(logger),
		graphwalker.WithStrategy(spec),
		graphwalker.WithLifecycleHooks(observability.Logging(logger)),
	}
	if opts.Seed != nil {
		walkOpts = append(walkOpts, graphwalker.WithSeed(*opts.Seed))
	}
	if opts.Strict {
		walkOpts = append(walkOpts, graphwalker.WithStrict())
	}

	w, err := graphwalker.Load(ctx, loader, walkOpts...)
	if err != nil {
		return err
	}

	var executor *process.Executor
	if opts.Bindings != "" {
		cfg, err := process.LoadBindings(opts.Bindings)
		if err != nil {
			return err
		}
		executor = process.NewExecutor(
			process.WithConfig(cfg),
			process.WithBaseDir(filepath.Dir(opts.Bindings)),
			process.WithLogger(logger),
		)
	}

	printer := tui.NewStepPrinter(opts.Output, opts.Color)
	enc := json.NewEncoder(opts.Output)
	n := 0
	runErr := w.Run(ctx, func(step domain.Step) error {
		n++
		if opts.JSON {
			if err := enc.Encode(step); err != nil {
				return err
			}
		} else {
			printer.Print(n, step.Edge, step.Vertex)
		}
		if executor == nil {
			return nil
		}
		if _, err := executor.Execute(ctx, n, step); err != nil {
			if !opts.JSON {
				printer.Error(err)
			}
			return err
		}
		return nil
	})
	if runErr != nil && !graphwalker.IsTerminal(runErr) {
		logger.Info("Walk interrupted", "steps", n)
	}

	if opts.Report {
		md := tui.Report(w.Name, w.Generator().String(), w.Statistics(), w.History())
		if opts.Color {
			if rendered, err := tui.NewRenderer()(md); err == nil {
				md = rendered
			}
		}
		fmt.Fprint(opts.Output, md)
	}
	if opts.Graph {
		fmt.Fprint(opts.Output, graph.GenerateMermaid(w.Model(), graph.Overlay(w.Machine())))
	}

	return HandleExecutionError(runErr)
}
