package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/hodaniel/graphwalker/internal/logging"
	"github.com/hodaniel/graphwalker/pkg/domain"
)

// ErrStepFailed is matched by every ExecutionError.
var ErrStepFailed = errors.New("step execution failed")

// ExecutionError reports a bound command that did not exit cleanly.
type ExecutionError struct {
	Element string
	Stderr  string
	Err     error
}

func (e *ExecutionError) Error() string {
	msg := fmt.Sprintf("'%s': %v", e.Element, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ". Stderr: " + s
	}
	return msg
}

func (e *ExecutionError) Unwrap() error { return e.Err }

func (e *ExecutionError) Is(target error) bool {
	return target == ErrStepFailed
}

// Result is the outcome of executing one step.
type Result struct {
	Outputs  []string // trimmed stdout of each command run, edge first
	Executed int
}

// Executor runs the commands bound to the edges and vertices of generated steps.
// Step data is passed as environment variables, never as command arguments.
type Executor struct {
	registry map[string]Binding
	fallback *Binding
	baseDir  string
	logger   *slog.Logger
}

// Option configures the executor.
type Option func(*Executor)

// WithConfig registers every binding of a loaded file.
func WithConfig(cfg ConfigFile) Option {
	return func(e *Executor) {
		for _, b := range cfg.Bindings {
			e.registry[b.Name] = b
		}
		e.fallback = cfg.Default
	}
}

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) Option {
	return func(e *Executor) {
		e.baseDir = dir
	}
}

// WithLogger sets the executor logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// NewExecutor creates a new step executor.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		registry: make(map[string]Binding),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register binds a command to a model element name.
func (e *Executor) Register(name string, command string, args ...string) {
	e.registry[name] = Binding{Name: name, Command: command, Args: args}
}

func (e *Executor) lookup(name string) (Binding, bool) {
	if b, ok := e.registry[name]; ok {
		return b, true
	}
	if e.fallback != nil {
		return *e.fallback, true
	}
	return Binding{}, false
}

// Execute runs the binding of the step's edge, then the binding of the vertex it reached.
// Elements without a binding are skipped. The first failing command stops the step.
func (e *Executor) Execute(ctx context.Context, n int, step domain.Step) (Result, error) {
	var res Result
	for _, element := range []struct{ kind, name string }{
		{"edge", step.Edge},
		{"vertex", step.Vertex},
	} {
		b, ok := e.lookup(element.name)
		if !ok {
			continue
		}

		env := []string{
			"GRAPHWALKER_STEP=" + strconv.Itoa(n),
			"GRAPHWALKER_EDGE=" + step.Edge,
			"GRAPHWALKER_VERTEX=" + step.Vertex,
			"GRAPHWALKER_ELEMENT=" + element.name,
			"GRAPHWALKER_KIND=" + element.kind,
		}
		for k, v := range b.Environment {
			env = append(env, k+"="+v)
		}

		out, err := e.run(ctx, b, env)
		if err != nil {
			return res, &ExecutionError{Element: element.name, Stderr: out, Err: err}
		}
		e.logger.Debug("Step executed", "step", n, "element", element.name, "command", b.Command)
		res.Outputs = append(res.Outputs, out)
		res.Executed++
	}
	return res, nil
}

// run returns trimmed stdout on success and stderr on failure.
func (e *Executor) run(ctx context.Context, b Binding, env []string) (string, error) {
	cmd := exec.CommandContext(ctx, b.Command, b.Args...)
	cmd.Dir = e.baseDir
	cmd.Env = append(cmd.Environ(), env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stderr.String(), err
	}
	return strings.TrimSpace(stdout.String()), nil
}
