package turing

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/fixtures"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/aretw0/turing/pkg/registry"
	"github.com/aretw0/turing/pkg/runner"
)

// Engine is the high-level entry point for the library.
// It owns a registry of named machines and the defaults every run shares.
type Engine struct {
	registry *registry.Registry
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	errs     []error
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithFixtures registers the bundled machines (minimal, last-symbol, even-ones, runaway).
func WithFixtures() Option {
	return func(e *Engine) {
		for name, def := range fixtures.All() {
			e.register(name, def)
		}
	}
}

// WithMachine registers a custom machine under name.
func WithMachine(name string, def *machine.Definition) Option {
	return func(e *Engine) {
		e.register(name, def)
	}
}

// WithLifecycleHooks registers observability hooks passed on to runners.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine. It fails if a machine option was given an empty
// name or a nil definition.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		registry: registry.NewRegistry(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if len(e.errs) > 0 {
		return nil, fmt.Errorf("turing: %w", e.errs[0])
	}
	return e, nil
}

func (e *Engine) register(name string, def *machine.Definition) {
	if err := e.registry.Register(name, def); err != nil {
		e.errs = append(e.errs, err)
	}
}

// Start encodes word for the named machine and returns a running execution.
func (e *Engine) Start(name, word string, limits domain.Limits, opts ...machine.Option) (*machine.Execution, error) {
	def, err := e.registry.Get(name)
	if err != nil {
		return nil, err
	}
	exec, err := def.Start(word, limits, opts...)
	if err != nil {
		return nil, fmt.Errorf("machine %q: %w", name, err)
	}
	e.logger.Debug("Execution started", "machine", name, "length", exec.Len()-1)
	return exec, nil
}

// Machine returns the named definition.
func (e *Engine) Machine(name string) (*machine.Definition, error) {
	return e.registry.Get(name)
}

// Machines returns the registered names in lexical order.
func (e *Engine) Machines() []string {
	return e.registry.Names()
}

// Registry exposes the engine's machines, e.g. as a runner.Resolver.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *slog.Logger {
	return e.logger
}

// Hooks returns the lifecycle hooks registered on the engine.
func (e *Engine) Hooks() domain.LifecycleHooks {
	return e.hooks
}

// NewRunner creates a runner that inherits the engine's logger and hooks.
// Options are applied after the inherited ones.
func (e *Engine) NewRunner(opts ...runner.Option) *runner.Runner {
	base := []runner.Option{
		runner.WithLogger(e.logger),
		runner.WithHooks(e.hooks),
	}
	return runner.NewRunner(append(base, opts...)...)
}
