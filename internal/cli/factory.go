package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/adapters/badger"
	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/aretw0/turing/pkg/persistence/middleware"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/prometheus/client_golang/prometheus"
)

// Services bundles the engine and the backends a command works with.
type Services struct {
	Config  *config.Config
	Logger  *slog.Logger
	Engine  *turing.Engine
	Store   ports.SnapshotStore
	Locker  ports.RunLocker
	Metrics *observability.Metrics

	closers []func() error
}

// SetupOption tweaks how Setup builds the services.
type SetupOption func(*setupOptions)

type setupOptions struct {
	logOutput  io.Writer
	registerer prometheus.Registerer
	metrics    bool
}

// WithLogOutput sends logs to w instead of stderr.
func WithLogOutput(w io.Writer) SetupOption {
	return func(o *setupOptions) {
		o.logOutput = w
	}
}

// WithMetrics registers run metrics on reg (nil means the default registry).
func WithMetrics(reg prometheus.Registerer) SetupOption {
	return func(o *setupOptions) {
		o.metrics = true
		o.registerer = reg
	}
}

// Setup builds the services described by cfg.
func Setup(cfg *config.Config, opts ...SetupOption) (*Services, error) {
	o := setupOptions{
		logOutput: os.Stderr,
	}
	for _, opt := range opts {
		opt(&o)
	}

	logger, logFile, err := createLogger(cfg.Log, o.logOutput)
	if err != nil {
		return nil, err
	}

	svc := &Services{Config: cfg, Logger: logger}
	if logFile != nil {
		svc.closers = append(svc.closers, logFile.Close)
	}

	hooks := observability.LogHooks(logger)
	if o.metrics {
		svc.Metrics = observability.NewMetrics(o.registerer)
		hooks = hooks.Merge(svc.Metrics.Hooks())
	}

	svc.Engine, err = turing.New(
		turing.WithFixtures(),
		turing.WithLogger(logger),
		turing.WithLifecycleHooks(hooks),
	)
	if err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}

	if err := svc.createStore(cfg.Store); err != nil {
		_ = svc.Close()
		return nil, err
	}
	return svc, nil
}

func (s *Services) createStore(cfg config.StoreConfig) error {
	switch cfg.Kind {
	case "memory":
		s.Store = memory.NewStore()
		s.Locker = memory.NewLocker()
	case "file":
		s.Store = file.New(cfg.Dir)
		s.Locker = memory.NewLocker()
	case "redis":
		store := newRedisStore(cfg.Redis)
		s.Store = store
		s.Locker = redis.NewLocker(store.Client(), cfg.Redis.Prefix)
		s.closers = append(s.closers, store.Close)
	case "badger":
		store, err := badger.Open(badger.Config{
			Path:       cfg.Badger.Path,
			SyncWrites: cfg.Badger.SyncWrites,
			TTL:        cfg.Badger.TTL,
			Logger:     s.Logger.With("component", "badger"),
		})
		if err != nil {
			return err
		}
		s.Store = store
		s.Locker = memory.NewLocker()
		s.closers = append(s.closers, store.Close)
	default:
		return fmt.Errorf("unknown store kind %q", cfg.Kind)
	}

	if cfg.EncryptionKey != "" {
		mw, err := encryption(cfg)
		if err != nil {
			return err
		}
		s.Store = middleware.Chain(s.Store, mw)
	}
	s.Logger.Debug("Snapshot store ready", "kind", cfg.Kind, "encrypted", cfg.EncryptionKey != "")
	return nil
}

func encryption(cfg config.StoreConfig) (middleware.Middleware, error) {
	active, err := middleware.ParseKey(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("invalid store encryption key: %w", err)
	}
	encCfg := middleware.EncryptionConfig{ActiveKey: active}
	if cfg.PreviousKey != "" {
		previous, err := middleware.ParseKey(cfg.PreviousKey)
		if err != nil {
			return nil, fmt.Errorf("invalid previous store key: %w", err)
		}
		encCfg.FallbackKeys = [][]byte{previous}
	}
	return middleware.NewEncryptionMiddleware(encCfg), nil
}

func newRedisStore(cfg config.RedisConfig) *redis.Store {
	return redis.New(cfg.Addr, cfg.Password, cfg.DB,
		redis.WithPrefix(cfg.Prefix),
		redis.WithTTL(cfg.TTL),
	)
}

// Runner returns a runner over the engine. With persist set, runs are
// checkpointed to the configured store.
func (s *Services) Runner(persist bool, extra ...runner.Option) *runner.Runner {
	opts := []runner.Option{runner.WithCheckpointEvery(s.Config.CheckpointEvery)}
	if persist {
		opts = append(opts, runner.WithStore(s.Store), runner.WithLocker(s.Locker))
	}
	return s.Engine.NewRunner(append(opts, extra...)...)
}

// Limits returns the configured default limits.
func (s *Services) Limits() domain.Limits {
	return domain.Limits{Time: s.Config.Limits.Time, Space: s.Config.Limits.Space}
}

// MachineOptions resolves the halt order, falling back to the configured one.
func (s *Services) MachineOptions(haltOrder string) ([]machine.Option, error) {
	if haltOrder == "" {
		haltOrder = s.Config.HaltOrder
	}
	order, err := machine.ParseHaltOrder(haltOrder)
	if err != nil {
		return nil, err
	}
	return []machine.Option{machine.WithHaltOrder(order)}, nil
}

// Close releases the backends.
func (s *Services) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func createLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.NewText(w, level)
	if cfg.Format == "json" {
		logger = logging.NewJSON(w, level)
	}
	if cfg.File == "" {
		return logger, nil, nil
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return logging.NewFanout(logger, logging.NewJSON(f, level)), f, nil
}
