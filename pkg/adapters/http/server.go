package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Engine defines what the server needs from the machine catalog.
// *turing.Engine implements it.
type Engine interface {
	Machine(name string) (*machine.Definition, error)
	Machines() []string
	NewRunner(opts ...runner.Option) *runner.Runner
}

// RunRequest is the body of POST /machines/{name}/runs.
type RunRequest struct {
	Word       string `json:"word"`
	TimeLimit  int    `json:"time_limit,omitempty"`
	SpaceLimit int    `json:"space_limit,omitempty"`
	HaltOrder  string `json:"halt_order,omitempty"`
	RunID      string `json:"run_id,omitempty"`
}

// RunResponse is a run result plus its final configuration.
type RunResponse struct {
	*runner.Result
	Configuration string `json:"configuration,omitempty"`
}

// Server serves the machine catalog and executes runs over HTTP.
type Server struct {
	engine      Engine
	runner      *runner.Runner
	streams     *StreamManager
	maxLimits   domain.Limits
	logger      *slog.Logger
	metricsPath string
	metrics     http.Handler
	runnerOpts  []runner.Option
	limiter     *rate.Limiter
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMaxLimits caps the limits of every run. A zero field leaves that
// resource uncapped.
func WithMaxLimits(limits domain.Limits) Option {
	return func(s *Server) {
		s.maxLimits = limits
	}
}

// WithMetrics mounts a metrics handler (usually promhttp) at path.
func WithMetrics(path string, handler http.Handler) Option {
	return func(s *Server) {
		s.metricsPath = path
		s.metrics = handler
	}
}

// WithRateLimit allows at most perSecond run requests per second (new runs
// and resumes) with bursts of burst. Excess requests get 429.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *Server) {
		if perSecond > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
		}
	}
}

// WithRunnerOptions passes options (store, locker, checkpoints) to the runner
// the server drives runs with.
func WithRunnerOptions(opts ...runner.Option) Option {
	return func(s *Server) {
		s.runnerOpts = append(s.runnerOpts, opts...)
	}
}

// NewServer creates a server over engine.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:  engine,
		streams: NewStreamManager(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.streams.logger = s.logger
	runOpts := append([]runner.Option{runner.WithLogger(s.logger)}, s.runnerOpts...)
	runOpts = append(runOpts, runner.WithHooks(s.streams.Hooks()))
	s.runner = engine.NewRunner(runOpts...)
	return s
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	return NewServer(engine, opts...).Handler()
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/events", s.SubscribeEvents)

	r.Route("/machines", func(r chi.Router) {
		r.Get("/", s.ListMachines)
		r.Get("/{name}", s.DescribeMachine)
		r.Get("/{name}/graph", s.GetGraph)
		r.With(s.rateLimit).Post("/{name}/runs", s.CreateRun)
	})

	r.Route("/runs", func(r chi.Router) {
		r.Get("/", s.ListRuns)
		r.Get("/{id}", s.GetRun)
		r.Delete("/{id}", s.DeleteRun)
		r.With(s.rateLimit).Post("/{id}/resume", s.ResumeRun)
	})

	if s.metrics != nil {
		r.Handle(s.metricsPath, s.metrics)
	}

	return enableCORS(r)
}

// Streams returns the manager fanning run events out to SSE clients.
func (s *Server) Streams() *StreamManager {
	return s.streams
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimit rejects run requests beyond the configured rate.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			s.logger.Warn("run request throttled", "path", r.URL.Path)
			http.Error(w, "too many run requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":      "turing-http",
		"version":  strings.TrimSpace(turing.Version),
		"machines": len(s.engine.Machines()),
		"limits":   s.maxLimits,
	})
}

// ListMachines handles the GET /machines request.
func (s *Server) ListMachines(w http.ResponseWriter, r *http.Request) {
	names := s.engine.Machines()
	out := make([]machine.Description, 0, len(names))
	for _, name := range names {
		def, err := s.engine.Machine(name)
		if err != nil {
			s.fail(w, "ListMachines", err)
			return
		}
		out = append(out, def.Describe(name, false))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// DescribeMachine handles the GET /machines/{name} request.
func (s *Server) DescribeMachine(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	def, err := s.engine.Machine(name)
	if err != nil {
		s.fail(w, "DescribeMachine", err)
		return
	}
	s.writeJSON(w, http.StatusOK, def.Describe(name, true))
}

// GetGraph handles the GET /machines/{name}/graph request. With a "word"
// query parameter the machine is run on it first and its final state is
// highlighted.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	def, err := s.engine.Machine(name)
	if err != nil {
		s.fail(w, "GetGraph", err)
		return
	}

	var overlay *graph.GraphOverlay
	if word, ok := r.URL.Query()["word"]; ok {
		exec, err := def.Start(word[0], capLimits(domain.Limits{}, s.maxLimits))
		if err != nil {
			s.fail(w, "GetGraph", err)
			return
		}
		if err := exec.RunContext(r.Context()); err != nil {
			s.fail(w, "GetGraph", err)
			return
		}
		overlay = graph.Overlay(exec)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(def, overlay))
}

// CreateRun handles the POST /machines/{name}/runs request.
func (s *Server) CreateRun(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var body RunRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("CreateRun: Invalid request body", "error", err)
		return
	}

	var opts []machine.Option
	if body.HaltOrder != "" {
		order, err := machine.ParseHaltOrder(body.HaltOrder)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		opts = append(opts, machine.WithHaltOrder(order))
	}

	def, err := s.engine.Machine(name)
	if err != nil {
		s.fail(w, "CreateRun", err)
		return
	}
	limits := capLimits(domain.Limits{Time: body.TimeLimit, Space: body.SpaceLimit}, s.maxLimits)
	exec, err := def.Start(body.Word, limits, opts...)
	if err != nil {
		s.fail(w, "CreateRun", err)
		return
	}

	runID := body.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	res, err := s.runner.Execute(r.Context(), runID, name, exec)
	if err != nil {
		s.fail(w, "CreateRun", err)
		return
	}
	s.writeJSON(w, http.StatusOK, RunResponse{Result: res, Configuration: exec.String()})
}

// ListRuns handles the GET /runs request.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	sessions := s.runner.Sessions()
	if sessions == nil {
		http.Error(w, "No snapshot store configured", http.StatusNotImplemented)
		return
	}
	ids, err := sessions.List(r.Context())
	if err != nil {
		s.fail(w, "ListRuns", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetRun handles the GET /runs/{id} request.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	sessions := s.runner.Sessions()
	if sessions == nil {
		http.Error(w, "No snapshot store configured", http.StatusNotImplemented)
		return
	}
	snap, err := sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetRun", err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// DeleteRun handles the DELETE /runs/{id} request.
func (s *Server) DeleteRun(w http.ResponseWriter, r *http.Request) {
	sessions := s.runner.Sessions()
	if sessions == nil {
		http.Error(w, "No snapshot store configured", http.StatusNotImplemented)
		return
	}
	if err := sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, "DeleteRun", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResumeRun handles the POST /runs/{id}/resume request.
func (s *Server) ResumeRun(w http.ResponseWriter, r *http.Request) {
	if s.runner.Sessions() == nil {
		http.Error(w, "No snapshot store configured", http.StatusNotImplemented)
		return
	}
	res, err := s.runner.Resume(r.Context(), chi.URLParam(r, "id"), resolver{s.engine})
	if err != nil {
		s.fail(w, "ResumeRun", err)
		return
	}
	s.writeJSON(w, http.StatusOK, RunResponse{Result: res})
}

// SubscribeEvents handles the GET /events request (SSE). The optional
// "run_id" query parameter restricts the stream to one run.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	runID := r.URL.Query().Get("run_id")
	s.logger.Info("SSE: Subscribing to run events", "run_id", runID)

	ch, cancel := s.streams.Subscribe(runID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected")
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				s.logger.Error("SSE: event encode failed", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
			flusher.Flush()
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	code := statusCode(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
	} else {
		s.logger.Warn(op+" rejected", "error", err)
	}
	http.Error(w, fmt.Sprintf("%s error: %v", op, err), code)
}

func statusCode(err error) int {
	var symErr *domain.UnknownSymbolError
	switch {
	case errors.Is(err, domain.ErrMachineNotFound), errors.Is(err, domain.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.As(err, &symErr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidSnapshot):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// capLimits bounds requested by ceiling. Unset requests take the ceiling itself.
func capLimits(requested, ceiling domain.Limits) domain.Limits {
	return domain.Limits{
		Time:  capOne(requested.Time, ceiling.Time),
		Space: capOne(requested.Space, ceiling.Space),
	}
}

func capOne(requested, ceiling int) int {
	if ceiling > 0 && (requested <= 0 || requested > ceiling) {
		return ceiling
	}
	return requested
}

type resolver struct {
	engine Engine
}

func (r resolver) Get(name string) (*machine.Definition, error) {
	return r.engine.Machine(name)
}
