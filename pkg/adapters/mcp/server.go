package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RunResponse is the structured result of the run_machine tool.
type RunResponse struct {
	RunID         string        `json:"run_id" jsonschema_description:"Identifier of the run"`
	Machine       string        `json:"machine" jsonschema_description:"Name of the machine that ran"`
	Status        domain.Status `json:"status" jsonschema_description:"Final status: accept, reject, timeout, spaceout or running"`
	State         domain.State  `json:"state" jsonschema_description:"Label of the final state"`
	Head          int           `json:"head" jsonschema_description:"Final head position"`
	Clock         domain.Clock  `json:"clock" jsonschema_description:"Steps taken and tape cells used"`
	Word          string        `json:"word" jsonschema_description:"Tape contents after the left marker, without trailing blanks"`
	Configuration string        `json:"configuration" jsonschema_description:"Tape with the state label before the head cell"`
}

// MachineList is the structured result of the list_machines tool.
type MachineList struct {
	Machines []machine.Description `json:"machines" jsonschema_description:"Registered machines"`
}

// Engine defines the interface required by the MCP server.
// *turing.Engine implements it.
type Engine interface {
	Machine(name string) (*machine.Definition, error)
	Machines() []string
	NewRunner(opts ...runner.Option) *runner.Runner
}

// Server wraps a machine catalog and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	runner    *runner.Runner
	maxLimits domain.Limits
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for tool calls.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMaxLimits caps the limits of every run_machine call.
func WithMaxLimits(limits domain.Limits) Option {
	return func(s *Server) {
		s.maxLimits = limits
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("turing-mcp", strings.TrimSpace(turing.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.runner = engine.NewRunner(runner.WithLogger(s.logger))
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when
// ctx ends.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_machines
	listTool := mcp.NewTool("list_machines",
		mcp.WithDescription("List the registered Turing machines with their alphabets and states."),
		mcp.WithOutputSchema[MachineList](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleListMachines))

	// TOOL: describe_machine
	s.mcpServer.AddTool(mcp.NewTool("describe_machine",
		mcp.WithDescription("Get the full transition table of a machine."),
		mcp.WithString("machine", mcp.Required(), mcp.Description("Machine name")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, _ := request.GetArguments()["machine"].(string)
		def, err := s.engine.Machine(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		jsonBytes, _ := json.Marshal(def.Describe(name, true))
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: run_machine
	runTool := mcp.NewTool("run_machine",
		mcp.WithDescription("Run a machine on an input word and report how it halted."),
		mcp.WithString("machine", mcp.Required(), mcp.Description("Machine name")),
		mcp.WithString("word", mcp.Required(), mcp.Description("Input word; every character must be a symbol of the machine")),
		mcp.WithNumber("time_limit", mcp.Description("Maximum number of steps (0 for none)")),
		mcp.WithNumber("space_limit", mcp.Description("Maximum number of tape cells (0 for none)")),
		mcp.WithString("halt_order", mcp.Description("\"decision\" (default) or \"move\"")),
		mcp.WithOutputSchema[RunResponse](),
	)
	s.mcpServer.AddTool(runTool, mcp.NewStructuredToolHandler(s.handleRunMachine))
}

func (s *Server) handleListMachines(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (MachineList, error) {
	names := s.engine.Machines()
	list := MachineList{Machines: make([]machine.Description, 0, len(names))}
	for _, name := range names {
		def, err := s.engine.Machine(name)
		if err != nil {
			return MachineList{}, err
		}
		list.Machines = append(list.Machines, def.Describe(name, false))
	}
	return list, nil
}

func (s *Server) handleRunMachine(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RunResponse, error) {
	name, _ := args["machine"].(string)
	word, _ := args["word"].(string)
	timeLimit, _ := args["time_limit"].(float64)
	spaceLimit, _ := args["space_limit"].(float64)

	var opts []machine.Option
	if orderName, ok := args["halt_order"].(string); ok && orderName != "" {
		order, err := machine.ParseHaltOrder(orderName)
		if err != nil {
			return RunResponse{}, err
		}
		opts = append(opts, machine.WithHaltOrder(order))
	}

	def, err := s.engine.Machine(name)
	if err != nil {
		return RunResponse{}, err
	}
	limits := capLimits(domain.Limits{Time: int(timeLimit), Space: int(spaceLimit)}, s.maxLimits)
	exec, err := def.Start(word, limits, opts...)
	if err != nil {
		s.logger.Warn("MCP run_machine: input rejected", "machine", name, "error", err)
		return RunResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	res, err := s.runner.Execute(ctx, uuid.NewString(), name, exec)
	if err != nil {
		return RunResponse{}, fmt.Errorf("run failed: %w", err)
	}

	return RunResponse{
		RunID:         res.RunID,
		Machine:       res.Machine,
		Status:        res.Status,
		State:         res.State,
		Head:          res.Head,
		Clock:         res.Clock,
		Word:          res.Word,
		Configuration: exec.String(),
	}, nil
}

// GraphURI is the resource URI of a machine's Mermaid graph.
func GraphURI(name string) string {
	return "turing://machines/" + name + "/graph"
}

func (s *Server) registerResources() {
	for _, name := range s.engine.Machines() {
		uri := GraphURI(name)
		s.mcpServer.AddResource(mcp.NewResource(uri, "Graph of "+name,
			mcp.WithMIMEType("text/plain"),
		), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			return s.readGraph(name)
		})
	}
}

func (s *Server) readGraph(name string) ([]mcp.ResourceContents, error) {
	def, err := s.engine.Machine(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load machine: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GraphURI(name),
			MIMEType: "text/plain",
			Text:     graph.GenerateMermaid(def, nil),
		},
	}, nil
}

func capLimits(requested, ceiling domain.Limits) domain.Limits {
	if ceiling.Time > 0 && (requested.Time <= 0 || requested.Time > ceiling.Time) {
		requested.Time = ceiling.Time
	}
	if ceiling.Space > 0 && (requested.Space <= 0 || requested.Space > ceiling.Space) {
		requested.Space = ceiling.Space
	}
	return requested
}
