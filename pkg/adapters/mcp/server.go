package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hodaniel/graphwalker"
	"github.com/hodaniel/graphwalker/internal/logging"
	"github.com/hodaniel/graphwalker/internal/presentation/graph"
	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/hodaniel/graphwalker/pkg/session"
	"github.com/hodaniel/graphwalker/pkg/strategy"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SessionArgs identifies a walking session.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// CreateSessionArgs are the arguments of the create_session tool.
type CreateSessionArgs struct {
	Model      string  `json:"model"`
	Expression string  `json:"expression,omitempty"`
	Strategy   string  `json:"strategy,omitempty"`
	Seed       *uint64 `json:"seed,omitempty"`
}

// NextResponse is the result of get_next.
type NextResponse struct {
	Step      domain.Step `json:"step" jsonschema_description:"The edge walked and the vertex reached"`
	Exhausted bool        `json:"exhausted" jsonschema_description:"True when the strategy had nothing left to produce"`
}

// HasNextResponse is the result of has_next.
type HasNextResponse struct {
	HasNext bool `json:"has_next" jsonschema_description:"Whether another step can be requested"`
}

// ModelsResponse is the result of list_models.
type ModelsResponse struct {
	Models []string `json:"models"`
}

// Server wraps the session manager and exposes it as an MCP Server.
type Server struct {
	sessions  *session.Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(mgr *session.Manager, opts ...Option) *Server {
	s := &Server{
		sessions:  mgr,
		mcpServer: server.NewMCPServer("graphwalker-mcp", strings.TrimSpace(graphwalker.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
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

	// Channel to listen for errors coming from the listener.
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
	s.mcpServer.AddTool(mcp.NewTool("list_models",
		mcp.WithDescription("List the names of the models available for walking."),
		mcp.WithOutputSchema[ModelsResponse](),
	), mcp.NewStructuredToolHandler(s.handleListModels))

	s.mcpServer.AddTool(mcp.NewTool("create_session",
		mcp.WithDescription("Start a walking session on a stored model. Without a strategy, walks randomly to full edge coverage."),
		mcp.WithString("model", mcp.Required(), mcp.Description("Name of the model")),
		mcp.WithString("expression", mcp.Description("Strategy expression, e.g. 'a_star(reached_vertex(v_home)) random(edge_coverage(100))'")),
		mcp.WithString("strategy", mcp.Description("Strategy document in JSON (takes precedence over expression)")),
		mcp.WithNumber("seed", mcp.Description("Seed for reproducible random choices")),
		mcp.WithOutputSchema[session.Info](),
	), mcp.NewStructuredToolHandler(s.handleCreateSession))

	s.mcpServer.AddTool(mcp.NewTool("has_next",
		mcp.WithDescription("Report whether the session can produce another step."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[HasNextResponse](),
	), mcp.NewStructuredToolHandler(s.handleHasNext))

	s.mcpServer.AddTool(mcp.NewTool("get_next",
		mcp.WithDescription("Advance the session by one edge and return the step to execute against the system under test."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[NextResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetNext))

	s.mcpServer.AddTool(mcp.NewTool("statistics",
		mcp.WithDescription("Return the vertex and edge coverage of the session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[domain.Statistics](),
	), mcp.NewStructuredToolHandler(s.handleStatistics))

	s.mcpServer.AddTool(mcp.NewTool("delete_session",
		mcp.WithDescription("End a walking session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := request.GetString("session_id", "")
		if _, err := s.sessions.Get(ctx, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := s.sessions.Delete(ctx, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("deleted " + id), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get a Mermaid flowchart of a session's model with the walk so far highlighted."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := s.sessionGraph(ctx, request.GetString("session_id", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleListModels(ctx context.Context, _ mcp.CallToolRequest, _ struct{}) (ModelsResponse, error) {
	names, err := s.sessions.Models().List(ctx)
	if err != nil {
		return ModelsResponse{}, err
	}
	if names == nil {
		names = []string{}
	}
	return ModelsResponse{Models: names}, nil
}

func (s *Server) handleCreateSession(ctx context.Context, _ mcp.CallToolRequest, args CreateSessionArgs) (session.Info, error) {
	req := session.CreateRequest{Model: args.Model, Expression: args.Expression, Seed: args.Seed}
	if args.Strategy != "" {
		spec, err := strategy.Parse([]byte(args.Strategy), ".json")
		if err != nil {
			return session.Info{}, err
		}
		req.Strategy = &spec
	}

	info, err := s.sessions.Create(ctx, req)
	if err != nil {
		s.logger.Warn("MCP create_session rejected", "error", err, "model", args.Model)
		return session.Info{}, err
	}
	return info, nil
}

func (s *Server) handleHasNext(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (HasNextResponse, error) {
	has, err := s.sessions.HasNext(ctx, args.SessionID)
	return HasNextResponse{HasNext: has}, err
}

func (s *Server) handleGetNext(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (NextResponse, error) {
	step, err := s.sessions.Next(ctx, args.SessionID)
	if err != nil {
		return NextResponse{}, err
	}
	return NextResponse{Step: step, Exhausted: step.IsZero()}, nil
}

func (s *Server) handleStatistics(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (domain.Statistics, error) {
	return s.sessions.Statistics(ctx, args.SessionID)
}

func (s *Server) sessionGraph(ctx context.Context, id string) (string, error) {
	var out string
	err := s.sessions.WithLock(ctx, id, func(_ context.Context, w *graphwalker.Walker) error {
		out = graph.GenerateMermaid(w.Model(), graph.Overlay(w.Machine()))
		return nil
	})
	return out, err
}

func (s *Server) registerResources() {
	// EXPOSE: graphwalker://models
	s.mcpServer.AddResource(mcp.NewResource("graphwalker://models", "Stored Models",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.sessions.Models().List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list models: %w", err)
		}
		jsonBytes, _ := json.Marshal(names)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "graphwalker://models",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
