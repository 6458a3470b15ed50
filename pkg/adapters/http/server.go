package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/hodaniel/graphwalker"
	"github.com/hodaniel/graphwalker/internal/logging"
	"github.com/hodaniel/graphwalker/internal/presentation/graph"
	"github.com/hodaniel/graphwalker/internal/validator"
	"github.com/hodaniel/graphwalker/pkg/condition"
	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/hodaniel/graphwalker/pkg/session"
	"github.com/hodaniel/graphwalker/pkg/strategy"
)

// Server exposes the model catalog and online walking sessions over REST.
type Server struct {
	Sessions *session.Manager
	Streams  *StreamManager
	metrics  http.Handler
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates a new HTTP handler for the session manager.
func NewHandler(mgr *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		Sessions: mgr,
		Streams:  NewStreamManager(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/models", func(r chi.Router) {
		r.Get("/", s.ListModels)
		r.Post("/", s.SaveModel)
		r.Get("/{name}", s.GetModel)
		r.Delete("/{name}", s.DeleteModel)
		r.Get("/{name}/graph", s.GetModelGraph)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Get("/has-next", s.HasNext)
			r.Post("/next", s.Next)
			r.Post("/reset", s.Reset)
			r.Get("/statistics", s.Statistics)
			r.Get("/graph", s.GetSessionGraph)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	return enableCORS(r)
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

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrModelNotFound), errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidModel),
		errors.Is(err, domain.ErrInvalidModelWeight),
		errors.Is(err, domain.ErrNoPathFound),
		errors.Is(err, domain.ErrDeadEnd),
		errors.Is(err, domain.ErrExhausted),
		errors.Is(err, condition.ErrUnknownCondition),
		errors.Is(err, condition.ErrInvalidParams),
		errors.Is(err, strategy.ErrUnknownGenerator),
		errors.Is(err, validator.ErrInvalid):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrCancelled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
	} else {
		s.logger.Warn(op+" rejected", "error", err, "status", status)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "graphwalker-http",
		"version": strings.TrimSpace(graphwalker.Version),
	})
}

// ListModels handles the GET /models request.
func (s *Server) ListModels(w http.ResponseWriter, r *http.Request) {
	names, err := s.Sessions.Models().List(r.Context())
	if err != nil {
		s.writeError(w, "ListModels", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

// SaveModel handles the POST /models request.
// Models with validation errors are rejected; warnings are returned alongside the saved name.
func (s *Server) SaveModel(w http.ResponseWriter, r *http.Request) {
	var model domain.Model
	if err := json.NewDecoder(r.Body).Decode(&model); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("SaveModel: Invalid request body", "error", err)
		return
	}

	var warnings []string
	if err := validator.Validate(&model); err != nil {
		var verr *validator.ValidationError
		if !errors.As(err, &verr) || verr.HasErrors() {
			s.writeError(w, "SaveModel", err)
			return
		}
		for _, i := range verr.Issues {
			warnings = append(warnings, i.Err.Error())
		}
	}

	if err := s.Sessions.Models().Save(r.Context(), &model); err != nil {
		s.writeError(w, "SaveModel", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"name": model.Name, "warnings": warnings})
}

// GetModel handles the GET /models/{name} request.
func (s *Server) GetModel(w http.ResponseWriter, r *http.Request) {
	model, err := s.Sessions.Models().Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, "GetModel", err)
		return
	}
	writeJSON(w, http.StatusOK, model)
}

// DeleteModel handles the DELETE /models/{name} request.
func (s *Server) DeleteModel(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Models().Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, "DeleteModel", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetModelGraph handles the GET /models/{name}/graph request.
func (s *Server) GetModelGraph(w http.ResponseWriter, r *http.Request) {
	model, err := s.Sessions.Models().Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, "GetModelGraph", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(model, nil))
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Sessions.List(r.Context()))
}

// CreateSession handles the POST /sessions request.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body session.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("CreateSession: Invalid request body", "error", err)
		return
	}

	info, err := s.Sessions.Create(r.Context(), body)
	if err != nil {
		s.writeError(w, "CreateSession", err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	info, err := s.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, "GetSession", err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.Sessions.Get(r.Context(), id); err != nil {
		s.writeError(w, "DeleteSession", err)
		return
	}
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HasNext handles the GET /sessions/{id}/has-next request.
func (s *Server) HasNext(w http.ResponseWriter, r *http.Request) {
	has, err := s.Sessions.HasNext(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, "HasNext", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"has_next": has})
}

// Next handles the POST /sessions/{id}/next request.
// An exhausted strategy answers 204 No Content.
func (s *Server) Next(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	step, err := s.Sessions.Next(r.Context(), id)
	if err != nil {
		s.writeError(w, "Next", err)
		return
	}
	if step.IsZero() {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if bytes, err := json.Marshal(step); err == nil {
		s.Streams.Broadcast(id, string(bytes))
	}
	writeJSON(w, http.StatusOK, step)
}

// Reset handles the POST /sessions/{id}/reset request.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Reset(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, "Reset", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Statistics handles the GET /sessions/{id}/statistics request.
func (s *Server) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Sessions.Statistics(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, "Statistics", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetSessionGraph handles the GET /sessions/{id}/graph request, overlaying the walk so far.
func (s *Server) GetSessionGraph(w http.ResponseWriter, r *http.Request) {
	var out string
	err := s.Sessions.WithLock(r.Context(), chi.URLParam(r, "id"), func(_ context.Context, wk *graphwalker.Walker) error {
		out = graph.GenerateMermaid(wk.Model(), graph.Overlay(wk.Machine()))
		return nil
	})
	if err != nil {
		s.writeError(w, "GetSessionGraph", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, out)
}

// StreamManager handles active SSE connections
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // SessionID -> Set of Channels
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

func (sm *StreamManager) Subscribe(sessionID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

// Broadcast sends msg to every subscriber of the session.
// Slow clients with a full buffer miss the message.
func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
		}
	}
}

// SubscribeEvents handles the GET /sessions/{id}/events request (SSE).
// Every step produced through Next is pushed as a data line.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	sessionID := chi.URLParam(r, "id")
	if _, err := s.Sessions.Get(r.Context(), sessionID); err != nil {
		s.writeError(w, "SubscribeEvents", err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: step\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
