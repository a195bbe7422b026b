package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/aretw0/renfebot/internal/logging"
	"github.com/aretw0/renfebot/pkg/domain"
	"github.com/aretw0/renfebot/pkg/ports"
	"github.com/aretw0/renfebot/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBodyBytes caps the size of a posted message.
const maxBodyBytes = 64 << 10

// MessageRequest is the body of POST /chats/{chatID}/messages.
type MessageRequest struct {
	Text      string `json:"text"`
	UserID    int64  `json:"user_id,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
}

// MessageResponse lists the replies produced while handling a message.
// Search results arrive later and are fetched with GET.
type MessageResponse struct {
	Replies []Reply `json:"replies"`
}

// Server exposes the bot over HTTP: a webhook-style message endpoint backed
// by an Outbox, plus read-only views for operators.
type Server struct {
	handle       runner.HandlerFunc
	outbox       *Outbox
	sessions     ports.StateStore
	snapshot     ports.LastRequestStore
	conversation ports.Conversation
	metrics      http.Handler
	logger       *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithSessions exposes /sessions.
func WithSessions(store ports.StateStore) Option {
	return func(s *Server) {
		s.sessions = store
	}
}

// WithSnapshot exposes /last-request.
func WithSnapshot(store ports.LastRequestStore) Option {
	return func(s *Server) {
		s.snapshot = store
	}
}

// WithConversation exposes /graph.
func WithConversation(c ports.Conversation) Option {
	return func(s *Server) {
		s.conversation = c
	}
}

// WithMetrics mounts a metrics handler (e.g. promhttp) on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler. handle is usually Runner.Handle and
// outbox the Messenger the runner was built with.
func NewHandler(handle runner.HandlerFunc, outbox *Outbox, opts ...Option) http.Handler {
	s := &Server{
		handle: handle,
		outbox: outbox,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.getHealth)
	r.Route("/chats/{chatID}", func(r chi.Router) {
		r.Post("/messages", s.postMessage)
		r.Get("/messages", s.getMessages)
		r.Get("/events", s.subscribeEvents)
	})
	if s.sessions != nil {
		r.Get("/sessions", s.listSessions)
		r.Get("/sessions/{sessionID}", s.getSession)
		r.Delete("/sessions/{sessionID}", s.deleteSession)
	}
	if s.snapshot != nil {
		r.Get("/last-request", s.getLastRequest)
	}
	if s.conversation != nil {
		r.Get("/graph", s.getGraph)
	}
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// postMessage handles POST /chats/{chatID}/messages.
func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	chatID, ok := s.chatID(w, r)
	if !ok {
		return
	}

	var body MessageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
		} else {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
		}
		s.logger.Warn("postMessage: invalid request body", "err", err)
		return
	}

	msg := domain.Message{
		ChatID:    chatID,
		UserID:    body.UserID,
		Username:  body.Username,
		FirstName: body.FirstName,
		Text:      body.Text,
		SentAt:    time.Now(),
	}
	if err := s.handle(r.Context(), msg); err != nil {
		http.Error(w, fmt.Sprintf("Handle error: %v", err), http.StatusInternalServerError)
		s.logger.Error("postMessage failed", "chat_id", chatID, "err", err)
		return
	}

	s.writeJSON(w, http.StatusOK, MessageResponse{Replies: s.outbox.Drain(chatID)})
}

// getMessages handles GET /chats/{chatID}/messages.
func (s *Server) getMessages(w http.ResponseWriter, r *http.Request) {
	chatID, ok := s.chatID(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, MessageResponse{Replies: s.outbox.Drain(chatID)})
}

// subscribeEvents handles GET /chats/{chatID}/events (SSE).
func (s *Server) subscribeEvents(w http.ResponseWriter, r *http.Request) {
	chatID, ok := s.chatID(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.outbox.Subscribe(chatID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case reply, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(reply)
			if err != nil {
				s.logger.Error("SSE: failed to encode reply", "err", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// listSessions handles GET /sessions.
func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.sessions.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.logger.Error("listSessions failed", "err", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// getSession handles GET /sessions/{sessionID}.
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	state, err := s.sessions.Load(r.Context(), id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Load error: %v", err), http.StatusInternalServerError)
		s.logger.Error("getSession failed", "session_id", id, "err", err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

// deleteSession handles DELETE /sessions/{sessionID}.
func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		http.Error(w, fmt.Sprintf("Delete error: %v", err), http.StatusInternalServerError)
		s.logger.Error("deleteSession failed", "session_id", id, "err", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// getLastRequest handles GET /last-request.
func (s *Server) getLastRequest(w http.ResponseWriter, r *http.Request) {
	req, err := s.snapshot.Load(r.Context())
	if errors.Is(err, domain.ErrNoLastRequest) {
		http.Error(w, "No previous search", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Load error: %v", err), http.StatusInternalServerError)
		s.logger.Error("getLastRequest failed", "err", err)
		return
	}
	s.writeJSON(w, http.StatusOK, req)
}

// getGraph handles GET /graph.
func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	nodes, err := s.conversation.Inspect()
	if err != nil {
		http.Error(w, fmt.Sprintf("Inspect error: %v", err), http.StatusInternalServerError)
		s.logger.Error("Inspect failed", "err", err)
		return
	}
	s.writeJSON(w, http.StatusOK, nodes)
}

// getHealth handles GET /health.
func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) chatID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "chatID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid chat id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
