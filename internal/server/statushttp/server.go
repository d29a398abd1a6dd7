// Package statushttp provides the serve-mode HTTP/WebSocket server:
// a REST view of the current working-tree status plus a WebSocket
// stream of status and file-change events, so a repository can be
// watched from another device.
package statushttp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/kling-igor/gitops/internal/adapters/journal"
	"github.com/kling-igor/gitops/internal/domain/events"
	"github.com/kling-igor/gitops/internal/domain/ports"
	"github.com/kling-igor/gitops/internal/domain/status"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins (configure for production)
	},
}

// Server is the serve-mode HTTP/WebSocket server.
type Server struct {
	engine         ports.Engine
	hub            ports.EventHub
	journal        *journal.Journal
	logger         *slog.Logger
	version        string
	includeIgnored bool

	addr       string
	startTime  time.Time
	httpServer *http.Server
}

// NewServer creates a serve-mode server. journal may be nil when the
// journal is disabled; the history route then reports empty.
func NewServer(
	host string,
	port int,
	engine ports.Engine,
	hub ports.EventHub,
	jnl *journal.Journal,
	logger *slog.Logger,
	version string,
	includeIgnored bool,
) *Server {
	return &Server{
		engine:         engine,
		hub:            hub,
		journal:        jnl,
		logger:         logger,
		version:        version,
		includeIgnored: includeIgnored,
		addr:           fmt.Sprintf("%s:%d", host, port),
	}
}

// Addr returns the address the server binds to.
func (s *Server) Addr() string {
	return s.addr
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.startTime = time.Now()

	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/status", s.handleStatus).Methods("GET")
	api.HandleFunc("/history", s.handleHistory).Methods("GET")

	// WebSocket endpoint for event streaming
	router.HandleFunc("/ws", s.handleWebSocket)

	// Apply CORS middleware
	handler := corsMiddleware(router)

	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Info("Starting status server", "addr", s.addr)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", "error", err)
		}
	}()

	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping status server")
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"version":        s.version,
		"uptime_seconds": int(time.Since(s.startTime).Seconds()),
	})
}

// statusPayload is the REST shape of one working-tree scan.
type statusPayload struct {
	Branch  string               `json:"branch"`
	Entries []status.StatusEntry `json:"entries"`
	Counts  map[string]int       `json:"counts"`
}

// handleStatus handles GET /api/status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	payload, err := s.scanStatus(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, payload)
}

// scanStatus runs one scan and classifies it for transport. Entries
// keep the engine's enumeration order.
func (s *Server) scanStatus(ctx context.Context) (statusPayload, error) {
	descriptors, err := s.engine.Scan(ctx, ports.ScanOptions{IncludeIgnored: s.includeIgnored})
	if err != nil {
		return statusPayload{}, err
	}

	branch, err := s.engine.HeadBranch()
	if err != nil {
		branch = ""
	}

	entries := status.Report(descriptors)
	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.Status]++
	}

	return statusPayload{Branch: branch, Entries: entries, Counts: counts}, nil
}

// handleHistory handles GET /api/history?limit=
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	var entries []journal.Entry
	if s.journal != nil {
		var err error
		entries, err = s.journal.Recent(r.Context(), s.engine.Path(), limit)
		if err != nil {
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	if entries == nil {
		entries = []journal.Entry{}
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// handleWebSocket handles WebSocket connections for event streaming.
// Each client gets a full status snapshot on connect, then every hub
// event as it happens.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade WebSocket", "error", err)
		return
	}

	client := NewClient(conn, func(id string) {
		s.hub.Unsubscribe(id)
		s.logger.Info("WebSocket client disconnected", "client_id", id)
	})
	client.Start()

	s.logger.Info("WebSocket client connected", "client_id", client.ID())

	// Snapshot before subscribing so the stream starts from a known
	// state.
	descriptors, err := s.engine.Scan(r.Context(), ports.ScanOptions{IncludeIgnored: s.includeIgnored})
	if err == nil {
		branch, _ := s.engine.HeadBranch()
		if data, err := events.NewStatusChangedEvent(branch, descriptors).ToJSON(); err == nil {
			client.Send(data)
		}
	}

	s.hub.Subscribe(NewClientSubscriber(client))
}

// respondJSON sends a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode JSON response", "error", err)
	}
}

// respondError sends an error response
func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, map[string]interface{}{
		"error": message,
	})
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		// Allow local development origins
		if strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1") {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
