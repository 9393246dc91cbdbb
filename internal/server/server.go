package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/tannenbaum/internal/session"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Session   *session.Session
}

// Server is the HTTP front of the visual experience: it serves the viewer
// page, the scene feed, and the camera preview.
type Server struct {
	config Config
	mux    *http.ServeMux
	scene  *SceneHandler
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Session != nil {
		s.mux.HandleFunc("/api/status", s.handleStatus)

		s.scene = NewSceneHandler(s.config.Session)
		s.mux.Handle("/api/scene", s.scene)

		streamHandler := NewStreamHandler(s.config.Session.Camera())
		s.mux.Handle("/api/stream", streamHandler)
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// SceneHandler returns the scene feed handler, for pushing state
// envelopes when the session reports a gesture change.
func (s *Server) SceneHandler() *SceneHandler {
	return s.scene
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleStatus reports the session status and last gesture.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess := s.config.Session
	response := StatePayload{
		Status:      sess.Status(),
		Gesture:     sess.GestureLabel(),
		DragEnabled: sess.Scene().DragEnabled(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
