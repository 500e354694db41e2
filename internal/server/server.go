// Package server exposes a session over a small JSON HTTP API so a browser
// canvas can drive it.
//
// Endpoints:
//
//	GET    /health    server status
//	GET    /graph     drawable snapshot of the canvas
//	POST   /generate  {count} build a new random graph
//	POST   /nodes     {x?, y?} add a node, random position when x/y missing
//	DELETE /nodes     remove the newest node, or ?id= a specific one
//	POST   /edges     {from, to, weight?} connect two nodes
//	DELETE /edges     ?from=&to= disconnect two nodes
//	POST   /clear     empty the canvas
//	POST   /select    {start?, target?} or {x, y, role}
//	POST   /search    {algorithm} run dijkstra or astar
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/mattulau/Algo-Visualizer/internal/generator"
	"github.com/mattulau/Algo-Visualizer/internal/graph"
	"github.com/mattulau/Algo-Visualizer/internal/search"
	"github.com/mattulau/Algo-Visualizer/internal/session"
)

// DefaultGenerateTimeout bounds a /generate call whose placement cannot
// finish
const DefaultGenerateTimeout = 5 * time.Second

// Server serialises HTTP access to one session
type Server struct {
	mu   sync.Mutex
	sess *session.Session
	log  *slog.Logger

	stepDelay       time.Duration
	generateTimeout time.Duration
}

// Option configures a Server
type Option func(*Server)

// WithGenerateTimeout overrides DefaultGenerateTimeout
func WithGenerateTimeout(d time.Duration) Option {
	return func(s *Server) { s.generateTimeout = d }
}

// WithStepDelay sets the playback delay reported to clients
func WithStepDelay(d time.Duration) Option {
	return func(s *Server) { s.stepDelay = d }
}

// New wraps sess. A nil logger uses slog.Default.
func New(sess *session.Session, log *slog.Logger, opts ...Option) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		sess:            sess,
		log:             log,
		generateTimeout: DefaultGenerateTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes registers every endpoint on a new mux
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", corsMiddleware(s.healthHandler))
	mux.HandleFunc("/graph", corsMiddleware(s.graphHandler))
	mux.HandleFunc("/generate", corsMiddleware(s.generateHandler))
	mux.HandleFunc("/nodes", corsMiddleware(s.nodesHandler))
	mux.HandleFunc("/edges", corsMiddleware(s.edgesHandler))
	mux.HandleFunc("/clear", corsMiddleware(s.clearHandler))
	mux.HandleFunc("/select", corsMiddleware(s.selectHandler))
	mux.HandleFunc("/search", corsMiddleware(s.searchHandler))
	return mux
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("❌ request failed", "error", err)
	} else {
		s.log.Warn("❌ request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	})
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.log.Warn("❌ method not allowed", "method", r.Method, "path", r.URL.Path)
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}

// decodeBody reads an optional JSON body. An empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return &badRequest{err}
	}
	return nil
}

// badRequest marks client input that could not be parsed
type badRequest struct{ err error }

func (e *badRequest) Error() string { return "invalid request: " + e.err.Error() }
func (e *badRequest) Unwrap() error { return e.err }

var clientErrors = []error{
	search.ErrInvalidSelection,
	search.ErrUnknownAlgorithm,
	session.ErrUnknownRole,
	graph.ErrSelfLoop,
	graph.ErrBadWeight,
	graph.ErrBadSize,
	generator.ErrTooFewNodes,
	generator.ErrBadNodeSize,
	generator.ErrCanvasTooSmall,
	generator.ErrBadSeparation,
	generator.ErrBadDegree,
	generator.ErrBadDistance,
	generator.ErrBadWeightRange,
}

var notFoundErrors = []error{
	graph.ErrNodeNotFound,
	graph.ErrEdgeNotFound,
	graph.ErrEmpty,
	session.ErrNoNodeAt,
}

func statusFor(err error) int {
	var br *badRequest
	if errors.As(err, &br) {
		return http.StatusBadRequest
	}
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}
	switch {
	case errors.Is(err, graph.ErrDuplicateEdge):
		return http.StatusConflict
	case errors.Is(err, generator.ErrPlacementAborted):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
