// Package http exposes a running tree over HTTP for dashboards and debugging.
package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/runner"
)

// Tree is the read side of a runner. *runner.Runner implements it.
type Tree interface {
	ID() string
	Inspect() []domain.NodeInfo
	Entries() []blackboard.Entry
	Status() runner.Status
}

var _ Tree = (*runner.Runner)(nil)

// Server serves introspection endpoints for one tree.
type Server struct {
	tree     Tree
	streams  *StreamManager
	results  *Recorder
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithGatherer mounts /metrics for g.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithRecorder shares a recorder whose hooks were registered on the tree.
func WithRecorder(rec *Recorder) Option {
	return func(s *Server) {
		s.results = rec
	}
}

// WithStreams shares a stream manager fed by StreamManager.Observe.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.streams = sm
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a server reading from tree.
func NewServer(tree Tree, opts ...Option) *Server {
	s := &Server{
		tree:    tree,
		streams: NewStreamManager(),
		results: NewRecorder(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/healthz", s.GetHealth)
	r.Get("/tree", s.GetTree)
	r.Get("/graph", s.GetGraph)
	r.Get("/status", s.GetStatus)
	r.Get("/events", s.SubscribeEvents)
	r.Route("/blackboard", func(r chi.Router) {
		r.Get("/", s.GetBlackboard)
		r.Get("/{key}", s.GetBlackboardKey)
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("response encode failed", "error", err)
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(append(data, '\n'))
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"status":  "ok",
		"tree":    s.tree.ID(),
		"version": strings.TrimSpace(arbor.Version),
	})
}

// TreeResponse is the body of GET /tree.
type TreeResponse struct {
	ID    string            `json:"id"`
	Nodes []domain.NodeInfo `json:"nodes"`
}

// GetTree handles GET /tree.
func (s *Server) GetTree(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, TreeResponse{ID: s.tree.ID(), Nodes: s.tree.Inspect()})
}

// GetGraph handles GET /graph. The last tick's results are overlaid unless ?overlay=false.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	var overlay *graph.Overlay
	if r.URL.Query().Get("overlay") != "false" {
		overlay = &graph.Overlay{States: s.results.Last()}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(s.tree.Inspect(), overlay))
}

// GetStatus handles GET /status.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.tree.Status())
}

// GetBlackboard handles GET /blackboard.
func (s *Server) GetBlackboard(w http.ResponseWriter, r *http.Request) {
	entries := s.tree.Entries()
	if entries == nil {
		entries = []blackboard.Entry{}
	}
	s.writeJSON(w, entries)
}

// GetBlackboardKey handles GET /blackboard/{key}.
func (s *Server) GetBlackboardKey(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	for _, e := range s.tree.Entries() {
		if e.Key == key {
			s.writeJSON(w, e)
			return
		}
	}
	http.Error(w, fmt.Sprintf("key %q not found", key), http.StatusNotFound)
}

// SubscribeEvents handles GET /events (SSE). Each tick is sent as a JSON status.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.streams.Subscribe(s.tree.ID())
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: tick\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
