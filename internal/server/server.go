package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/docmentor/tread/internal/store"
	"github.com/docmentor/tread/internal/tread"
)

// Server is the tread HTTP API server.
type Server struct {
	db      *store.DB
	engine  *tread.Engine
	router  chi.Router
	version string
	started time.Time
}

// New creates a new Server with the given database, engine, and
// version string.
func New(db *store.DB, engine *tread.Engine, version string) *Server {
	s := &Server{
		db:      db,
		engine:  engine,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/route", s.handleRoute)
		r.Post("/route/batch", s.handleRouteBatch)

		r.Get("/stats", s.handleStats)
		r.Post("/stats/reset", s.handleStatsReset)

		r.Get("/terms", s.handleListTerms)
		r.Post("/terms", s.handleAddTerms)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":         "ok",
		"version":        s.version,
		"uptime":         time.Since(s.started).Seconds(),
		"db":             dbOK,
		"db_path":        s.db.Path,
		"config_version": s.engine.ConfigVersion(),
	})
}
