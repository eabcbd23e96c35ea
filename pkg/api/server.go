package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/openarchive/depot/pkg/httputil"
	"github.com/openarchive/depot/pkg/observability"
	"github.com/openarchive/depot/pkg/query"
)

// Server exposes the record resources over REST
type Server struct {
	engine  *query.Engine
	logger  *observability.Logger
	metrics *observability.Metrics
	router  *mux.Router
}

// NewServer creates the API server and registers routes for every
// resource type in the engine's registry
func NewServer(engine *query.Engine, logger *observability.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		engine:  engine,
		logger:  logger,
		metrics: metrics,
		router:  mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

// Router returns the configured router
func (s *Server) Router() *mux.Router {
	return s.router
}

// setupRoutes configures the per-resource routes. Search routes are only
// registered for searchable resource types; the rest answer 405.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/openapi.json", s.openAPIDocument).Methods("GET")

	for _, name := range s.engine.Registry().Names() {
		t, err := s.engine.Registry().Describe(name)
		if err != nil {
			continue
		}

		prefix := "/" + name
		s.router.HandleFunc(prefix+"/", s.listHandler(name)).Methods("GET")

		// mux matches in registration order, so the fixed search
		// segments must precede the {uuid} route or it would capture
		// them as record keys
		if t.Searchable {
			s.router.HandleFunc(prefix+"/", s.searchHandler(name)).Methods("SEARCH")
			s.router.HandleFunc(prefix+"/search/", s.searchHandler(name)).Methods("POST")
			s.router.HandleFunc(prefix+"/new_search/", s.newSearchHandler(name)).Methods("GET")
		} else {
			s.router.HandleFunc(prefix+"/", s.searchNotSupported(name)).Methods("SEARCH")
			s.router.HandleFunc(prefix+"/search/", s.searchNotSupported(name)).Methods("POST")
			s.router.HandleFunc(prefix+"/new_search/", s.searchNotSupported(name)).Methods("GET")
		}

		s.router.HandleFunc(prefix+"/{uuid}/", s.getHandler(name)).Methods("GET")
	}
}

func (s *Server) searchNotSupported(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteMethodNotAllowed(w, "resource "+name+" is not searchable")
	}
}
