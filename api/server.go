package api

import (
	"encoding/json"
	"net/http"

	"clipcutter/application/batch"
	"clipcutter/application/extract"
	"clipcutter/infrastructure/filesystem"
)

// Server exposes the cut and extraction operations over HTTP. Handlers own
// field-presence validation and status-code mapping; everything past that is
// delegated to the application services.
type Server struct {
	root    filesystem.Root
	batch   *batch.Orchestrator
	extract *extract.Service
	router  *http.ServeMux
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewServer creates the HTTP server and registers its routes
func NewServer(root filesystem.Root, orchestrator *batch.Orchestrator, extractor *extract.Service) *Server {
	s := &Server{
		root:    root,
		batch:   orchestrator,
		extract: extractor,
		router:  http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /shared", s.handleListShared)

	s.router.HandleFunc("POST /cut", s.handleCut)
	s.router.HandleFunc("POST /cut/segments", s.handleCutSegments)
	s.router.HandleFunc("POST /extract-audio", s.handleExtractAudio)
	s.router.HandleFunc("POST /extract-muted-video", s.handleExtractMutedVideo)
}

// Handler returns the route table for mounting into an http.Server
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, errorResponse{Error: message})
}
