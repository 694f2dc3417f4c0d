package api

import "net/http"

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.cfg.Metrics.Handler())

	mux.HandleFunc("POST /api/map", s.handleMap)
	mux.HandleFunc("POST /api/prune", s.handlePrune)
	mux.HandleFunc("POST /api/validate", s.handleValidate)
	mux.HandleFunc("POST /api/postman", s.handlePostman)
	mux.HandleFunc("POST /api/curl", s.handleCURL)

	mux.HandleFunc("GET /api/dataset", s.handleDataset)
}
