// Package server provides the HTTP server and routing for the Metiseon site.
package server

import (
	"encoding/json"
	"net/http"
)

// Version is stamped at build time
var Version = "dev"

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	response := map[string]interface{}{
		"status":  "healthy",
		"version": Version,
		"service": "metiseon-site",
	}

	if s.container.LedgerDB != nil {
		if err := s.container.LedgerDB.HealthCheck(r.Context()); err != nil {
			s.log.Warn().Err(err).Msg("Ledger health check failed")
			response["status"] = "degraded"
			response["ledger"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	s.writeJSON(w, status, response)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
