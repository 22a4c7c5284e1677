package server

import (
	"net/http"
)

// eventRequest is the payload for event analysis and simulation
type eventRequest struct {
	Event string `json:"event"`
}

// handleEventAnalyze handles POST /api/events/analyze
func (s *Server) handleEventAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req eventRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	analysis, err := s.app.Events.AnalyzeEvent(r.Context(), req.Event)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, analysis)
}

// handlePortfolioSimulate handles POST /api/portfolios/{id}/simulate
func (s *Server) handlePortfolioSimulate(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req eventRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := s.app.Simulations.SimulateEvent(r.Context(), id, req.Event)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}
