package server

import (
	"net/http"

	"github.com/bobmcallan/hindsight/internal/models"
)

// portfolioRequest is the create/update payload
type portfolioRequest struct {
	Name             string         `json:"name"`
	Assets           []models.Asset `json:"assets"`
	InvestmentAmount *float64       `json:"investment_amount,omitempty"`
}

// handlePortfolioRoot handles /api/portfolios: GET lists, POST creates.
func (s *Server) handlePortfolioRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		portfolios, err := s.app.Portfolios.List(r.Context())
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"portfolios": portfolios})

	case http.MethodPost:
		var req portfolioRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		p, err := s.app.Portfolios.Create(r.Context(), req.Name, req.Assets, req.InvestmentAmount)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, p)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handlePortfolioByID handles /api/portfolios/{id}: GET, PUT, DELETE.
func (s *Server) handlePortfolioByID(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		p, err := s.app.Portfolios.Get(r.Context(), id)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, p)

	case http.MethodPut:
		var req portfolioRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		p, err := s.app.Portfolios.Update(r.Context(), id, req.Name, req.Assets, req.InvestmentAmount)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, p)

	case http.MethodDelete:
		if err := s.app.Portfolios.Delete(r.Context(), id); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// handlePortfolioPerformance handles GET /api/portfolios/{id}/performance?period=1y
func (s *Server) handlePortfolioPerformance(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	period := r.URL.Query().Get("period")
	series, summary, err := s.app.Portfolios.Performance(r.Context(), id, period)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"portfolio_id": id,
		"period":       period,
		"performance":  series,
		"metrics":      summary,
	})
}
