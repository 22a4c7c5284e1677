package server

import (
	"net/http"
	"strings"

	"github.com/bobmcallan/hindsight/internal/models"
	"github.com/bobmcallan/hindsight/internal/services/market"
)

// handleMarketData handles GET /api/market-data?period=1y
// Returns benchmark index bars for the requested period.
func (s *Server) handleMarketData(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	period := r.URL.Query().Get("period")

	// An explicit start/end range takes precedence over a named period
	var start, end models.Date
	if from := r.URL.Query().Get("start"); from != "" {
		var err error
		if start, err = models.ParseDate(from); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		to := r.URL.Query().Get("end")
		if to == "" {
			end = models.Today()
		} else if end, err = models.ParseDate(to); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	points, err := s.app.Market.GetIndexHistory(r.Context(), period, start, end)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": s.app.Config.BenchmarkIndex,
		"period": period,
		"data":   points,
	})
}

// handleAssetSearch handles GET /api/assets/search?q=apple
func (s *Server) handleAssetSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		WriteError(w, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": s.app.Market.SearchAssets(query),
	})
}

// handleAssetHistory handles GET /api/assets/{symbol}?period=1y
func (s *Server) handleAssetHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := strings.TrimPrefix(r.URL.Path, "/api/assets/")
	if symbol == "" || strings.Contains(symbol, "/") {
		WriteError(w, http.StatusBadRequest, "Asset symbol is required in path")
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "1y"
	}
	start, end, err := market.PeriodRange(period)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	h, err := s.app.Market.GetAssetHistory(r.Context(), symbol, start, end)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	points := h.Slice(start, end)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": symbol,
		"period": period,
		"data":   points,
	})
}
