package server

import (
	"net/http"
	"strings"

	"github.com/bobmcallan/mystock/internal/models"
)

// handlePortfolioList handles GET /api/portfolios.
func (s *Server) handlePortfolioList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	infos, err := s.app.PortfolioService.ListPortfolios(r.Context(), userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"portfolios": infos})
}

// routePortfolios dispatches paths under /api/portfolios/:
//
//	GET    /api/portfolios/{id}                    portfolio summary
//	POST   /api/portfolios/{id}/holdings           add holding
//	PATCH  /api/portfolios/{id}/holdings/{hid}     update holding
//	DELETE /api/portfolios/{id}/holdings/{hid}     remove holding
func (s *Server) routePortfolios(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/portfolios/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	switch {
	case len(parts) == 1 && parts[0] != "":
		s.handlePortfolioSummary(w, r, userID, parts[0])
	case len(parts) == 2 && parts[1] == "holdings":
		s.handleHoldingAdd(w, r, userID, parts[0])
	case len(parts) == 3 && parts[1] == "holdings":
		s.handleHolding(w, r, userID, parts[0], parts[2])
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

func (s *Server) handlePortfolioSummary(w http.ResponseWriter, r *http.Request, userID, portfolioID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	summary, err := s.app.PortfolioService.GetSummary(r.Context(), userID, portfolioID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

func (s *Server) handleHoldingAdd(w http.ResponseWriter, r *http.Request, userID, portfolioID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var input models.HoldingInput
	if !DecodeJSON(w, r, &input) {
		return
	}

	holding, err := s.app.PortfolioService.AddHolding(r.Context(), userID, portfolioID, input)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, holding)
}

func (s *Server) handleHolding(w http.ResponseWriter, r *http.Request, userID, portfolioID, holdingID string) {
	switch r.Method {
	case http.MethodPatch, http.MethodPut:
		var input models.HoldingUpdate
		if !DecodeJSON(w, r, &input) {
			return
		}
		holding, err := s.app.PortfolioService.UpdateHolding(r.Context(), userID, portfolioID, holdingID, input)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, holding)
	case http.MethodDelete:
		if err := s.app.PortfolioService.RemoveHolding(r.Context(), userID, portfolioID, holdingID); err != nil {
			WriteServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		RequireMethod(w, r, http.MethodPatch, http.MethodPut, http.MethodDelete)
	}
}
