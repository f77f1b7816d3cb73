package server

import (
	"net/http"
	"strings"
)

// handleMarketQuote handles GET /api/market/quote/{symbol}.
func (s *Server) handleMarketQuote(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := strings.TrimPrefix(r.URL.Path, "/api/market/quote/")
	if symbol == "" || strings.Contains(symbol, "/") {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	quote, err := s.app.QuoteService.GetQuote(r.Context(), symbol)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, quote)
}

// handleMarketMovers handles GET /api/market/movers.
func (s *Server) handleMarketMovers(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	movers, err := s.app.QuoteService.GetTopMovers(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, movers)
}
