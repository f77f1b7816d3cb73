package server

import (
	"net/http"

	"github.com/bobmcallan/mystock/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Users
	mux.HandleFunc("/api/users", s.handleUserRegister)
	mux.HandleFunc("/api/users/me", s.handleUserMe)

	// Watchlist
	mux.HandleFunc("/api/watchlist", s.handleWatchlist)
	mux.HandleFunc("/api/watchlist/reorder", s.handleWatchlistReorder)
	mux.HandleFunc("/api/watchlist/", s.routeWatchlistEntry)

	// Portfolios
	mux.HandleFunc("/api/portfolios", s.handlePortfolioList)
	mux.HandleFunc("/api/portfolios/", s.routePortfolios)

	// Market data
	mux.HandleFunc("/api/market/quote/", s.handleMarketQuote)
	mux.HandleFunc("/api/market/movers", s.handleMarketMovers)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}
