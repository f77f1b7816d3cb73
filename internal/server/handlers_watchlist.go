package server

import (
	"net/http"
	"strings"

	"github.com/bobmcallan/mystock/internal/models"
)

// handleWatchlist handles GET /api/watchlist and POST /api/watchlist.
func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleWatchlistGet(w, r)
	case http.MethodPost:
		s.handleWatchlistAdd(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleWatchlistGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	view, err := s.app.WatchlistService.ListValued(r.Context(), userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, view)
}

func (s *Server) handleWatchlistAdd(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	var input models.WatchlistAddInput
	if !DecodeJSON(w, r, &input) {
		return
	}

	entry, err := s.app.WatchlistService.Add(r.Context(), userID, input.Symbol, input.Notes)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, entry)
}

// handleWatchlistReorder handles PUT /api/watchlist/reorder.
func (s *Server) handleWatchlistReorder(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	var input models.WatchlistReorderInput
	if !DecodeJSON(w, r, &input) {
		return
	}

	if err := s.app.WatchlistService.Reorder(r.Context(), userID, input.Symbols); err != nil {
		WriteServiceError(w, err)
		return
	}

	entries, err := s.app.WatchlistService.List(r.Context(), userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"items": entries})
}

// routeWatchlistEntry dispatches PATCH/DELETE /api/watchlist/{symbol}.
func (s *Server) routeWatchlistEntry(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimPrefix(r.URL.Path, "/api/watchlist/")
	if symbol == "" || strings.Contains(symbol, "/") {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPatch, http.MethodPut:
		var input models.WatchlistNotesInput
		if !DecodeJSON(w, r, &input) {
			return
		}
		entry, err := s.app.WatchlistService.UpdateNotes(r.Context(), userID, symbol, input.Notes)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, entry)
	case http.MethodDelete:
		if err := s.app.WatchlistService.Remove(r.Context(), userID, symbol); err != nil {
			WriteServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		RequireMethod(w, r, http.MethodPatch, http.MethodPut, http.MethodDelete)
	}
}
