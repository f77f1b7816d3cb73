package server

import (
	"net/http"
)

// handleUserRegister handles POST /api/users. The identity header names the
// user being provisioned.
func (s *Server) handleUserRegister(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	aggregate, err := s.app.UserService.Register(r.Context(), userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, aggregate)
}

// handleUserMe handles GET and DELETE /api/users/me.
func (s *Server) handleUserMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		aggregate, err := s.app.UserService.Get(r.Context(), userID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, aggregate)
	case http.MethodDelete:
		if err := s.app.UserService.Remove(r.Context(), userID); err != nil {
			WriteServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodDelete)
	}
}
