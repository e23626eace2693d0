package httpapi

import (
	"net/http"

	"github.com/varcoaccess/varco/internal/varco/apperr"
)

type authorizationRequest struct {
	BadgeID string `json:"badge_id"`
	GateID  string `json:"gate_id"`
}

func (s *Server) handleListAuthorizations(w http.ResponseWriter, r *http.Request) {
	auths, err := s.authz.List(r.Context())
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, auths)
}

func (s *Server) handleCreateAuthorization(w http.ResponseWriter, r *http.Request) {
	var req authorizationRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}
	if req.BadgeID == "" || req.GateID == "" {
		s.respondErr(w, r, apperr.New(apperr.BadRequest, "badge_id and gate_id are required"))
		return
	}

	a, err := s.authz.Create(r.Context(), req.BadgeID, req.GateID)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleDeleteAuthorization(w http.ResponseWriter, r *http.Request) {
	err := s.authz.Delete(r.Context(), r.PathValue("badgeID"), r.PathValue("gateID"))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
