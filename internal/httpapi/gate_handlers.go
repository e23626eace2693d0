package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/varcoaccess/varco/internal/varco/apperr"
	"github.com/varcoaccess/varco/internal/varco/types"
)

type gateRequest struct {
	Name         string   `json:"name"`
	RequiredDPIs []string `json:"required_dpis"`
}

func (s *Server) handleListGates(w http.ResponseWriter, r *http.Request) {
	gates, err := s.stores.Gates.GetAll(r.Context())
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gates)
}

func (s *Server) handleCreateGate(w http.ResponseWriter, r *http.Request) {
	var req gateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		s.respondErr(w, r, apperr.New(apperr.BadRequest, "name is required"))
		return
	}

	now := time.Now().UTC()
	g := types.Gate{
		ID:           types.NewID(),
		Name:         strings.TrimSpace(req.Name),
		RequiredDPIs: types.NewDPISet(req.RequiredDPIs...),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.stores.Gates.Create(r.Context(), g); err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleGetGate(w http.ResponseWriter, r *http.Request) {
	g, err := s.stores.Gates.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

type gatePatch struct {
	Name         *string   `json:"name"`
	RequiredDPIs *[]string `json:"required_dpis"`
}

func (s *Server) handleUpdateGate(w http.ResponseWriter, r *http.Request) {
	var req gatePatch
	if err := decodeJSON(r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}

	g, err := s.stores.Gates.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			s.respondErr(w, r, apperr.New(apperr.BadRequest, "name must not be empty"))
			return
		}
		g.Name = strings.TrimSpace(*req.Name)
	}
	if req.RequiredDPIs != nil {
		g.RequiredDPIs = types.NewDPISet(*req.RequiredDPIs...)
	}
	g.UpdatedAt = time.Now().UTC()

	if err := s.stores.Gates.Update(r.Context(), g); err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleDeleteGate(w http.ResponseWriter, r *http.Request) {
	if err := s.stores.Gates.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
