package httpapi

import (
	"net/http"

	"github.com/varcoaccess/varco/internal/varco/apperr"
	"github.com/varcoaccess/varco/internal/varco/service"
	"github.com/varcoaccess/varco/internal/varco/types"
)

type transitRequest struct {
	BadgeID  string   `json:"badge_id"`
	UsedDPIs []string `json:"used_dpis"`
}

// handleRecordTransit is called by gate devices.  The gate is taken from
// the device's token, never from the request body, so a device cannot
// record crossings for another gate.
func (s *Server) handleRecordTransit(w http.ResponseWriter, r *http.Request) {
	viewer := viewerFrom(r)
	if viewer.GateID == "" {
		s.respondErr(w, r, apperr.New(apperr.BadRequest, "token is not bound to a gate"))
		return
	}

	var req transitRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}
	if req.BadgeID == "" {
		s.respondErr(w, r, apperr.New(apperr.BadRequest, "badge_id is required"))
		return
	}

	res, err := s.transits.Record(r.Context(), viewer.GateID, req.BadgeID, types.NewDPISet(req.UsedDPIs...))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleGetTransit(w http.ResponseWriter, r *http.Request) {
	t, err := s.authz.VisibleTransit(r.Context(), viewerFrom(r), r.PathValue("id"))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type transitPatch struct {
	Status   *string   `json:"status"`
	UsedDPIs *[]string `json:"used_dpis"`
}

func (s *Server) handleCorrectTransit(w http.ResponseWriter, r *http.Request) {
	var req transitPatch
	if err := decodeJSON(r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}

	var patch service.CorrectionPatch
	if req.Status != nil {
		st := types.TransitStatus(*req.Status)
		patch.Status = &st
	}
	if req.UsedDPIs != nil {
		set := types.NewDPISet(*req.UsedDPIs...)
		patch.UsedDPIs = &set
	}

	t, err := s.transits.Correct(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
