package httpapi

import (
	"net/http"
	"time"

	"github.com/varcoaccess/varco/internal/varco/apperr"
	"github.com/varcoaccess/varco/internal/varco/types"
)

type badgeRequest struct {
	UserID string `json:"user_id"`
}

func (s *Server) handleListBadges(w http.ResponseWriter, r *http.Request) {
	badges, err := s.stores.Badges.GetAll(r.Context())
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, badges)
}

func (s *Server) handleCreateBadge(w http.ResponseWriter, r *http.Request) {
	var req badgeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}
	if req.UserID == "" {
		s.respondErr(w, r, apperr.New(apperr.BadRequest, "user_id is required"))
		return
	}
	if _, err := s.stores.Users.Get(r.Context(), req.UserID); err != nil {
		s.respondErr(w, r, err)
		return
	}

	now := time.Now().UTC()
	b := types.Badge{
		ID:        types.NewID(),
		UserID:    req.UserID,
		Status:    types.BadgeActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.stores.Badges.Create(r.Context(), b); err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleGetBadge(w http.ResponseWriter, r *http.Request) {
	b, err := s.stores.Badges.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

type badgePatch struct {
	Status *string `json:"status"`
}

// handleUpdateBadge is how an admin reactivates a suspended badge: setting
// status back to active also clears the unauthorized-attempt counter.
func (s *Server) handleUpdateBadge(w http.ResponseWriter, r *http.Request) {
	var req badgePatch
	if err := decodeJSON(r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}

	b, err := s.stores.Badges.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	if req.Status != nil {
		switch types.BadgeStatus(*req.Status) {
		case types.BadgeActive:
			b.Status = types.BadgeActive
			b.UnauthorizedCount = 0
			b.FirstUnauthorizedAt = nil
		case types.BadgeSuspended:
			b.Status = types.BadgeSuspended
		default:
			s.respondErr(w, r, apperr.Newf(apperr.BadRequest, "invalid badge status %q", *req.Status))
			return
		}
	}
	b.UpdatedAt = time.Now().UTC()

	if err := s.stores.Badges.Update(r.Context(), b); err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBadge(w http.ResponseWriter, r *http.Request) {
	if err := s.stores.Badges.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleBadgeStats serves per-badge transit statistics.  Admins may query
// any badge; a user-role viewer only their own badge.  Any other badge ID
// answers NotFound so users cannot probe which badges exist.
func (s *Server) handleBadgeStats(w http.ResponseWriter, r *http.Request) {
	badgeID := r.PathValue("id")
	viewer := viewerFrom(r)

	if viewer.Role == types.RoleUser {
		b, err := s.stores.Badges.Get(r.Context(), badgeID)
		if err != nil {
			s.respondErr(w, r, err)
			return
		}
		if b.UserID != viewer.ID {
			s.respondErr(w, r, apperr.Newf(apperr.NotFound, "badge %s not found", badgeID))
			return
		}
	}

	q := r.URL.Query()
	start, err := parseTimeParam(q.Get("start"), false)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	end, err := parseTimeParam(q.Get("end"), true)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	stats, err := s.stats.TransitStats(r.Context(), badgeID, q.Get("gate_id"), start, end)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
