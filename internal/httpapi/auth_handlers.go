package httpapi

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/varcoaccess/varco/internal/auth"
	"github.com/varcoaccess/varco/internal/varco/apperr"
	"github.com/varcoaccess/varco/internal/varco/types"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string     `json:"token"`
	User  types.User `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		s.respondErr(w, r, apperr.New(apperr.BadRequest, "email and password are required"))
		return
	}

	// A wrong email and a wrong password produce the same response, so
	// login attempts cannot probe which accounts exist.
	u, err := s.stores.Users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			s.respondErr(w, r, apperr.New(apperr.Unauthorized, "invalid credentials"))
			return
		}
		s.respondErr(w, r, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		s.respondErr(w, r, apperr.New(apperr.Unauthorized, "invalid credentials"))
		return
	}

	token, err := auth.GenerateToken(u, s.jwtSecret, s.tokenTTL)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: u})
}
