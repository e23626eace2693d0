package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/varcoaccess/varco/internal/auth"
	"github.com/varcoaccess/varco/internal/varco/types"
)

func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now().UTC()
		next.ServeHTTP(w, r)
		logger.Info("request",
			"method", r.Method, "path", r.URL.Path,
			"from", r.RemoteAddr, "dur", time.Since(start))
	})
}

// contextKey is a private type so request-context values cannot collide
// with other packages.
type contextKey struct{}

var viewerKey contextKey

// viewerFrom returns the authenticated viewer, or nil for an
// unauthenticated request.
func viewerFrom(r *http.Request) *types.Viewer {
	v, _ := r.Context().Value(viewerKey).(*types.Viewer)
	return v
}

// withAuth verifies the bearer token and stores the viewer in the
// request context.  Missing or invalid tokens stop here with 401.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid Authorization header")
			return
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "), s.jwtSecret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}
		viewer, err := claims.Viewer()
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), viewerKey, viewer)
		next(w, r.WithContext(ctx))
	}
}

// withRole allows only viewers whose role is in the given set.  Must be
// stacked inside withAuth.
func (s *Server) withRole(next http.HandlerFunc, roles ...types.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer := viewerFrom(r)
		if viewer == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		if !slices.Contains(roles, viewer.Role) {
			writeError(w, http.StatusUnauthorized, "unauthorized", "role not permitted")
			return
		}
		next(w, r)
	}
}
