package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/varcoaccess/varco/internal/varco/service"
	"github.com/varcoaccess/varco/internal/varco/store"
	"github.com/varcoaccess/varco/internal/varco/types"
)

type Dependencies struct {
	Logger    *slog.Logger
	Addr      string
	JWTSecret string
	TokenTTL  time.Duration

	Stores         store.Stores
	Authorizations *service.AuthorizationService
	Transits       *service.TransitService
	Stats          *service.StatsService
}

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	mux        *http.ServeMux

	jwtSecret string
	tokenTTL  time.Duration

	stores   store.Stores
	authz    *service.AuthorizationService
	transits *service.TransitService
	stats    *service.StatsService
}

func NewServer(d Dependencies) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger:    d.Logger,
		mux:       mux,
		jwtSecret: d.JWTSecret,
		tokenTTL:  d.TokenTTL,
		stores:    d.Stores,
		authz:     d.Authorizations,
		transits:  d.Transits,
		stats:     d.Stats,
	}

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return s.withAuth(s.withRole(h, types.RoleAdmin))
	}

	mux.HandleFunc("POST /v1/login", s.handleLogin)

	mux.HandleFunc("GET /v1/gates", admin(s.handleListGates))
	mux.HandleFunc("POST /v1/gates", admin(s.handleCreateGate))
	mux.HandleFunc("GET /v1/gates/{id}", admin(s.handleGetGate))
	mux.HandleFunc("PATCH /v1/gates/{id}", admin(s.handleUpdateGate))
	mux.HandleFunc("DELETE /v1/gates/{id}", admin(s.handleDeleteGate))

	mux.HandleFunc("GET /v1/badges", admin(s.handleListBadges))
	mux.HandleFunc("POST /v1/badges", admin(s.handleCreateBadge))
	mux.HandleFunc("GET /v1/badges/{id}", admin(s.handleGetBadge))
	mux.HandleFunc("PATCH /v1/badges/{id}", admin(s.handleUpdateBadge))
	mux.HandleFunc("DELETE /v1/badges/{id}", admin(s.handleDeleteBadge))

	mux.HandleFunc("GET /v1/authorizations", admin(s.handleListAuthorizations))
	mux.HandleFunc("POST /v1/authorizations", admin(s.handleCreateAuthorization))
	mux.HandleFunc("DELETE /v1/authorizations/{badgeID}/{gateID}", admin(s.handleDeleteAuthorization))

	mux.HandleFunc("POST /v1/transits",
		s.withAuth(s.withRole(s.handleRecordTransit, types.RoleGate)))
	mux.HandleFunc("GET /v1/transits/{id}",
		s.withAuth(s.handleGetTransit))
	mux.HandleFunc("PATCH /v1/transits/{id}", admin(s.handleCorrectTransit))

	mux.HandleFunc("GET /v1/badges/{id}/stats",
		s.withAuth(s.withRole(s.handleBadgeStats, types.RoleAdmin, types.RoleUser)))

	mux.HandleFunc("GET /v1/reports/gates", admin(s.handleGateReport))
	mux.HandleFunc("GET /v1/reports/badges", admin(s.handleBadgeReport))

	handler := loggingMiddleware(d.Logger, mux)

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
