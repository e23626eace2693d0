package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/varcoaccess/varco/internal/auth"
	"github.com/varcoaccess/varco/internal/httpapi"
	"github.com/varcoaccess/varco/internal/varco/service"
	"github.com/varcoaccess/varco/internal/varco/store"
	"github.com/varcoaccess/varco/internal/varco/store/memory"
	"github.com/varcoaccess/varco/internal/varco/types"
)

const testSecret = "httpapi-test-secret"

// testEnv is the full dependency graph on in-memory stores, plus seeded
// accounts: an admin, a worker with a badge, and a gate with its device
// account.
type testEnv struct {
	ts     *httptest.Server
	stores store.Stores

	admin  types.User
	worker types.User
	device types.User
	gate   types.Gate
	badge  types.Badge
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	authzSvc := service.NewAuthorizationService(st, logger)
	transitSvc := service.NewTransitService(st, service.SuspensionPolicy{
		Threshold: 3,
		Window:    24 * time.Hour,
	}, logger)
	statsSvc := service.NewStatsService(st, logger)

	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:         logger,
		Addr:           ":0",
		JWTSecret:      testSecret,
		TokenTTL:       time.Hour,
		Stores:         st,
		Authorizations: authzSvc,
		Transits:       transitSvc,
		Stats:          statsSvc,
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	env := &testEnv{ts: ts, stores: st}
	env.seed(t)
	return env
}

func (e *testEnv) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	e.gate = types.Gate{
		ID: types.NewID(), Name: "north-gate",
		RequiredDPIs: types.NewDPISet("helmet", "vest"),
		CreatedAt:    now, UpdatedAt: now,
	}
	if err := e.stores.Gates.Create(ctx, e.gate); err != nil {
		t.Fatalf("seed gate: %v", err)
	}

	e.admin = types.User{
		ID: types.NewID(), Email: "admin@varco.local", PasswordHash: string(hash),
		Role: types.RoleAdmin, CreatedAt: now, UpdatedAt: now,
	}
	e.worker = types.User{
		ID: types.NewID(), Email: "worker@varco.local", PasswordHash: string(hash),
		Role: types.RoleUser, CreatedAt: now, UpdatedAt: now,
	}
	e.device = types.User{
		ID: types.NewID(), Email: "north-gate@varco.local", PasswordHash: string(hash),
		Role: types.RoleGate, GateID: e.gate.ID, CreatedAt: now, UpdatedAt: now,
	}
	for _, u := range []types.User{e.admin, e.worker, e.device} {
		if err := e.stores.Users.Create(ctx, u); err != nil {
			t.Fatalf("seed user %s: %v", u.Email, err)
		}
	}

	e.badge = types.Badge{
		ID: types.NewID(), UserID: e.worker.ID, Status: types.BadgeActive,
		CreatedAt: now, UpdatedAt: now,
	}
	if err := e.stores.Badges.Create(ctx, e.badge); err != nil {
		t.Fatalf("seed badge: %v", err)
	}
}

func (e *testEnv) token(t *testing.T, u types.User) string {
	t.Helper()
	tok, err := auth.GenerateToken(u, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("token for %s: %v", u.Email, err)
	}
	return tok
}

// do issues a request with an optional bearer token and JSON body.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, e.ts.URL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestLogin_OK(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodPost, "/v1/login", "", map[string]string{
		"email": "admin@varco.local", "password": "hunter2",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody[struct {
		Token string     `json:"token"`
		User  types.User `json:"user"`
	}](t, resp)
	if body.Token == "" {
		t.Fatal("expected a token")
	}
	if body.User.Email != "admin@varco.local" {
		t.Errorf("expected the logged-in user, got %q", body.User.Email)
	}

	claims, err := auth.ParseToken(body.Token, testSecret)
	if err != nil {
		t.Fatalf("returned token does not verify: %v", err)
	}
	if claims.Role != "admin" {
		t.Errorf("expected admin role claim, got %q", claims.Role)
	}
}

func TestLogin_WrongPassword_401(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodPost, "/v1/login", "", map[string]string{
		"email": "admin@varco.local", "password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestLogin_UnknownEmail_SameResponseAsWrongPassword(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodPost, "/v1/login", "", map[string]string{
		"email": "nobody@varco.local", "password": "hunter2",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown account, got %d", resp.StatusCode)
	}
}

// ── Auth boundary ────────────────────────────────────────────────────────────

func TestGates_RequireAuth(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodGet, "/v1/gates", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", resp.StatusCode)
	}
}

func TestGates_UserRoleForbidden(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodGet, "/v1/gates", e.token(t, e.worker), nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for non-admin role, got %d", resp.StatusCode)
	}
}

// ── Gate CRUD ────────────────────────────────────────────────────────────────

func TestGateCRUD(t *testing.T) {
	e := newTestEnv(t)
	admin := e.token(t, e.admin)

	resp := e.do(t, http.MethodPost, "/v1/gates", admin, map[string]any{
		"name": "south-gate", "required_dpis": []string{"Helmet", "helmet", "boots"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp.StatusCode)
	}
	created := decodeBody[types.Gate](t, resp)
	if created.RequiredDPIs.Join() != "helmet,boots" {
		t.Errorf("expected normalized dpis, got %v", created.RequiredDPIs)
	}

	resp = e.do(t, http.MethodGet, "/v1/gates/"+created.ID, admin, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", resp.StatusCode)
	}

	resp = e.do(t, http.MethodPatch, "/v1/gates/"+created.ID, admin, map[string]any{
		"required_dpis": []string{"gloves"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d", resp.StatusCode)
	}
	patched := decodeBody[types.Gate](t, resp)
	if patched.RequiredDPIs.Join() != "gloves" {
		t.Errorf("patch not applied: %v", patched.RequiredDPIs)
	}

	resp = e.do(t, http.MethodDelete, "/v1/gates/"+created.ID, admin, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", resp.StatusCode)
	}

	resp = e.do(t, http.MethodGet, "/v1/gates/"+created.ID, admin, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", resp.StatusCode)
	}
}

func TestGateCreate_MissingName_400(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodPost, "/v1/gates", e.token(t, e.admin), map[string]any{
		"required_dpis": []string{"helmet"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

// ── Authorizations ───────────────────────────────────────────────────────────

func TestAuthorizationLifecycle(t *testing.T) {
	e := newTestEnv(t)
	admin := e.token(t, e.admin)

	resp := e.do(t, http.MethodPost, "/v1/authorizations", admin, map[string]string{
		"badge_id": e.badge.ID, "gate_id": e.gate.ID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("grant: expected 201, got %d", resp.StatusCode)
	}

	// A duplicate grant is a conflict.
	resp = e.do(t, http.MethodPost, "/v1/authorizations", admin, map[string]string{
		"badge_id": e.badge.ID, "gate_id": e.gate.ID,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate grant: expected 409, got %d", resp.StatusCode)
	}

	resp = e.do(t, http.MethodGet, "/v1/authorizations", admin, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.StatusCode)
	}
	grants := decodeBody[[]types.Authorization](t, resp)
	if len(grants) != 1 {
		t.Fatalf("expected 1 grant, got %d", len(grants))
	}

	path := fmt.Sprintf("/v1/authorizations/%s/%s", e.badge.ID, e.gate.ID)
	resp = e.do(t, http.MethodDelete, path, admin, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("revoke: expected 204, got %d", resp.StatusCode)
	}
	resp = e.do(t, http.MethodDelete, path, admin, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second revoke: expected 404, got %d", resp.StatusCode)
	}
}

// ── Transits ─────────────────────────────────────────────────────────────────

func TestRecordTransit_GrantedFlow(t *testing.T) {
	e := newTestEnv(t)
	admin := e.token(t, e.admin)

	resp := e.do(t, http.MethodPost, "/v1/authorizations", admin, map[string]string{
		"badge_id": e.badge.ID, "gate_id": e.gate.ID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("grant: expected 201, got %d", resp.StatusCode)
	}

	resp = e.do(t, http.MethodPost, "/v1/transits", e.token(t, e.device), map[string]any{
		"badge_id": e.badge.ID, "used_dpis": []string{"helmet", "vest"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("record: expected 201, got %d", resp.StatusCode)
	}
	res := decodeBody[service.RecordResult](t, resp)
	if !res.Granted || res.Reason != service.ReasonGranted {
		t.Errorf("expected granted crossing, got %+v", res)
	}
	if res.Transit.GateID != e.gate.ID {
		t.Errorf("transit must be pinned to the device's gate, got %q", res.Transit.GateID)
	}
}

func TestRecordTransit_DPIViolationDenied(t *testing.T) {
	e := newTestEnv(t)
	admin := e.token(t, e.admin)

	resp := e.do(t, http.MethodPost, "/v1/authorizations", admin, map[string]string{
		"badge_id": e.badge.ID, "gate_id": e.gate.ID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("grant: expected 201, got %d", resp.StatusCode)
	}

	resp = e.do(t, http.MethodPost, "/v1/transits", e.token(t, e.device), map[string]any{
		"badge_id": e.badge.ID, "used_dpis": []string{"helmet"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("record: expected 201, got %d", resp.StatusCode)
	}
	res := decodeBody[service.RecordResult](t, resp)
	if res.Granted || res.Reason != service.ReasonDPIViolation {
		t.Errorf("expected dpi_violation denial, got %+v", res)
	}
	if !res.Transit.DPIViolation {
		t.Error("expected the violation flag on the transit")
	}
}

func TestRecordTransit_AdminRoleRejected(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodPost, "/v1/transits", e.token(t, e.admin), map[string]any{
		"badge_id": e.badge.ID,
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a non-device token, got %d", resp.StatusCode)
	}
}

func TestGetTransit_Visibility(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodPost, "/v1/transits", e.token(t, e.device), map[string]any{
		"badge_id": e.badge.ID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("record: expected 201, got %d", resp.StatusCode)
	}
	res := decodeBody[service.RecordResult](t, resp)
	path := "/v1/transits/" + res.Transit.ID

	// Admin and the badge owner can read it.
	if resp := e.do(t, http.MethodGet, path, e.token(t, e.admin), nil); resp.StatusCode != http.StatusOK {
		t.Errorf("admin read: expected 200, got %d", resp.StatusCode)
	}
	if resp := e.do(t, http.MethodGet, path, e.token(t, e.worker), nil); resp.StatusCode != http.StatusOK {
		t.Errorf("owner read: expected 200, got %d", resp.StatusCode)
	}

	// The device account cannot.
	if resp := e.do(t, http.MethodGet, path, e.token(t, e.device), nil); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("device read: expected 401, got %d", resp.StatusCode)
	}
}

func TestCorrectTransit_AdminOnly(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodPost, "/v1/transits", e.token(t, e.device), map[string]any{
		"badge_id": e.badge.ID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("record: expected 201, got %d", resp.StatusCode)
	}
	res := decodeBody[service.RecordResult](t, resp)
	path := "/v1/transits/" + res.Transit.ID

	resp = e.do(t, http.MethodPatch, path, e.token(t, e.worker), map[string]string{
		"status": "authorized",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("worker patch: expected 401, got %d", resp.StatusCode)
	}

	resp = e.do(t, http.MethodPatch, path, e.token(t, e.admin), map[string]string{
		"status": "authorized",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin patch: expected 200, got %d", resp.StatusCode)
	}
	patched := decodeBody[types.Transit](t, resp)
	if patched.Status != types.TransitAuthorized {
		t.Errorf("expected corrected status, got %q", patched.Status)
	}
}

// ── Stats ────────────────────────────────────────────────────────────────────

func TestBadgeStats_OwnerAndAdmin(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodPost, "/v1/transits", e.token(t, e.device), map[string]any{
		"badge_id": e.badge.ID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("record: expected 201, got %d", resp.StatusCode)
	}

	path := "/v1/badges/" + e.badge.ID + "/stats"

	resp = e.do(t, http.MethodGet, path, e.token(t, e.admin), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin stats: expected 200, got %d", resp.StatusCode)
	}
	stats := decodeBody[types.TransitStats](t, resp)
	if stats.TotalAccess != 1 {
		t.Errorf("expected 1 access, got %d", stats.TotalAccess)
	}

	resp = e.do(t, http.MethodGet, path, e.token(t, e.worker), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner stats: expected 200, got %d", resp.StatusCode)
	}
}

func TestBadgeStats_OtherUsersBadge_404(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	other := types.User{
		ID: types.NewID(), Email: "other@varco.local", PasswordHash: "x",
		Role: types.RoleUser, CreatedAt: now, UpdatedAt: now,
	}
	if err := e.stores.Users.Create(ctx, other); err != nil {
		t.Fatalf("seed other user: %v", err)
	}

	resp := e.do(t, http.MethodGet, "/v1/badges/"+e.badge.ID+"/stats", e.token(t, other), nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for a foreign badge, got %d", resp.StatusCode)
	}
}

func TestBadgeStats_InvalidDate_400(t *testing.T) {
	e := newTestEnv(t)

	path := "/v1/badges/" + e.badge.ID + "/stats?start=not-a-date"
	resp := e.do(t, http.MethodGet, path, e.token(t, e.admin), nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestBadgeStats_InvertedWindow_400(t *testing.T) {
	e := newTestEnv(t)

	path := "/v1/badges/" + e.badge.ID + "/stats?start=2026-02-01&end=2026-01-01"
	resp := e.do(t, http.MethodGet, path, e.token(t, e.admin), nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

// ── Reports ──────────────────────────────────────────────────────────────────

func TestGateReport_JSONDefault(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodPost, "/v1/transits", e.token(t, e.device), map[string]any{
		"badge_id": e.badge.ID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("record: expected 201, got %d", resp.StatusCode)
	}

	resp = e.do(t, http.MethodGet, "/v1/reports/gates", e.token(t, e.admin), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
	rows := decodeBody[[]types.GateReportRow](t, resp)
	if len(rows) != 1 || rows[0].GateID != e.gate.ID {
		t.Errorf("unexpected rows: %+v", rows)
	}
}

func TestGateReport_CSVAttachment(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodGet, "/v1/reports/gates?format=csv", e.token(t, e.admin), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("expected csv content type, got %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != `attachment; filename="gate_report.csv"` {
		t.Errorf("unexpected disposition %q", cd)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	// No transits yet: header plus the placeholder record.
	if !bytes.Contains(body, []byte("No data available")) {
		t.Errorf("expected the no-data placeholder, got %q", body)
	}
}

func TestBadgeReport_PDFAttachment(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodGet, "/v1/reports/badges?format=pdf", e.token(t, e.admin), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", ct)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !bytes.HasPrefix(body, []byte("%PDF")) {
		t.Error("expected a PDF document body")
	}
}

func TestReports_UnknownFormat_400(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodGet, "/v1/reports/gates?format=xlsx", e.token(t, e.admin), nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestReports_AdminOnly(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodGet, "/v1/reports/gates", e.token(t, e.worker), nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for non-admin, got %d", resp.StatusCode)
	}
}
