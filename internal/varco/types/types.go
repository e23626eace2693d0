// Package types holds the domain records and wire shapes shared by the
// stores, services, and HTTP boundary.
package types

import (
	"time"

	"github.com/google/uuid"
)

// NewID returns a fresh UUID string for a gate, badge, transit, or user.
func NewID() string { return uuid.NewString() }

// ── Roles and viewers ────────────────────────────────────────────────────────

// Role is the closed set of viewer roles.  Visibility policy switches over
// it exhaustively; anything outside the three constants is treated as
// unauthorized, never as a fourth role.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGate  Role = "gate"
)

// ParseRole maps a role claim string onto the closed Role set.
// The boolean is false for anything unknown.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleUser, RoleGate:
		return Role(s), true
	default:
		return "", false
	}
}

// Viewer is the authenticated identity attached to a request by the auth
// middleware.  GateID is set only for gate-role device accounts.
type Viewer struct {
	ID     string
	Email  string
	Role   Role
	GateID string
}

// ── Records ──────────────────────────────────────────────────────────────────

// BadgeStatus is the badge lifecycle state.
type BadgeStatus string

const (
	BadgeActive    BadgeStatus = "active"
	BadgeSuspended BadgeStatus = "suspended"
)

// TransitStatus is the recorded outcome of a crossing attempt.  Aggregation
// treats any other value found in storage as a data-quality anomaly: it is
// logged and kept out of the authorized/unauthorized buckets.
type TransitStatus string

const (
	TransitAuthorized   TransitStatus = "authorized"
	TransitUnauthorized TransitStatus = "unauthorized"
)

// Gate is a physical checkpoint with a required equipment set.
type Gate struct {
	ID           string    `json:"gate_id"`
	Name         string    `json:"name"`
	RequiredDPIs DPISet    `json:"required_dpis"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Badge is a crossing credential bound to exactly one user.
type Badge struct {
	ID                  string      `json:"badge_id"`
	UserID              string      `json:"user_id"`
	Status              BadgeStatus `json:"status"`
	UnauthorizedCount   int         `json:"unauthorized_count"`
	FirstUnauthorizedAt *time.Time  `json:"first_unauthorized_at,omitempty"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// Authorization is a standing grant for a badge to cross a gate.  Its
// identity is the (BadgeID, GateID) pair; at most one grant exists per pair.
type Authorization struct {
	BadgeID   string    `json:"badge_id"`
	GateID    string    `json:"gate_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Transit is one badge-at-gate crossing attempt.  DPIViolation is
// derivable from UsedDPIs and the gate's required set at transit time, but
// is persisted so aggregation never has to re-join against gates.
type Transit struct {
	ID           string        `json:"transit_id"`
	GateID       string        `json:"gate_id"`
	BadgeID      string        `json:"badge_id"`
	Status       TransitStatus `json:"status"`
	UsedDPIs     DPISet        `json:"used_dpis"`
	DPIViolation bool          `json:"dpi_violation"`
	CreatedAt    time.Time     `json:"created_at"`
}

// User is an account that can log in.  Gate-role users are device accounts
// bound to one gate via GateID.
type User struct {
	ID           string    `json:"user_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	GateID       string    `json:"gate_id,omitempty"`
	Credit       int       `json:"credit"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ── Aggregation results ──────────────────────────────────────────────────────

// GateStat is the per-gate bucket of a single badge's statistics.
type GateStat struct {
	GateID             string `json:"gate_id"`
	AuthorizedAccess   int    `json:"authorized_access"`
	UnauthorizedAccess int    `json:"unauthorized_access"`
	DPIViolation       int    `json:"dpi_violation"`
}

// TransitStats is the per-badge statistics result.  GateStats is ordered by
// first occurrence of each gate in the underlying transit sequence.
type TransitStats struct {
	BadgeID           string     `json:"badge_id"`
	TotalAccess       int        `json:"total_access"`
	TotalDPIViolation int        `json:"total_dpi_violation"`
	GateStats         []GateStat `json:"gate_stats"`
}

// GateReportRow is one gate's line in the fleet-wide report.
type GateReportRow struct {
	GateID        string `json:"gate_id"`
	Authorized    int    `json:"authorized"`
	Unauthorized  int    `json:"unauthorized"`
	DPIViolations int    `json:"dpi_violations"`
}

// BadgeReportRow is one badge's line in the fleet-wide report, with the
// badge's lifecycle status at report time.
type BadgeReportRow struct {
	BadgeID      string      `json:"badge_id"`
	Authorized   int         `json:"authorized"`
	Unauthorized int         `json:"unauthorized"`
	Status       BadgeStatus `json:"status"`
}
