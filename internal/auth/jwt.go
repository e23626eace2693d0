// Package auth issues and verifies the signed tokens that carry a
// viewer's identity (HS256 JWTs).
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/varcoaccess/varco/internal/varco/apperr"
	"github.com/varcoaccess/varco/internal/varco/types"
)

// Claims are the token claims for a logged-in viewer.  GateID is present
// only on gate-role device tokens and pins the device to its gate.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	GateID string `json:"gate_id,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token for the user with the given lifetime.
func GenerateToken(u types.User, secret string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   string(u.Role),
		GateID: u.GateID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies a token string and returns its claims.  It rejects
// bad or missing signatures, expired tokens, and any signing algorithm
// other than HMAC (guards against alg-substitution tokens).
func ParseToken(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Viewer maps verified claims onto the request viewer.  A role outside
// the closed set is Unauthorized: an old token minted before a role was
// retired must not slip through as some fourth role.
func (c *Claims) Viewer() (*types.Viewer, error) {
	role, ok := types.ParseRole(c.Role)
	if !ok {
		return nil, apperr.Newf(apperr.Unauthorized, "unknown role %q", c.Role)
	}
	return &types.Viewer{
		ID:     c.UserID,
		Email:  c.Email,
		Role:   role,
		GateID: c.GateID,
	}, nil
}
