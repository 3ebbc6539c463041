// Package auth issues and validates the bearer tokens that identify admins and hosts.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
	ErrInvalidRole  = errors.New("unknown role")
	ErrMissingHost  = errors.New("host tokens require a host id")
)

// Role is what a principal is allowed to do.
type Role string

const (
	// RoleAdmin operates the platform: ledger, confirmations, commission rate.
	RoleAdmin Role = "admin"

	// RoleHost authors content and sees only their own settlements.
	RoleHost Role = "host"
)

// ParseRole validates a role name.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleHost:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// Principal is the authenticated caller.
type Principal struct {
	Role   Role
	HostID string
}

// JWTManager handles JWT token generation and validation.
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// Claims represents the custom JWT claims for a session.
type Claims struct {
	Role   Role   `json:"role"`
	HostID string `json:"host_id,omitempty"`
	jwt.RegisteredClaims
}

// NewJWTManager creates a new JWT manager with the given secret and token duration.
// secretKey should be a strong random string (e.g., 32 bytes).
// tokenDuration is how long tokens remain valid (e.g., 24 hours).
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		now:           time.Now,
	}
}

// Generate creates a new JWT token for the given principal.
func (m *JWTManager) Generate(p Principal) (string, error) {
	if err := p.validate(); err != nil {
		return "", err
	}

	now := m.now()
	claims := &Claims{
		Role:   p.Role,
		HostID: p.HostID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.subject(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Validate parses and validates a JWT token, returning the principal if valid.
func (m *JWTManager) Validate(tokenString string) (Principal, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Verify the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithTimeFunc(m.now),
	)

	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Principal{}, ErrInvalidToken
	}

	p := Principal{Role: claims.Role, HostID: claims.HostID}
	if err := p.validate(); err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return p, nil
}

func (p Principal) validate() error {
	if _, err := ParseRole(string(p.Role)); err != nil {
		return err
	}
	if p.Role == RoleHost && p.HostID == "" {
		return ErrMissingHost
	}
	return nil
}

func (p Principal) subject() string {
	if p.Role == RoleHost {
		return "host:" + p.HostID
	}
	return string(p.Role)
}
