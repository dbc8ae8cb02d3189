package client

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"laundry-booking-backend/internal/auth"
)

// Dashboard routes.
const (
	AdminDashboard = "/admin-dashboard"
	UserDashboard  = "/user-dashboard"
)

// Session is what the client knows about the logged-in user, read from the token.
type Session struct {
	UserID    int64
	Username  string
	Email     string
	FullName  string
	Apartment string
	IsAdmin   bool
	Complexes []auth.ComplexClaim
}

// Dashboard picks the landing page for the session.
func (s *Session) Dashboard() string {
	if s.IsAdmin {
		return AdminDashboard
	}
	return UserDashboard
}

// ParseSession decodes a token's claims without checking its signature.
// The server verifies every request; the client only reads the display fields.
func ParseSession(token string) (*Session, error) {
	var claims auth.Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("failed to decode session token: %w", err)
	}
	return &Session{
		UserID:    claims.UserID,
		Username:  claims.Username,
		Email:     claims.Email,
		FullName:  claims.FullName,
		Apartment: claims.Apartment,
		IsAdmin:   claims.IsAdmin,
		Complexes: claims.Complexes,
	}, nil
}
