package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"laundry-booking-backend/internal/model"
)

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid token")

// ComplexClaim describes one complex the user lives in.
type ComplexClaim struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	Zipcode int    `json:"zip"`
}

// Claims is the session carried by a token.
type Claims struct {
	UserID    int64          `json:"uid"`
	Username  string         `json:"username"`
	Email     string         `json:"email"`
	FullName  string         `json:"fullName"`
	Apartment string         `json:"apartment"`
	IsAdmin   bool           `json:"isAdmin"`
	Complexes []ComplexClaim `json:"complexes"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	secret   []byte
	ttl      time.Duration
	issuer   string
	audience string
	now      func() time.Time
}

// NewTokenService creates a token service. The secret must come from configuration.
func NewTokenService(secret string, ttl time.Duration, issuer, audience string) *TokenService {
	return &TokenService{
		secret:   []byte(secret),
		ttl:      ttl,
		issuer:   issuer,
		audience: audience,
		now:      time.Now,
	}
}

// TTL returns how long issued tokens stay valid.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for user with one claim entry per complex, in the given order.
func (s *TokenService) Issue(user model.User, complexes []model.ApartmentComplex) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		Apartment: user.Apartment,
		IsAdmin:   user.IsAdmin,
		Complexes: make([]ComplexClaim, 0, len(complexes)),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	for _, c := range complexes {
		claims.Complexes = append(claims.Complexes, ComplexClaim{
			ID:      c.ID,
			Name:    c.Name,
			Street:  c.Street,
			City:    c.City,
			Zipcode: c.Zipcode,
		})
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies signature, algorithm, expiry, issuer and audience.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
