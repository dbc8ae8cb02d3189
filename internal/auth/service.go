package auth

import (
	"context"
	"errors"
	"fmt"
	"log"

	"laundry-booking-backend/internal/model"
	"laundry-booking-backend/internal/store"
)

// ErrInvalidCredentials is returned for both an unknown username and a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// RegisterInput carries a new account's details with its plaintext password.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FullName  string
	UserType  string
	Apartment string
	IsAdmin   bool
	ComplexID *int64
}

// Service authenticates users against the store.
type Service struct {
	store      store.Store
	tokens     *TokenService
	bcryptCost int
}

// NewService creates an authentication service.
func NewService(s store.Store, tokens *TokenService, bcryptCost int) *Service {
	return &Service{store: s, tokens: tokens, bcryptCost: bcryptCost}
}

// Tokens returns the token service used to sign sessions.
func (s *Service) Tokens() *TokenService {
	return s.tokens
}

// Login checks the credentials and returns a signed session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Printf("Login rejected for %q: unknown user", username)
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to load user %q: %w", username, err)
	}

	if !CheckPassword(user.PasswordHash, password) {
		log.Printf("Login rejected for %q: password mismatch", username)
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.User, user.Complexes)
	if err != nil {
		return "", err
	}

	if err := s.store.TouchLastLogin(ctx, user.ID, s.tokens.now()); err != nil {
		log.Printf("Warning: failed to record last login for user %d: %v", user.ID, err)
	}
	return token, nil
}

// HashPassword hashes a plaintext password at the service's configured cost.
func (s *Service) HashPassword(password string) (string, error) {
	return HashPassword(password, s.bcryptCost)
}

// Register hashes the password and creates the user.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	return s.store.CreateUser(ctx, store.NewUser{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		UserType:     in.UserType,
		Apartment:    in.Apartment,
		IsAdmin:      in.IsAdmin,
		ComplexID:    in.ComplexID,
	})
}
