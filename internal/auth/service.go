// Package auth implements signup, login and the explicit session objects
// passed through every authenticated call boundary.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/furkancam7/lifeplan/internal/profile"
	"github.com/furkancam7/lifeplan/internal/store"
)

var (
	// ErrInvalidCredentials is returned for any login failure so callers
	// cannot distinguish unknown emails from wrong passwords.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrSessionNotFound is returned for unknown or expired session tokens.
	ErrSessionNotFound = errors.New("session not found")
)

// Service orchestrates signup and login against the profile store.
type Service struct {
	profiles store.ProfileStore
	sessions *Registry
	now      func() time.Time
}

// NewService constructs the auth service.
func NewService(profiles store.ProfileStore, sessions *Registry) *Service {
	return &Service{
		profiles: profiles,
		sessions: sessions,
		now:      time.Now,
	}
}

// WithNow lets tests control the clock.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Register creates a new user profile holding identity fields only.
func (s *Service) Register(ctx context.Context, name, email, password string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("a valid email is required")
	}
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.profiles.AddUser(ctx, profile.New(name, email, string(hash)))
}

// Login verifies credentials and opens a new session.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	p, err := s.profiles.GetUser(ctx, email)
	if err != nil {
		return Session{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.sessions.Open(p.Email, p.Name, s.now()), nil
}

// Logout closes the session for the given token. Unknown tokens are a no-op.
func (s *Service) Logout(_ context.Context, token string) {
	s.sessions.Close(token)
}

// Resolve maps a bearer token to its session.
func (s *Service) Resolve(_ context.Context, token string) (Session, error) {
	sess, ok := s.sessions.Get(token)
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return sess, nil
}
