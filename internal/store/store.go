// Package store persists user profiles keyed by email. Updates are
// field-subset merges; records are never deleted.
package store

import (
	"context"
	"errors"

	"github.com/furkancam7/lifeplan/internal/profile"
)

var (
	// ErrUserExists is returned when adding an email that is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrNotFound is returned when no profile exists for the email.
	ErrNotFound = errors.New("user not found")
)

// ProfileStore is the persistence port for user profiles.
type ProfileStore interface {
	// AddUser inserts a new profile. Fails with ErrUserExists when the
	// email is taken.
	AddUser(ctx context.Context, p *profile.Profile) error
	// GetUser loads the profile for an email, or ErrNotFound.
	GetUser(ctx context.Context, email string) (*profile.Profile, error)
	// UpdateUser merges the given fields into the stored profile. Keys are
	// the persisted field names; unknown keys and invalid values fail the
	// whole update.
	UpdateUser(ctx context.Context, email string, fields map[string]any) error
}
