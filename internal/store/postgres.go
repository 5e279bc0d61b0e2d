package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/furkancam7/lifeplan/internal/profile"
)

// Postgres stores each profile as a jsonb document keyed by email. The
// merge semantics of UpdateUser map onto the jsonb concatenation operator.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects a pool and ensures the schema exists.
func NewPostgres(ctx context.Context, connString string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	s := &Postgres{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Postgres) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS profiles (
			email      TEXT PRIMARY KEY,
			data       JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure profiles table: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *Postgres) Close() { s.pool.Close() }

func (s *Postgres) AddUser(ctx context.Context, p *profile.Profile) error {
	cp := p.Clone()
	cp.Email = normalizeEmail(cp.Email)
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO profiles (email, data) VALUES ($1, $2) ON CONFLICT (email) DO NOTHING`,
		cp.Email, data)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserExists
	}
	return nil
}

func (s *Postgres) GetUser(ctx context.Context, email string) (*profile.Profile, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM profiles WHERE email = $1`, normalizeEmail(email)).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select profile: %w", err)
	}
	var p profile.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &p, nil
}

func (s *Postgres) UpdateUser(ctx context.Context, email string, fields map[string]any) error {
	// Run the values through Profile.Apply so postgres and memory enforce
	// the same validation, then persist the normalized patch.
	current, err := s.GetUser(ctx, email)
	if err != nil {
		return err
	}
	for field, value := range fields {
		if err := current.Apply(field, value); err != nil {
			return err
		}
	}
	patch, err := json.Marshal(current)
	if err != nil {
		return fmt.Errorf("marshal patch: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE profiles SET data = data || $2::jsonb, updated_at = now() WHERE email = $1`,
		normalizeEmail(email), patch)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
