package store

import (
	"context"
	"strings"
	"sync"

	"github.com/furkancam7/lifeplan/internal/profile"
)

// Memory is an in-memory ProfileStore used in tests and single-node runs.
type Memory struct {
	mu    sync.RWMutex
	users map[string]*profile.Profile
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{users: map[string]*profile.Profile{}}
}

func (m *Memory) AddUser(_ context.Context, p *profile.Profile) error {
	email := normalizeEmail(p.Email)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[email]; ok {
		return ErrUserExists
	}
	cp := p.Clone()
	cp.Email = email
	m.users[email] = cp
	return nil
}

func (m *Memory) GetUser(_ context.Context, email string) (*profile.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.users[normalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

func (m *Memory) UpdateUser(_ context.Context, email string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.users[normalizeEmail(email)]
	if !ok {
		return ErrNotFound
	}
	// Apply on a copy first so a bad field leaves the record untouched.
	cp := p.Clone()
	for field, value := range fields {
		if err := cp.Apply(field, value); err != nil {
			return err
		}
	}
	m.users[normalizeEmail(email)] = cp
	return nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
