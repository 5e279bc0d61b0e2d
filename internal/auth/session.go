package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session identifies who is acting. It is created at login and passed
// explicitly through call boundaries; there is no process-wide current user.
type Session struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Registry holds active sessions keyed by token. Concurrent logins for the
// same email each get their own session.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: map[string]Session{}}
}

// Open creates and stores a new session.
func (r *Registry) Open(email, name string, now time.Time) Session {
	sess := Session{
		Token:     uuid.NewString(),
		Email:     email,
		Name:      name,
		CreatedAt: now,
	}
	r.mu.Lock()
	r.sessions[sess.Token] = sess
	r.mu.Unlock()
	return sess
}

// Get looks a session up by token.
func (r *Registry) Get(token string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[token]
	return sess, ok
}

// Close removes a session.
func (r *Registry) Close(token string) {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
}

type sessionKey struct{}

// WithSession attaches a session to a context.
func WithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// FromContext extracts the session attached by WithSession.
func FromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(sessionKey{}).(Session)
	return sess, ok
}
