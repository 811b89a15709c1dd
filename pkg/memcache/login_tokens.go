// pkg/memcache/login_tokens.go
package mem

import (
	"context"
	"sync"
	"time"
)

// TokenStore keeps single-use sign-in secrets (magic-link tokens and one-time
// codes) mapped to the account email they were issued for.
type TokenStore interface {
	Set(ctx context.Context, token string, accountEmail string, ttl time.Duration) error

	// Consume returns the email for token if not expired and removes the
	// token (single-use). Returns "" if missing/expired.
	Consume(ctx context.Context, token string) (string, error)
}

type entry struct {
	email     string
	expiresAt time.Time
}

type LoginTokens struct {
	mu   sync.Mutex
	data map[string]entry
	now  func() time.Time
}

func NewLoginTokens() *LoginTokens {
	return &LoginTokens{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (s *LoginTokens) Set(_ context.Context, token string, accountEmail string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep()
	s.data[token] = entry{
		email:     accountEmail,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *LoginTokens) Consume(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[token]
	if !ok {
		return "", nil
	}
	delete(s.data, token) // single-use
	if s.now().After(e.expiresAt) {
		return "", nil
	}
	return e.email, nil
}

// sweep drops expired entries; callers hold mu.
func (s *LoginTokens) sweep() {
	now := s.now()
	for k, e := range s.data {
		if now.After(e.expiresAt) {
			delete(s.data, k)
		}
	}
}
