package member

import (
	"context"
	"sync"
	"time"
)

// SessionStore maps opaque bearer tokens to member ids with a TTL.
type SessionStore interface {
	Save(ctx context.Context, token, memberID string, ttl time.Duration) error
	Get(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

// MemorySessions is the redis-less fallback, also used by tests.
type MemorySessions struct {
	mu sync.Mutex
	m  map[string]memSession
}

type memSession struct {
	memberID string
	expires  time.Time
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{m: make(map[string]memSession)}
}

func (s *MemorySessions) Save(_ context.Context, token, memberID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[token] = memSession{memberID: memberID, expires: time.Now().Add(ttl)}
	return nil
}

func (s *MemorySessions) Get(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[token]
	if !ok || time.Now().After(sess.expires) {
		delete(s.m, token)
		return "", ErrNoSession
	}
	return sess.memberID, nil
}

func (s *MemorySessions) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, token)
	return nil
}
