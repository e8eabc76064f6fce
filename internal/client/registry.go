package client

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Registry struct {
	secret  string
	ttl     time.Duration
	factory Factory
	log     zerolog.Logger
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

type RegistryOption func(*Registry)

func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.now = now
	}
}

func NewRegistry(secret string, ttl time.Duration, factory Factory, log zerolog.Logger, opts ...RegistryOption) *Registry {
	r := &Registry{
		secret:   secret,
		ttl:      ttl,
		factory:  factory,
		log:      log.With().Str("component", "client_registry").Logger(),
		now:      time.Now,
		sessions: make(map[uuid.UUID]*Session),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the context named by token together with a refreshed
// token. An empty, invalid or expired token, or one whose context has been
// swept, yields a fresh anonymous context.
func (r *Registry) Resolve(token string) (*Session, string, error) {
	now := r.now()

	if token != "" {
		id, err := ParseToken(token, r.secret, now)
		if err == nil {
			r.mu.RLock()
			s, ok := r.sessions[id]
			r.mu.RUnlock()
			if ok {
				s.touch(now)
				fresh, err := IssueToken(id, r.secret, r.ttl, now)
				if err != nil {
					return nil, "", err
				}
				return s, fresh, nil
			}
		} else {
			r.log.Debug().Err(err).Msg("discarding session token")
		}
	}

	id := uuid.New()
	s, err := r.factory(id)
	if err != nil {
		return nil, "", err
	}
	s.touch(now)
	fresh, err := IssueToken(id, r.secret, r.ttl, now)
	if err != nil {
		return nil, "", err
	}

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	r.log.Debug().Str("client", id.String()).Msg("client context created")
	return s, fresh, nil
}

func (r *Registry) Get(id uuid.UUID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops contexts idle for longer than the session TTL and returns how
// many were removed.
func (r *Registry) Sweep() int {
	deadline := r.now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, s := range r.sessions {
		if s.LastSeen().Before(deadline) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.log.Info().Int("removed", n).Int("active", r.Len()).Msg("idle client contexts swept")
			}
		case <-ctx.Done():
			return
		}
	}
}
