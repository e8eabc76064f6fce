// Package client keeps one context per browser session. A context owns the
// stores and services of exactly one client, so identities and drafts are
// never shared between browsers.
package client

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Domenick1991/skyrocket/internal/backend"
	"github.com/Domenick1991/skyrocket/internal/domain"
	"github.com/Domenick1991/skyrocket/internal/service/booking"
	"github.com/Domenick1991/skyrocket/internal/service/flights"
	"github.com/Domenick1991/skyrocket/internal/service/login"
	"github.com/Domenick1991/skyrocket/internal/service/management"
	"github.com/Domenick1991/skyrocket/internal/service/profile"
	"github.com/Domenick1991/skyrocket/internal/store"
	"github.com/google/uuid"
)

type Session struct {
	ID uuid.UUID

	Identity *store.IdentityStore
	Draft    *store.DraftStore
	Backend  backend.Backend

	Login      *login.Orchestrator
	Catalog    *flights.CatalogService
	Booking    *booking.Pipeline
	Profile    *profile.Service
	Management *management.Service

	lastSeen  atomic.Int64
	restoreMu sync.Mutex
	restored  bool
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Restore loads the identity of the backend session, unless an identity was
// already written. It is retried on later calls until one attempt settles
// the identity.
func (s *Session) Restore(ctx context.Context) error {
	s.restoreMu.Lock()
	defer s.restoreMu.Unlock()

	if s.restored {
		return nil
	}
	if _, anonymous := s.Identity.Current().(domain.Anonymous); !anonymous {
		s.restored = true
		return nil
	}
	if err := s.Login.Restore(ctx); err != nil {
		return err
	}
	s.restored = true
	return nil
}
