package store

import (
	"sync/atomic"

	"github.com/Domenick1991/skyrocket/internal/domain"
)

type identityCell struct {
	value domain.Identity
}

// IdentityStore holds the identity of one client. Writes replace the value
// wholesale and are visible to every read that starts after SetIdentity returns.
type IdentityStore struct {
	cell atomic.Pointer[identityCell]
}

func NewIdentityStore() *IdentityStore {
	s := &IdentityStore{}
	s.cell.Store(&identityCell{value: domain.Anonymous{}})
	return s
}

// SetIdentity replaces the held identity. A nil identity means Anonymous.
func (s *IdentityStore) SetIdentity(id domain.Identity) {
	if id == nil {
		id = domain.Anonymous{}
	}
	s.cell.Store(&identityCell{value: id})
}

func (s *IdentityStore) Current() domain.Identity {
	return s.cell.Load().value
}

func (s *IdentityStore) IsLoggedIn() bool {
	_, ok := s.Current().(domain.Registered)
	return ok
}

func (s *IdentityStore) ID() int64 {
	if r, ok := s.Current().(domain.Registered); ok {
		return r.ID
	}
	return 0
}

func (s *IdentityStore) Firstname() string {
	switch v := s.Current().(type) {
	case domain.Registered:
		return v.Firstname
	case domain.Unregistered:
		return v.Firstname
	}
	return ""
}

func (s *IdentityStore) Lastname() string {
	switch v := s.Current().(type) {
	case domain.Registered:
		return v.Lastname
	case domain.Unregistered:
		return v.Lastname
	}
	return ""
}

func (s *IdentityStore) Email() string {
	switch v := s.Current().(type) {
	case domain.Registered:
		return v.Email
	case domain.Unregistered:
		return v.Email
	}
	return ""
}

// IsAdmin reports whether the held identity is registered with the admin role.
func (s *IdentityStore) IsAdmin() bool {
	r, ok := s.Current().(domain.Registered)
	return ok && r.HasRole(domain.RoleAdmin)
}
