package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Identity is who is currently using a client. It is one of Anonymous,
// Unregistered or Registered; callers switch on the concrete type.
type Identity interface {
	identity()
}

type Anonymous struct{}

// Unregistered is an identity returned by an OAuth exchange for a person that
// has not completed registration yet.
type Unregistered struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
}

type Registered struct {
	ID        int64  `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Birthday  string `json:"birthday"`
	Gender    Gender `json:"gender"`
	Roles     []Role `json:"roles"`
}

func (Anonymous) identity()    {}
func (Unregistered) identity() {}
func (Registered) identity()   {}

func (r Registered) HasRole(role Role) bool {
	for _, have := range r.Roles {
		if have == role {
			return true
		}
	}
	return false
}

// RegisteredFromUser lifts a backend user record into an identity.
func RegisteredFromUser(u User) Registered {
	return Registered{
		ID:        u.ID,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		Email:     u.Email,
		Birthday:  u.Birthday,
		Gender:    u.Gender,
		Roles:     u.Roles,
	}
}

type identityShape struct {
	ID        *int64 `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Birthday  string `json:"birthday"`
	Gender    Gender `json:"gender"`
	Roles     []Role `json:"roles"`
}

// DecodeIdentity resolves the user payload of the backend, which is either a
// full user or a bare name/email triple, into a definite variant. A missing or
// zero id means the person still has to register.
func DecodeIdentity(data []byte) (Identity, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Anonymous{}, nil
	}

	var shape identityShape
	if err := json.Unmarshal(trimmed, &shape); err != nil {
		return nil, fmt.Errorf("decode identity: %w", err)
	}

	if shape.ID != nil && *shape.ID != 0 {
		return Registered{
			ID:        *shape.ID,
			Firstname: shape.Firstname,
			Lastname:  shape.Lastname,
			Email:     shape.Email,
			Birthday:  shape.Birthday,
			Gender:    shape.Gender,
			Roles:     shape.Roles,
		}, nil
	}
	return Unregistered{
		Firstname: shape.Firstname,
		Lastname:  shape.Lastname,
		Email:     shape.Email,
	}, nil
}

// KindOf names the variant for logs and API responses.
func KindOf(id Identity) string {
	switch id.(type) {
	case Registered:
		return "registered"
	case Unregistered:
		return "unregistered"
	default:
		return "anonymous"
	}
}
