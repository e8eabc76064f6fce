package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotLoggedIn       = errors.New("not logged in")
	ErrForbidden         = errors.New("forbidden")
	ErrUnknownProvider   = errors.New("unknown oauth provider")
	ErrDuplicateCallback = errors.New("oauth callback is already being handled")
	ErrUnknownStep       = errors.New("unknown form step")
	ErrNotFound          = errors.New("not found")
	ErrNotEnoughSeats    = errors.New("not enough seats available")
)

// ValidationError blocks a form submission locally. Fields maps the name of
// every invalid field to its message.
type ValidationError struct {
	Step   string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	if e.Step == "" {
		return "validation failed: " + strings.Join(parts, ", ")
	}
	return fmt.Sprintf("validation failed in step %s: %s", e.Step, strings.Join(parts, ", "))
}

// ExternalAuthError is a failed OAuth code exchange.
type ExternalAuthError struct {
	Provider string
	Err      error
}

func (e *ExternalAuthError) Error() string {
	return fmt.Sprintf("oauth exchange with %s failed: %v", e.Provider, e.Err)
}

func (e *ExternalAuthError) Unwrap() error {
	return e.Err
}

// TransportError is any other failed collaborator call.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
