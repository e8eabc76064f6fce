// Package form holds the field/rule model behind the multi-step views:
// every field carries its value and the rules it has to satisfy.
package form

import (
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/skyrocket/internal/domain"
)

var ErrUnknownField = errors.New("unknown form field")

// Rule checks one value and returns a message, or "" when the value passes.
type Rule func(value string) string

func Required() Rule {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return "is required"
		}
		return ""
	}
}

// Min fails numeric values below n. Empty values pass; pair with Required.
func Min(n float64) Rule {
	return func(value string) string {
		v, ok, msg := number(value)
		if !ok {
			return msg
		}
		if v < n {
			return fmt.Sprintf("must be at least %s", strconv.FormatFloat(n, 'f', -1, 64))
		}
		return ""
	}
}

// Max fails numeric values above n. Empty values pass; pair with Required.
func Max(n float64) Rule {
	return func(value string) string {
		v, ok, msg := number(value)
		if !ok {
			return msg
		}
		if v > n {
			return fmt.Sprintf("must be at most %s", strconv.FormatFloat(n, 'f', -1, 64))
		}
		return ""
	}
}

func Integer() Rule {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return ""
		}
		if _, err := strconv.Atoi(strings.TrimSpace(value)); err != nil {
			return "must be a whole number"
		}
		return ""
	}
}

func Email() Rule {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return ""
		}
		if _, err := mail.ParseAddress(value); err != nil {
			return "must be a valid email address"
		}
		return ""
	}
}

func Date(layout string) Rule {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return ""
		}
		if _, err := time.Parse(layout, strings.TrimSpace(value)); err != nil {
			return "must be a date formatted as " + layout
		}
		return ""
	}
}

func OneOf(allowed ...string) Rule {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return ""
		}
		for _, a := range allowed {
			if value == a {
				return ""
			}
		}
		return "must be one of " + strings.Join(allowed, ", ")
	}
}

// number returns ok=false with a message for non-numeric input and
// ok=false without one for empty input.
func number(value string) (float64, bool, string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false, ""
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false, "must be a number"
	}
	return v, true, ""
}

type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	rules []Rule
}

func NewField(name, value string, rules ...Rule) *Field {
	return &Field{Name: name, Value: value, rules: rules}
}

// Check returns the message of the first failing rule.
func (f *Field) Check() string {
	for _, rule := range f.rules {
		if msg := rule(f.Value); msg != "" {
			return msg
		}
	}
	return ""
}

// Step is one gated page of a form.
type Step struct {
	Name   string   `json:"name"`
	Fields []*Field `json:"fields"`
}

func NewStep(name string, fields ...*Field) *Step {
	return &Step{Name: name, Fields: fields}
}

func (s *Step) field(name string) *Field {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (s *Step) Set(name, value string) error {
	f := s.field(name)
	if f == nil {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	f.Value = value
	return nil
}

// Fill sets several fields at once. Unknown names are rejected before any
// field is touched.
func (s *Step) Fill(values map[string]string) error {
	for name := range values {
		if s.field(name) == nil {
			return fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
	}
	for name, value := range values {
		s.field(name).Value = value
	}
	return nil
}

func (s *Step) Value(name string) string {
	if f := s.field(name); f != nil {
		return f.Value
	}
	return ""
}

// Validate returns a *domain.ValidationError listing every invalid field.
func (s *Step) Validate() error {
	invalid := make(map[string]string)
	for _, f := range s.Fields {
		if msg := f.Check(); msg != "" {
			invalid[f.Name] = msg
		}
	}
	if len(invalid) == 0 {
		return nil
	}
	return &domain.ValidationError{Step: s.Name, Fields: invalid}
}

func (s *Step) Valid() bool {
	return s.Validate() == nil
}

// Clone copies the step including its rules, so a snapshot can be handed out
// without sharing mutable fields.
func (s *Step) Clone() *Step {
	out := &Step{Name: s.Name, Fields: make([]*Field, len(s.Fields))}
	for i, f := range s.Fields {
		cp := *f
		out.Fields[i] = &cp
	}
	return out
}
