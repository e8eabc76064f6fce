package form

import (
	"errors"
	"testing"

	"github.com/Domenick1991/skyrocket/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRules(t *testing.T) {
	tests := []struct {
		name  string
		rule  Rule
		value string
		ok    bool
	}{
		{"required empty", Required(), "", false},
		{"required blank", Required(), "   ", false},
		{"required set", Required(), "x", true},
		{"min below", Min(1), "0", false},
		{"min equal", Min(1), "1", true},
		{"min empty passes", Min(1), "", true},
		{"min not a number", Min(1), "abc", false},
		{"max above", Max(2000), "2500", false},
		{"max equal", Max(2000), "2000", true},
		{"integer", Integer(), "12", true},
		{"integer fraction", Integer(), "1.5", false},
		{"email ok", Email(), "a@b.co", true},
		{"email bad", Email(), "not-an-email", false},
		{"date ok", Date("2006-01-02"), "1990-04-01", true},
		{"date bad", Date("2006-01-02"), "01.04.1990", false},
		{"one of ok", OneOf("Dollar", "Euro"), "Euro", true},
		{"one of bad", OneOf("Dollar", "Euro"), "Yen", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.rule(tt.value) == "")
		})
	}
}

func TestStep_ValidateCollectsFields(t *testing.T) {
	step := NewStep("flight",
		NewField("offer", "", Required()),
		NewField("seats", "2500", Required(), Min(1), Max(2000)),
	)

	err := step.Validate()
	require.Error(t, err)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "flight", verr.Step)
	assert.Equal(t, "is required", verr.Fields["offer"])
	assert.Equal(t, "must be at most 2000", verr.Fields["seats"])
}

func TestStep_FillRejectsUnknownWithoutPartialWrite(t *testing.T) {
	step := NewStep("passenger", NewField("firstname", "Ada", Required()))

	err := step.Fill(map[string]string{"firstname": "Grace", "nickname": "x"})
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Equal(t, "Ada", step.Value("firstname"))

	require.NoError(t, step.Fill(map[string]string{"firstname": "Grace"}))
	assert.Equal(t, "Grace", step.Value("firstname"))
	assert.True(t, step.Valid())
}

func TestStep_CloneIsIndependent(t *testing.T) {
	step := NewStep("address", NewField("address", "1", Required()))
	cp := step.Clone()
	require.NoError(t, cp.Set("address", ""))

	assert.Equal(t, "1", step.Value("address"))
	assert.False(t, cp.Valid())
}
