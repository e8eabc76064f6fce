package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/skyrocket/internal/domain"
	"github.com/Domenick1991/skyrocket/internal/form"
	"github.com/gin-gonic/gin"
)

var errBadParam = errors.New("invalid path parameter")

type errorResponse struct {
	Error  string            `json:"error"`
	Step   string            `json:"step,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func statusFor(err error) int {
	var (
		validation *domain.ValidationError
		auth       *domain.ExternalAuthError
		transport  *domain.TransportError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity
	case errors.As(err, &auth):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotLoggedIn):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUnknownProvider), errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateCallback), errors.Is(err, domain.ErrNotEnoughSeats):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownStep), errors.Is(err, form.ErrUnknownField), errors.Is(err, errBadParam):
		return http.StatusBadRequest
	case errors.As(err, &transport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError aborts the request with the status err maps to. Validation
// errors carry their per-field messages.
func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error()}

	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		resp.Step = validation.Step
		resp.Fields = validation.Fields
	}
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, resp)
}
