package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	reconcileTimeout time.Duration
}

func NewProfileHandler(reconcileTimeout time.Duration) *ProfileHandler {
	return &ProfileHandler{reconcileTimeout: reconcileTimeout}
}

func (h *ProfileHandler) Register(router *gin.RouterGroup) {
	router.GET("/bookings", h.bookings)
	router.GET("/addresses", h.addresses)
	router.POST("/addresses", h.createAddress)
	router.GET("/sessions", h.sessions)
	router.DELETE("/sessions/:id", h.revokeSession)
}

func withTimeout(c *gin.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), d)
}

func idParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s", errBadParam, name)
	}
	return id, nil
}

func (h *ProfileHandler) bookings(c *gin.Context) {
	ctx, cancel := withTimeout(c, h.reconcileTimeout)
	defer cancel()

	rows, err := currentSession(c).Profile.Bookings(ctx, nil)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ProfileHandler) addresses(c *gin.Context) {
	addresses, err := currentSession(c).Profile.Addresses(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, addresses)
}

func (h *ProfileHandler) createAddress(c *gin.Context) {
	var values map[string]string
	if err := c.ShouldBindJSON(&values); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	addr, err := currentSession(c).Profile.CreateAddress(c.Request.Context(), values)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, addr)
}

func (h *ProfileHandler) sessions(c *gin.Context) {
	sessions, err := currentSession(c).Profile.Sessions(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (h *ProfileHandler) revokeSession(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	if err := currentSession(c).Profile.RevokeSession(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
