package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/skyrocket/internal/domain"
	"github.com/gin-gonic/gin"
)

type ManagementHandler struct {
	reconcileTimeout time.Duration
}

func NewManagementHandler(reconcileTimeout time.Duration) *ManagementHandler {
	return &ManagementHandler{reconcileTimeout: reconcileTimeout}
}

func (h *ManagementHandler) Register(router *gin.RouterGroup) {
	router.GET("/offers", h.offers)
	router.POST("/offers", h.createOffer)
	router.GET("/flights", h.flights)
	router.POST("/offers/:id/flights", h.createFlight)
	router.GET("/bookings", h.bookings)
	router.GET("/bookings/stream", h.streamBookings)
}

func (h *ManagementHandler) offers(c *gin.Context) {
	view, err := currentSession(c).Management.Offers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ManagementHandler) createOffer(c *gin.Context) {
	var values map[string]string
	if err := c.ShouldBindJSON(&values); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	offer, err := currentSession(c).Management.CreateOffer(c.Request.Context(), values)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, offer)
}

func (h *ManagementHandler) flights(c *gin.Context) {
	flights, err := currentSession(c).Management.Flights(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, flights)
}

func (h *ManagementHandler) createFlight(c *gin.Context) {
	offerID, err := idParam(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	var values map[string]string
	if err := c.ShouldBindJSON(&values); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := currentSession(c).Management.CreateFlight(c.Request.Context(), offerID, values); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *ManagementHandler) bookings(c *gin.Context) {
	ctx, cancel := withTimeout(c, h.reconcileTimeout)
	defer cancel()

	rows, err := currentSession(c).Management.Bookings(ctx, nil)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// streamBookings sends a "rows" event for every intermediate table and a
// final "done" event. Authorization failures are answered before the stream
// starts.
func (h *ManagementHandler) streamBookings(c *gin.Context) {
	s := currentSession(c)
	if !s.Identity.IsLoggedIn() {
		writeError(c, domain.ErrNotLoggedIn)
		return
	}
	if !s.Identity.IsAdmin() {
		writeError(c, domain.ErrForbidden)
		return
	}

	ctx, cancel := withTimeout(c, h.reconcileTimeout)
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	rows, err := s.Management.Bookings(ctx, func(rows []domain.Row) {
		c.SSEvent("rows", rows)
		c.Writer.Flush()
	})
	if err != nil {
		c.SSEvent("error", errorResponse{Error: err.Error()})
		c.Writer.Flush()
		return
	}
	c.SSEvent("done", rows)
	c.Writer.Flush()
}
