package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct{}

func NewBookingHandler() *BookingHandler {
	return &BookingHandler{}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("/offers", h.offers)
	router.GET("/addresses", h.addresses)
	router.GET("/form", h.form)
	router.POST("/steps/:step", h.fillStep)
	router.POST("/submit", h.submit)
}

func (h *BookingHandler) offers(c *gin.Context) {
	offers, err := currentSession(c).Booking.Offers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, offers)
}

func (h *BookingHandler) addresses(c *gin.Context) {
	addresses, err := currentSession(c).Booking.Addresses(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, addresses)
}

// form opens a fresh booking form pre-filled from the current identity.
func (h *BookingHandler) form(c *gin.Context) {
	c.JSON(http.StatusOK, currentSession(c).Booking.Start())
}

func (h *BookingHandler) fillStep(c *gin.Context) {
	var values map[string]string
	if err := c.ShouldBindJSON(&values); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := currentSession(c).Booking.Fill(c.Param("step"), values); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, currentSession(c).Booking.Steps())
}

func (h *BookingHandler) submit(c *gin.Context) {
	dest, err := currentSession(c).Booking.Submit(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, destinationResponse{Destination: dest})
}
