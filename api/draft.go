package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/Domenick1991/skyrocket/internal/domain"
	"github.com/Domenick1991/skyrocket/internal/form"
	"github.com/Domenick1991/skyrocket/internal/store"
	"github.com/gin-gonic/gin"
)

const (
	searchDateLayout = "2006-01-02"
	destinationBook  = "book"
)

type DraftHandler struct{}

type searchRequest struct {
	Departure     string `json:"departure"`
	Arrival       string `json:"arrival"`
	DateDeparture string `json:"dateDeparture"`
	DateArrival   string `json:"dateArrival"`
}

type draftResponse struct {
	Departure     string `json:"departure"`
	Arrival       string `json:"arrival"`
	DateDeparture string `json:"dateDeparture"`
	DateArrival   string `json:"dateArrival"`
}

type searchResponse struct {
	Destination string        `json:"destination"`
	Draft       draftResponse `json:"draft"`
}

func NewDraftHandler() *DraftHandler {
	return &DraftHandler{}
}

func (h *DraftHandler) Register(router *gin.RouterGroup) {
	router.GET("/draft", h.get)
	router.PUT("/draft", h.search)
}

func searchForm(req searchRequest) *form.Step {
	return form.NewStep("search",
		form.NewField("departure", req.Departure, form.Required()),
		form.NewField("arrival", req.Arrival, form.Required()),
		form.NewField("dateDeparture", req.DateDeparture, form.Date(searchDateLayout)),
		form.NewField("dateArrival", req.DateArrival, form.Date(searchDateLayout)),
	)
}

func parseDate(value string, fallback time.Time) time.Time {
	t, err := time.Parse(searchDateLayout, strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return t
}

func toDraftResponse(d domain.Draft) draftResponse {
	return draftResponse{
		Departure:     d.Departure,
		Arrival:       d.Arrival,
		DateDeparture: d.TravelPeriod.DateDeparture.Format(store.DisplayDateLayout),
		DateArrival:   d.TravelPeriod.DateArrival.Format(store.DisplayDateLayout),
	}
}

func (h *DraftHandler) get(c *gin.Context) {
	c.JSON(http.StatusOK, toDraftResponse(currentSession(c).Draft.Snapshot()))
}

// search writes the whole draft at once and sends the client to the booking
// view. Omitted dates keep the current travel period.
func (h *DraftHandler) search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := searchForm(req).Validate(); err != nil {
		writeError(c, err)
		return
	}

	draft := currentSession(c).Draft
	current := draft.Snapshot()
	next := domain.Draft{
		Departure: strings.ToUpper(strings.TrimSpace(req.Departure)),
		Arrival:   strings.ToUpper(strings.TrimSpace(req.Arrival)),
		TravelPeriod: domain.TravelPeriod{
			DateDeparture: parseDate(req.DateDeparture, current.TravelPeriod.DateDeparture),
			DateArrival:   parseDate(req.DateArrival, current.TravelPeriod.DateArrival),
		},
	}
	draft.Replace(next)

	c.JSON(http.StatusOK, searchResponse{Destination: destinationBook, Draft: toDraftResponse(next)})
}
