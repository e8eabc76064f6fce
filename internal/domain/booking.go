package domain

import "time"

// Booking is a reservation against an offer. UserID is only populated in
// listings that span several users.
type Booking struct {
	UserID  int64 `json:"userId,omitempty"`
	OfferID int64 `json:"offerId"`
	Seats   int   `json:"seats"`
}

// NotAvailable fills the route columns of a row whose offer is unknown.
const NotAvailable = "n/a"

// Row is the display projection of a booking joined against its offer.
type Row struct {
	OwnerID   int64  `json:"ownerId,omitempty"`
	HasOwner  bool   `json:"-"`
	OfferID   int64  `json:"offerId"`
	Departure string `json:"departure"`
	Arrival   string `json:"arrival"`
	Seats     int    `json:"seats"`
}

// TravelPeriod is the date range chosen on the search view.
type TravelPeriod struct {
	DateDeparture time.Time `json:"dateDeparture"`
	DateArrival   time.Time `json:"dateArrival"`
}

// Draft is the trip search carried from the search view to the booking view.
type Draft struct {
	Departure    string       `json:"departure"`
	Arrival      string       `json:"arrival"`
	TravelPeriod TravelPeriod `json:"travelPeriod"`
}
