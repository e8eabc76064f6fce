package domain

type Currency string

const (
	CurrencyDollar Currency = "Dollar"
	CurrencyEuro   Currency = "Euro"
)

func (c Currency) Valid() bool {
	return c == CurrencyDollar || c == CurrencyEuro
}

// Offer is a sellable flight product owned by the remote system.
type Offer struct {
	ID            int64    `json:"id"`
	DepartureICAO string   `json:"departureIcao"`
	ArrivalICAO   string   `json:"arrivalIcao"`
	Seats         int      `json:"seats"`
	Occupied      int      `json:"occupied,omitempty"`
	Price         float64  `json:"price"`
	Currency      Currency `json:"currency"`
}

type NewOffer struct {
	Seats    int      `json:"seats"`
	Price    float64  `json:"price"`
	Currency Currency `json:"currency"`
}

type Flight struct {
	ID            int64    `json:"id"`
	OfferID       int64    `json:"offerId"`
	DepartureICAO string   `json:"departureIcao"`
	DepartureTime DateTime `json:"departureTime"`
	ArrivalICAO   string   `json:"arrivalIcao"`
	ArrivalTime   DateTime `json:"arrivalTime"`
}

type NewFlight struct {
	DepartureICAO string   `json:"departureIcao"`
	DepartureTime DateTime `json:"departureTime"`
	ArrivalICAO   string   `json:"arrivalIcao"`
	ArrivalTime   DateTime `json:"arrivalTime"`
}
