package reconcile

import "github.com/Domenick1991/skyrocket/internal/domain"

// Join projects one booking against the offer index. A missing offer is an
// ordinary outcome and yields the "n/a" route.
func Join(index map[int64]domain.Offer, b domain.Booking) domain.Row {
	row := domain.Row{
		OfferID:   b.OfferID,
		Departure: domain.NotAvailable,
		Arrival:   domain.NotAvailable,
		Seats:     b.Seats,
	}
	if offer, ok := index[b.OfferID]; ok {
		row.Departure = offer.DepartureICAO
		row.Arrival = offer.ArrivalICAO
	}
	return row
}

func Index(offers []domain.Offer) map[int64]domain.Offer {
	index := make(map[int64]domain.Offer, len(offers))
	for _, o := range offers {
		index[o.ID] = o
	}
	return index
}

// Reconcile yields exactly one row per booking, in booking order.
func Reconcile(offers []domain.Offer, bookings []domain.Booking) []domain.Row {
	index := Index(offers)
	rows := make([]domain.Row, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, Join(index, b))
	}
	return rows
}

type batch struct {
	owner    int64
	hasOwner bool
	bookings []domain.Booking
}

// Table accumulates offers and booking batches as they arrive and renders
// rows from whatever it holds. It is owned by a single goroutine.
type Table struct {
	index   map[int64]domain.Offer
	batches []batch
}

func NewTable() *Table {
	return &Table{index: make(map[int64]domain.Offer)}
}

// SetOffers replaces the offer index; rows of already held bookings are
// re-resolved on the next render.
func (t *Table) SetOffers(offers []domain.Offer) {
	t.index = Index(offers)
}

// ReplaceBookings holds a single unowned batch, as for one user's profile.
func (t *Table) ReplaceBookings(bookings []domain.Booking) {
	t.batches = []batch{{bookings: bookings}}
}

// AppendBookings adds one owner's batch after every batch that arrived
// before it.
func (t *Table) AppendBookings(owner int64, bookings []domain.Booking) {
	t.batches = append(t.batches, batch{owner: owner, hasOwner: true, bookings: bookings})
}

func (t *Table) Rows() []domain.Row {
	rows := make([]domain.Row, 0)
	for _, bt := range t.batches {
		for _, b := range bt.bookings {
			row := Join(t.index, b)
			if bt.hasOwner {
				row.OwnerID = bt.owner
				row.HasOwner = true
			}
			rows = append(rows, row)
		}
	}
	return rows
}
