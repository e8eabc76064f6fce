package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/skyrocket/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// An offer's route is the departure of its earliest flight and the arrival of
// its latest one. Offers without flights have empty codes.
const listOffersQuery = `
SELECT o.id, o.seats, COALESCE(b.occupied, 0)::int, o.price::float8, o.currency::text,
       COALESCE(dep.departure_icao, ''), COALESCE(arr.arrival_icao, '')
FROM flights_offers o
LEFT JOIN (SELECT offer_id, SUM(seats) AS occupied FROM bookings GROUP BY offer_id) b ON b.offer_id = o.id
LEFT JOIN LATERAL (
    SELECT departure_icao FROM flights f WHERE f.offer_id = o.id ORDER BY f.departure_time LIMIT 1
) dep ON true
LEFT JOIN LATERAL (
    SELECT arrival_icao FROM flights f WHERE f.offer_id = o.id ORDER BY f.arrival_time DESC LIMIT 1
) arr ON true
WHERE ($1::text = '' OR dep.departure_icao = $1::text)
  AND ($2::text = '' OR arr.arrival_icao = $2::text)
ORDER BY o.id`

type PGOfferRepository struct {
	db *pgxpool.Pool
}

func NewOfferRepository(db *pgxpool.Pool) *PGOfferRepository {
	return &PGOfferRepository{db: db}
}

func (r *PGOfferRepository) ListOffers(ctx context.Context, departure, arrival string) ([]domain.Offer, error) {
	rows, err := r.db.Query(ctx, listOffersQuery, departure, arrival)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	offers := make([]domain.Offer, 0)
	for rows.Next() {
		var (
			o        domain.Offer
			currency string
		)
		if err := rows.Scan(&o.ID, &o.Seats, &o.Occupied, &o.Price, &currency, &o.DepartureICAO, &o.ArrivalICAO); err != nil {
			return nil, err
		}
		o.Currency = domain.Currency(currency)
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

func (r *PGOfferRepository) CreateOffer(ctx context.Context, offer domain.NewOffer) (*domain.Offer, error) {
	if !offer.Currency.Valid() {
		return nil, fmt.Errorf("unknown currency %q", offer.Currency)
	}
	created := &domain.Offer{Seats: offer.Seats, Price: offer.Price, Currency: offer.Currency}
	err := r.db.QueryRow(ctx,
		`INSERT INTO flights_offers (seats, price, currency) VALUES ($1, $2, $3::text::currency) RETURNING id`,
		offer.Seats, offer.Price, string(offer.Currency),
	).Scan(&created.ID)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CreateBooking books seats for the actor in ctx. Booking the same offer
// twice adds to the existing booking. Capacity is checked under a row lock on
// the offer.
func (r *PGOfferRepository) CreateBooking(ctx context.Context, offerID int64, seats int) (*domain.Booking, error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var capacity, occupied int
	err = tx.QueryRow(ctx, `SELECT seats FROM flights_offers WHERE id = $1 FOR UPDATE`, offerID).Scan(&capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("offer %d: %w", offerID, domain.ErrNotFound)
		}
		return nil, err
	}
	if err := tx.QueryRow(ctx, `SELECT COALESCE(SUM(seats), 0)::int FROM bookings WHERE offer_id = $1`, offerID).Scan(&occupied); err != nil {
		return nil, err
	}
	if occupied+seats > capacity {
		return nil, fmt.Errorf("offer %d: %w", offerID, domain.ErrNotEnoughSeats)
	}

	b := &domain.Booking{UserID: userID, OfferID: offerID}
	err = tx.QueryRow(ctx, `
INSERT INTO bookings (user_id, offer_id, seats) VALUES ($1, $2, $3)
ON CONFLICT (user_id, offer_id) DO UPDATE SET seats = bookings.seats + EXCLUDED.seats
RETURNING seats`, userID, offerID, seats).Scan(&b.Seats)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *PGOfferRepository) ListBookingsForUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT offer_id, seats FROM bookings WHERE user_id = $1 ORDER BY offer_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.OfferID, &b.Seats); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
