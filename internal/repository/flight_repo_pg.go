package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/skyrocket/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) *PGFlightRepository {
	return &PGFlightRepository{db: db}
}

func (r *PGFlightRepository) ListFlightsForOffer(ctx context.Context, offerID int64) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT id, offer_id, departure_icao, departure_time, arrival_icao, arrival_time FROM flights WHERE offer_id = $1 ORDER BY departure_time`, offerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var (
			f                  domain.Flight
			departure, arrival time.Time
		)
		if err := rows.Scan(&f.ID, &f.OfferID, &f.DepartureICAO, &departure, &f.ArrivalICAO, &arrival); err != nil {
			return nil, err
		}
		f.DepartureTime = domain.NewDateTime(departure)
		f.ArrivalTime = domain.NewDateTime(arrival)
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

// CreateFlights inserts all flights of one offer in a single transaction.
func (r *PGFlightRepository) CreateFlights(ctx context.Context, flights []domain.NewFlight, offerID int64) error {
	if len(flights) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, f := range flights {
		batch.Queue(`INSERT INTO flights (offer_id, departure_icao, departure_time, arrival_icao, arrival_time) VALUES ($1, $2, $3, $4, $5)`,
			offerID, f.DepartureICAO, f.DepartureTime.UTC(), f.ArrivalICAO, f.ArrivalTime.UTC())
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert flights of offer %d: %w", offerID, err)
	}
	return tx.Commit(ctx)
}
