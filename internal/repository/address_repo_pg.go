package repository

import (
	"context"

	"github.com/Domenick1991/skyrocket/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGAddressRepository struct {
	db *pgxpool.Pool
}

func NewAddressRepository(db *pgxpool.Pool) *PGAddressRepository {
	return &PGAddressRepository{db: db}
}

func (r *PGAddressRepository) ListAddresses(ctx context.Context, userID int64) ([]domain.Address, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, country, postal_code, town, street, house_number FROM addresses WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addresses := make([]domain.Address, 0)
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Country, &a.PostalCode, &a.Town, &a.Street, &a.HouseNumber); err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

func (r *PGAddressRepository) CreateAddress(ctx context.Context, addr domain.NewAddress, userID int64) (*domain.Address, error) {
	created := &domain.Address{
		UserID:      userID,
		Country:     addr.Country,
		PostalCode:  addr.PostalCode,
		Town:        addr.Town,
		Street:      addr.Street,
		HouseNumber: addr.HouseNumber,
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO addresses (user_id, country, postal_code, town, street, house_number) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		userID, addr.Country, addr.PostalCode, addr.Town, addr.Street, addr.HouseNumber,
	).Scan(&created.ID)
	if err != nil {
		return nil, err
	}
	return created, nil
}
