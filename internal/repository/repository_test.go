package repository

import (
	"context"
	"testing"

	"github.com/Domenick1991/skyrocket/internal/backend"
	"github.com/Domenick1991/skyrocket/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewRepositories(t *testing.T) {
	pool := &pgxpool.Pool{}

	assert.NotNil(t, NewOfferRepository(pool))
	assert.NotNil(t, NewFlightRepository(pool))
	assert.NotNil(t, NewUserRepository(pool))
	assert.NotNil(t, NewAddressRepository(pool))
	assert.NotNil(t, NewSessionRepository(pool, nil))
}

func TestRepositoriesSatisfyCollaborators(t *testing.T) {
	var (
		_ backend.OffersAPI    = (*PGOfferRepository)(nil)
		_ backend.FlightsAPI   = (*PGFlightRepository)(nil)
		_ backend.UserLister   = (*PGUserRepository)(nil)
		_ backend.AddressesAPI = (*PGAddressRepository)(nil)
		_ backend.SessionsAPI  = (*PGSessionRepository)(nil)
	)
}

func TestActor(t *testing.T) {
	_, err := actor(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)

	_, err = actor(backend.WithActor(context.Background(), 0))
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)

	id, err := actor(backend.WithActor(context.Background(), 7))
	assert.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestCreateBooking_RequiresActor(t *testing.T) {
	repo := NewOfferRepository(&pgxpool.Pool{})

	_, err := repo.CreateBooking(context.Background(), 1, 2)

	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
}

func TestCreateFlights_Empty(t *testing.T) {
	repo := NewFlightRepository(&pgxpool.Pool{})

	assert.NoError(t, repo.CreateFlights(context.Background(), nil, 1))
}
