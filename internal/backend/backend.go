// Package backend declares the remote collaborators the booking core depends
// on and provides an HTTP client for the backend REST API.
package backend

import (
	"context"

	"github.com/Domenick1991/skyrocket/internal/domain"
)

type LoginAPI interface {
	// Providers maps provider names to their authorize URLs.
	Providers(ctx context.Context) (map[string]string, error)
	ExchangeCode(ctx context.Context, provider, code string) (domain.Identity, error)
	// Profile returns the identity bound to the current backend session.
	Profile(ctx context.Context) (domain.Identity, error)
	Logout(ctx context.Context) error
}

type OffersAPI interface {
	ListOffers(ctx context.Context, departure, arrival string) ([]domain.Offer, error)
	CreateOffer(ctx context.Context, offer domain.NewOffer) (*domain.Offer, error)
	CreateBooking(ctx context.Context, offerID int64, seats int) (*domain.Booking, error)
	ListBookingsForUser(ctx context.Context, userID int64) ([]domain.Booking, error)
}

type FlightsAPI interface {
	ListFlightsForOffer(ctx context.Context, offerID int64) ([]domain.Flight, error)
	CreateFlights(ctx context.Context, flights []domain.NewFlight, offerID int64) error
}

type UserLister interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type UserCreator interface {
	CreateUser(ctx context.Context, user domain.NewUser) (domain.Identity, error)
}

type UsersAPI interface {
	UserLister
	UserCreator
}

// ComposedUsers serves listing and creation from different sources.
type ComposedUsers struct {
	UserLister
	UserCreator
}

type AddressesAPI interface {
	ListAddresses(ctx context.Context, userID int64) ([]domain.Address, error)
	CreateAddress(ctx context.Context, addr domain.NewAddress, userID int64) (*domain.Address, error)
}

type SessionsAPI interface {
	ListSessions(ctx context.Context, userID int64) ([]domain.Session, error)
	RevokeSession(ctx context.Context, userID, sessionID int64) error
}

// Backend bundles the collaborators of one client.
type Backend struct {
	Login     LoginAPI
	Offers    OffersAPI
	Flights   FlightsAPI
	Users     UsersAPI
	Addresses AddressesAPI
	Sessions  SessionsAPI
}

type actorKey struct{}

// WithActor records the registered user on whose behalf a call is made.
// Collaborators without a backend session of their own (the database
// repositories) use it to attribute writes.
func WithActor(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

func ActorFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(actorKey{}).(int64)
	return id, ok && id != 0
}
