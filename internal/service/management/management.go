// Package management serves the administrative views. Every operation
// requires a registered identity carrying the Admin role.
package management

import (
	"context"

	"github.com/Domenick1991/skyrocket/internal/domain"
	"github.com/Domenick1991/skyrocket/internal/service/flights"
	"github.com/Domenick1991/skyrocket/internal/service/reconcile"
	"github.com/Domenick1991/skyrocket/internal/store"
)

type AllBookingsTable interface {
	ForAllUsers(ctx context.Context, observe reconcile.Observer) ([]domain.Row, error)
}

type Service struct {
	identity *store.IdentityStore
	catalog  flights.CatalogUseCase
	bookings AllBookingsTable
}

func NewService(identity *store.IdentityStore, catalog flights.CatalogUseCase, bookings AllBookingsTable) *Service {
	return &Service{identity: identity, catalog: catalog, bookings: bookings}
}

func (s *Service) authorize() error {
	switch id := s.identity.Current().(type) {
	case domain.Registered:
		if id.HasRole(domain.RoleAdmin) {
			return nil
		}
		return domain.ErrForbidden
	default:
		return domain.ErrNotLoggedIn
	}
}

type OffersView struct {
	Offers []domain.Offer       `json:"offers"`
	Labels []flights.OfferLabel `json:"labels"`
}

func (s *Service) Offers(ctx context.Context) (*OffersView, error) {
	if err := s.authorize(); err != nil {
		return nil, err
	}
	offers, err := s.catalog.ListOffers(ctx, "", "")
	if err != nil {
		return nil, err
	}
	return &OffersView{Offers: offers, Labels: flights.Labels(offers)}, nil
}

func (s *Service) Flights(ctx context.Context) ([]domain.Flight, error) {
	if err := s.authorize(); err != nil {
		return nil, err
	}
	return s.catalog.AllFlights(ctx)
}

func (s *Service) CreateOffer(ctx context.Context, values map[string]string) (*domain.Offer, error) {
	if err := s.authorize(); err != nil {
		return nil, err
	}
	return s.catalog.CreateOffer(ctx, values)
}

func (s *Service) CreateFlight(ctx context.Context, offerID int64, values map[string]string) error {
	if err := s.authorize(); err != nil {
		return err
	}
	return s.catalog.CreateFlight(ctx, offerID, values)
}

// Bookings renders every user's bookings. observe receives each intermediate
// table, which the stream endpoint forwards as it grows.
func (s *Service) Bookings(ctx context.Context, observe reconcile.Observer) ([]domain.Row, error) {
	if err := s.authorize(); err != nil {
		return nil, err
	}
	return s.bookings.ForAllUsers(ctx, observe)
}
