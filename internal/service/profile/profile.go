// Package profile serves the views of a logged-in user: delivery addresses,
// backend login sessions and the user's bookings.
package profile

import (
	"context"
	"strconv"
	"strings"

	"github.com/Domenick1991/skyrocket/internal/backend"
	"github.com/Domenick1991/skyrocket/internal/domain"
	"github.com/Domenick1991/skyrocket/internal/form"
	"github.com/Domenick1991/skyrocket/internal/service/reconcile"
	"github.com/Domenick1991/skyrocket/internal/store"
	"github.com/rs/zerolog"
)

const StepAddress = "address"

type BookingsTable interface {
	ForUser(ctx context.Context, userID int64, observe reconcile.Observer) ([]domain.Row, error)
}

type Service struct {
	identity  *store.IdentityStore
	addresses backend.AddressesAPI
	sessions  backend.SessionsAPI
	bookings  BookingsTable
	log       zerolog.Logger
}

func NewService(identity *store.IdentityStore, addresses backend.AddressesAPI, sessions backend.SessionsAPI, bookings BookingsTable, log zerolog.Logger) *Service {
	return &Service{
		identity:  identity,
		addresses: addresses,
		sessions:  sessions,
		bookings:  bookings,
		log:       log.With().Str("component", "profile").Logger(),
	}
}

func (s *Service) user() (int64, error) {
	if !s.identity.IsLoggedIn() {
		return 0, domain.ErrNotLoggedIn
	}
	return s.identity.ID(), nil
}

func (s *Service) Addresses(ctx context.Context) ([]domain.Address, error) {
	userID, err := s.user()
	if err != nil {
		return nil, err
	}
	return s.addresses.ListAddresses(ctx, userID)
}

func AddressForm() *form.Step {
	return form.NewStep(StepAddress,
		form.NewField("country", "", form.Required()),
		form.NewField("postalCode", "", form.Required(), form.Integer(), form.Min(0)),
		form.NewField("town", "", form.Required()),
		form.NewField("street", "", form.Required()),
		form.NewField("houseNumber", "", form.Required(), form.Integer(), form.Min(1)),
	)
}

func (s *Service) CreateAddress(ctx context.Context, values map[string]string) (*domain.Address, error) {
	userID, err := s.user()
	if err != nil {
		return nil, err
	}

	step := AddressForm()
	if err := step.Fill(values); err != nil {
		return nil, err
	}
	if err := step.Validate(); err != nil {
		return nil, err
	}

	postalCode, _ := strconv.Atoi(strings.TrimSpace(step.Value("postalCode")))
	houseNumber, _ := strconv.Atoi(strings.TrimSpace(step.Value("houseNumber")))

	addr, err := s.addresses.CreateAddress(backend.WithActor(ctx, userID), domain.NewAddress{
		Country:     strings.TrimSpace(step.Value("country")),
		PostalCode:  postalCode,
		Town:        strings.TrimSpace(step.Value("town")),
		Street:      strings.TrimSpace(step.Value("street")),
		HouseNumber: houseNumber,
	}, userID)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("user_id", userID).Int64("address_id", addr.ID).Msg("address created")
	return addr, nil
}

func (s *Service) Sessions(ctx context.Context) ([]domain.Session, error) {
	userID, err := s.user()
	if err != nil {
		return nil, err
	}
	return s.sessions.ListSessions(ctx, userID)
}

func (s *Service) RevokeSession(ctx context.Context, sessionID int64) error {
	userID, err := s.user()
	if err != nil {
		return err
	}
	if err := s.sessions.RevokeSession(ctx, userID, sessionID); err != nil {
		return err
	}
	s.log.Info().Int64("user_id", userID).Int64("session_id", sessionID).Msg("session revoked")
	return nil
}

// Bookings renders the bookings table of the logged-in user.
func (s *Service) Bookings(ctx context.Context, observe reconcile.Observer) ([]domain.Row, error) {
	userID, err := s.user()
	if err != nil {
		return nil, err
	}
	return s.bookings.ForUser(ctx, userID, observe)
}
