package client

import (
	"fmt"
	"time"

	"github.com/Domenick1991/skyrocket/internal/backend"
	"github.com/Domenick1991/skyrocket/internal/service/booking"
	"github.com/Domenick1991/skyrocket/internal/service/flights"
	"github.com/Domenick1991/skyrocket/internal/service/login"
	"github.com/Domenick1991/skyrocket/internal/service/management"
	"github.com/Domenick1991/skyrocket/internal/service/profile"
	"github.com/Domenick1991/skyrocket/internal/service/reconcile"
	"github.com/Domenick1991/skyrocket/internal/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Factory builds the context of a new client.
type Factory func(id uuid.UUID) (*Session, error)

// Repositories replace the remote collaborators that postgres mode serves
// from the database. Users are listed from the database but still created
// through the backend.
type Repositories struct {
	Offers    backend.OffersAPI
	Flights   backend.FlightsAPI
	Users     backend.UserLister
	Addresses backend.AddressesAPI
	Sessions  backend.SessionsAPI
}

type Deps struct {
	BaseURL   string
	Timeout   time.Duration
	Providers []string

	// Optional.
	Repositories *Repositories
	OfferCache   flights.OfferCache
	Claimer      login.CallbackClaimer
	ClaimTTL     time.Duration
	Producer     booking.Producer

	BookingTopic       string
	NotificationsTopic string

	Log zerolog.Logger
	Now func() time.Time
}

func NewFactory(deps Deps) Factory {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return func(id uuid.UUID) (*Session, error) {
		log := deps.Log.With().Str("client", id.String()).Logger()

		remote, err := backend.NewClient(deps.BaseURL, deps.Timeout, log)
		if err != nil {
			return nil, fmt.Errorf("backend client: %w", err)
		}
		be := remote.Backend()
		if repos := deps.Repositories; repos != nil {
			be.Offers = repos.Offers
			be.Flights = repos.Flights
			be.Users = backend.ComposedUsers{UserLister: repos.Users, UserCreator: remote}
			be.Addresses = repos.Addresses
			be.Sessions = repos.Sessions
		}

		identity := store.NewIdentityStore()
		draft := store.NewDraftStore(deps.Now())

		loginOpts := []login.OrchestratorOption{login.WithLogger(log), login.WithExchangeTimeout(deps.Timeout)}
		if len(deps.Providers) > 0 {
			loginOpts = append(loginOpts, login.WithProviders(deps.Providers...))
		}
		if deps.Claimer != nil {
			loginOpts = append(loginOpts, login.WithClaimer(deps.Claimer, deps.ClaimTTL))
		}

		bookingOpts := []booking.PipelineOption{booking.WithLogger(log), booking.WithClock(deps.Now)}
		if deps.Producer != nil {
			bookingOpts = append(bookingOpts,
				booking.WithProducer(deps.Producer, deps.BookingTopic),
				booking.WithNotificationsTopic(deps.NotificationsTopic),
			)
		}

		catalog := flights.NewCatalogService(be.Offers, be.Flights, deps.OfferCache, log)
		reconciler := reconcile.NewReconciler(catalog, be.Offers, be.Users, log)

		return &Session{
			ID:         id,
			Identity:   identity,
			Draft:      draft,
			Backend:    be,
			Login:      login.NewOrchestrator(identity, be.Login, be.Users, loginOpts...),
			Catalog:    catalog,
			Booking:    booking.NewPipeline(identity, draft, catalog, catalog, be.Addresses, bookingOpts...),
			Profile:    profile.NewService(identity, be.Addresses, be.Sessions, reconciler, log),
			Management: management.NewService(identity, catalog, reconciler),
		}, nil
	}
}
