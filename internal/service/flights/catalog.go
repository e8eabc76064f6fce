// Package flights serves the offer and flight catalogue used by the booking
// and management views.
package flights

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Domenick1991/skyrocket/internal/backend"
	"github.com/Domenick1991/skyrocket/internal/domain"
	"github.com/Domenick1991/skyrocket/internal/form"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	StepOffer  = "offer"
	StepFlight = "flight"

	MaxOfferSeats = 2000
	MaxOfferPrice = 99999
)

type CatalogUseCase interface {
	ListOffers(ctx context.Context, departure, arrival string) ([]domain.Offer, error)
	ListFlights(ctx context.Context, offerID int64) ([]domain.Flight, error)
	AllFlights(ctx context.Context) ([]domain.Flight, error)
	CreateOffer(ctx context.Context, values map[string]string) (*domain.Offer, error)
	CreateFlight(ctx context.Context, offerID int64, values map[string]string) error
}

// OfferCache keeps offer listings per route. GetOffers returns nil, nil on a miss.
type OfferCache interface {
	GetOffers(ctx context.Context, departure, arrival string) ([]domain.Offer, error)
	SetOffers(ctx context.Context, departure, arrival string, offers []domain.Offer) error
	InvalidateOffers(ctx context.Context) error
}

type CatalogService struct {
	offers  backend.OffersAPI
	flights backend.FlightsAPI
	cache   OfferCache
	log     zerolog.Logger
}

// NewCatalogService accepts a nil cache.
func NewCatalogService(offers backend.OffersAPI, flights backend.FlightsAPI, cache OfferCache, log zerolog.Logger) *CatalogService {
	return &CatalogService{
		offers:  offers,
		flights: flights,
		cache:   cache,
		log:     log.With().Str("component", "catalog").Logger(),
	}
}

// ListOffers reads through the cache. Cache failures fall through to the
// collaborator.
func (s *CatalogService) ListOffers(ctx context.Context, departure, arrival string) ([]domain.Offer, error) {
	if s.cache != nil {
		cached, err := s.cache.GetOffers(ctx, departure, arrival)
		if err == nil && cached != nil {
			return cached, nil
		}
		if err != nil {
			s.log.Warn().Err(err).Msg("offer cache read failed")
		}
	}

	offers, err := s.offers.ListOffers(ctx, departure, arrival)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetOffers(ctx, departure, arrival, offers); err != nil {
			s.log.Warn().Err(err).Msg("offer cache write failed")
		}
	}
	return offers, nil
}

func (s *CatalogService) ListFlights(ctx context.Context, offerID int64) ([]domain.Flight, error) {
	return s.flights.ListFlightsForOffer(ctx, offerID)
}

// AllFlights concatenates the flights of every offer in offer order.
func (s *CatalogService) AllFlights(ctx context.Context) ([]domain.Flight, error) {
	offers, err := s.ListOffers(ctx, "", "")
	if err != nil {
		return nil, err
	}

	perOffer := make([][]domain.Flight, len(offers))
	g, gctx := errgroup.WithContext(ctx)
	for i, offer := range offers {
		g.Go(func() error {
			flights, err := s.flights.ListFlightsForOffer(gctx, offer.ID)
			if err != nil {
				return fmt.Errorf("flights of offer %d: %w", offer.ID, err)
			}
			perOffer[i] = flights
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make([]domain.Flight, 0)
	for _, flights := range perOffer {
		all = append(all, flights...)
	}
	return all, nil
}

type OfferLabel struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// Label renders an offer as "ID 1, 10 seats, 100 Euro".
func Label(o domain.Offer) string {
	return fmt.Sprintf("ID %d, %d seats, %s %s", o.ID, o.Seats, strconv.FormatFloat(o.Price, 'f', -1, 64), o.Currency)
}

func Labels(offers []domain.Offer) []OfferLabel {
	labels := make([]OfferLabel, 0, len(offers))
	for _, o := range offers {
		labels = append(labels, OfferLabel{ID: o.ID, Label: Label(o)})
	}
	return labels
}

func OfferForm() *form.Step {
	return form.NewStep(StepOffer,
		form.NewField("seats", "", form.Required(), form.Integer(), form.Min(1), form.Max(MaxOfferSeats)),
		form.NewField("price", "", form.Required(), form.Min(1), form.Max(MaxOfferPrice)),
		form.NewField("currency", "", form.Required(), form.OneOf(string(domain.CurrencyDollar), string(domain.CurrencyEuro))),
	)
}

func FlightForm() *form.Step {
	return form.NewStep(StepFlight,
		form.NewField("departureIcao", "", form.Required()),
		form.NewField("departureTime", "", form.Required(), dateTime()),
		form.NewField("arrivalIcao", "", form.Required()),
		form.NewField("arrivalTime", "", form.Required(), dateTime()),
	)
}

func dateTime() form.Rule {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return ""
		}
		if _, err := domain.ParseDateTime(value); err != nil {
			return "must be a date and time"
		}
		return ""
	}
}

func (s *CatalogService) CreateOffer(ctx context.Context, values map[string]string) (*domain.Offer, error) {
	step := OfferForm()
	if err := step.Fill(values); err != nil {
		return nil, err
	}
	if err := step.Validate(); err != nil {
		return nil, err
	}

	seats, _ := strconv.Atoi(strings.TrimSpace(step.Value("seats")))
	price, _ := strconv.ParseFloat(strings.TrimSpace(step.Value("price")), 64)

	offer, err := s.offers.CreateOffer(ctx, domain.NewOffer{
		Seats:    seats,
		Price:    price,
		Currency: domain.Currency(step.Value("currency")),
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return offer, nil
}

func (s *CatalogService) CreateFlight(ctx context.Context, offerID int64, values map[string]string) error {
	step := FlightForm()
	if err := step.Fill(values); err != nil {
		return err
	}
	if err := step.Validate(); err != nil {
		return err
	}

	departure, _ := domain.ParseDateTime(step.Value("departureTime"))
	arrival, _ := domain.ParseDateTime(step.Value("arrivalTime"))

	flight := domain.NewFlight{
		DepartureICAO: strings.ToUpper(strings.TrimSpace(step.Value("departureIcao"))),
		DepartureTime: departure,
		ArrivalICAO:   strings.ToUpper(strings.TrimSpace(step.Value("arrivalIcao"))),
		ArrivalTime:   arrival,
	}
	if err := s.flights.CreateFlights(ctx, []domain.NewFlight{flight}, offerID); err != nil {
		return err
	}
	// An offer's route is derived from its flights.
	s.invalidate(ctx)
	return nil
}

// CreateBooking books seats on an offer. Cached listings carry occupancy,
// so they are dropped once the booking exists.
func (s *CatalogService) CreateBooking(ctx context.Context, offerID int64, seats int) (*domain.Booking, error) {
	created, err := s.offers.CreateBooking(ctx, offerID, seats)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return created, nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateOffers(ctx); err != nil {
		s.log.Warn().Err(err).Msg("offer cache invalidation failed")
	}
}

var _ CatalogUseCase = (*CatalogService)(nil)
