// Package booking drives the three-step booking form of one client, from
// offer selection to the booking-creation call.
package booking

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/skyrocket/internal/backend"
	"github.com/Domenick1991/skyrocket/internal/domain"
	"github.com/Domenick1991/skyrocket/internal/form"
	"github.com/Domenick1991/skyrocket/internal/kafka"
	"github.com/Domenick1991/skyrocket/internal/service/login"
	"github.com/Domenick1991/skyrocket/internal/store"
	"github.com/rs/zerolog"
)

const (
	StepFlight    = "flight"
	StepPassenger = "passenger"
	StepAddress   = "address"

	MaxSeats = 2000
)

type OfferLister interface {
	ListOffers(ctx context.Context, departure, arrival string) ([]domain.Offer, error)
}

type BookingCreator interface {
	CreateBooking(ctx context.Context, offerID int64, seats int) (*domain.Booking, error)
}

type AddressLister interface {
	ListAddresses(ctx context.Context, userID int64) ([]domain.Address, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type PipelineOption func(*Pipeline)

// WithProducer publishes a booking_created event after every submission.
func WithProducer(p Producer, bookingTopic string) PipelineOption {
	return func(pl *Pipeline) {
		pl.producer = p
		pl.bookingTopic = bookingTopic
	}
}

func WithNotificationsTopic(topic string) PipelineOption {
	return func(pl *Pipeline) {
		pl.notificationsTopic = topic
	}
}

func WithLogger(log zerolog.Logger) PipelineOption {
	return func(pl *Pipeline) {
		pl.log = log
	}
}

func WithClock(now func() time.Time) PipelineOption {
	return func(pl *Pipeline) {
		pl.now = now
	}
}

type Pipeline struct {
	identity  *store.IdentityStore
	draft     *store.DraftStore
	offers    OfferLister
	bookings  BookingCreator
	addresses AddressLister

	producer           Producer
	bookingTopic       string
	notificationsTopic string
	log                zerolog.Logger
	now                func() time.Time

	mu      sync.Mutex
	steps   []*form.Step
	offered map[int64]domain.Offer
}

func NewPipeline(
	identity *store.IdentityStore,
	draft *store.DraftStore,
	offers OfferLister,
	bookings BookingCreator,
	addresses AddressLister,
	opts ...PipelineOption,
) *Pipeline {
	p := &Pipeline{
		identity:  identity,
		draft:     draft,
		offers:    offers,
		bookings:  bookings,
		addresses: addresses,
		log:       zerolog.Nop(),
		now:       time.Now,
		offered:   make(map[int64]domain.Offer),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) newSteps() []*form.Step {
	return []*form.Step{
		form.NewStep(StepFlight,
			form.NewField("offer", "", form.Required(), form.Integer()),
			form.NewField("seats", "", form.Required(), form.Integer(), form.Min(1), form.Max(MaxSeats)),
		),
		form.NewStep(StepPassenger,
			form.NewField("firstname", p.identity.Firstname(), form.Required()),
			form.NewField("lastname", p.identity.Lastname(), form.Required()),
		),
		form.NewStep(StepAddress,
			form.NewField("address", "", form.Required(), form.Integer()),
		),
	}
}

// Start opens a fresh form. Passenger names are taken from the identity held
// at this moment.
func (p *Pipeline) Start() []*form.Step {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.steps = p.newSteps()
	return p.snapshot()
}

// Steps returns a copy of the current form, starting one if needed.
func (p *Pipeline) Steps() []*form.Step {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.steps == nil {
		p.steps = p.newSteps()
	}
	return p.snapshot()
}

func (p *Pipeline) snapshot() []*form.Step {
	out := make([]*form.Step, len(p.steps))
	for i, s := range p.steps {
		out[i] = s.Clone()
	}
	return out
}

func (p *Pipeline) step(name string) (*form.Step, error) {
	if p.steps == nil {
		p.steps = p.newSteps()
	}
	for _, s := range p.steps {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownStep, name)
}

// Fill writes values into one step and reports whether it validates. The
// values are kept either way so the form stays editable.
func (p *Pipeline) Fill(stepName string, values map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, err := p.step(stepName)
	if err != nil {
		return err
	}
	if err := s.Fill(values); err != nil {
		return err
	}
	return s.Validate()
}

// Offers lists the offers for the route held in the draft. Offers with an
// empty airport code are dropped.
func (p *Pipeline) Offers(ctx context.Context) ([]domain.Offer, error) {
	offers, err := p.offers.ListOffers(ctx, p.draft.Departure(), p.draft.Arrival())
	if err != nil {
		return nil, err
	}

	usable := make([]domain.Offer, 0, len(offers))
	for _, o := range offers {
		if strings.TrimSpace(o.DepartureICAO) == "" || strings.TrimSpace(o.ArrivalICAO) == "" {
			continue
		}
		usable = append(usable, o)
	}

	p.mu.Lock()
	for _, o := range usable {
		p.offered[o.ID] = o
	}
	p.mu.Unlock()

	return usable, nil
}

// Addresses lists the delivery addresses of the logged-in user.
func (p *Pipeline) Addresses(ctx context.Context) ([]domain.Address, error) {
	if !p.identity.IsLoggedIn() {
		return nil, domain.ErrNotLoggedIn
	}
	return p.addresses.ListAddresses(ctx, p.identity.ID())
}

// Submit creates the booking once every step validates. The first failing
// step is returned as a *domain.ValidationError and nothing is sent.
func (p *Pipeline) Submit(ctx context.Context) (login.Destination, error) {
	if !p.identity.IsLoggedIn() {
		return "", domain.ErrNotLoggedIn
	}

	p.mu.Lock()
	if p.steps == nil {
		p.steps = p.newSteps()
	}
	for _, s := range p.steps {
		if err := s.Validate(); err != nil {
			p.mu.Unlock()
			return "", err
		}
	}
	flight, _ := p.step(StepFlight)
	offerID, _ := strconv.ParseInt(strings.TrimSpace(flight.Value("offer")), 10, 64)
	seats, _ := strconv.Atoi(strings.TrimSpace(flight.Value("seats")))
	offer, known := p.offered[offerID]
	p.mu.Unlock()

	userID := p.identity.ID()
	if _, err := p.bookings.CreateBooking(backend.WithActor(ctx, userID), offerID, seats); err != nil {
		p.log.Error().Err(err).Int64("offer_id", offerID).Msg("booking creation failed")
		return "", err
	}

	event := kafka.BookingEvent{
		Type:      kafka.EventBookingCreated,
		UserID:    userID,
		Email:     p.identity.Email(),
		OfferID:   offerID,
		Seats:     seats,
		Departure: domain.NotAvailable,
		Arrival:   domain.NotAvailable,
		CreatedAt: p.now().UTC(),
	}
	if known {
		event.Departure = offer.DepartureICAO
		event.Arrival = offer.ArrivalICAO
	}
	p.publish(ctx, event)

	p.mu.Lock()
	p.steps = nil
	p.mu.Unlock()

	p.log.Info().Int64("offer_id", offerID).Int("seats", seats).Msg("booking created")
	return login.DestinationProfile, nil
}

// publish never fails the booking; delivery problems are logged.
func (p *Pipeline) publish(ctx context.Context, event kafka.BookingEvent) {
	if p.producer == nil {
		return
	}
	for _, topic := range []string{p.bookingTopic, p.notificationsTopic} {
		if topic == "" {
			continue
		}
		if err := p.producer.Publish(ctx, topic, event.Key(), event); err != nil {
			p.log.Warn().Err(err).Str("topic", topic).Int64("offer_id", event.OfferID).Msg("failed to publish booking event")
		}
	}
}
