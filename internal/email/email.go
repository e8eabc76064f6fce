package email

import (
	"context"
	"errors"

	"github.com/Domenick1991/skyrocket/internal/kafka"
	"github.com/rs/zerolog"
)

var ErrNoRecipient = errors.New("event has no recipient")

// Sender delivers booking notifications. Delivery is a log line until a mail
// transport is configured.
type Sender struct {
	log zerolog.Logger
}

func NewSender(log zerolog.Logger) *Sender {
	return &Sender{log: log.With().Str("component", "email").Logger()}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if event.Email == "" {
		return ErrNoRecipient
	}
	s.log.Info().
		Str("to", event.Email).
		Str("type", event.Type).
		Int64("offer_id", event.OfferID).
		Int("seats", event.Seats).
		Str("route", event.Departure+"-"+event.Arrival).
		Msg("booking notification sent")
	return nil
}
