package email

import (
	"bytes"
	"context"
	"testing"

	"github.com/Domenick1991/skyrocket/internal/kafka"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSender_Send(t *testing.T) {
	var buf bytes.Buffer
	sender := NewSender(zerolog.New(&buf))

	err := sender.Send(context.Background(), kafka.BookingEvent{
		Type:      kafka.EventBookingCreated,
		Email:     "ada@example.com",
		OfferID:   1,
		Seats:     2,
		Departure: "EDDS",
		Arrival:   "EDDF",
	})

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `"to":"ada@example.com"`)
	assert.Contains(t, buf.String(), `"route":"EDDS-EDDF"`)
}

func TestSender_Send_NoRecipient(t *testing.T) {
	sender := NewSender(zerolog.Nop())

	err := sender.Send(context.Background(), kafka.BookingEvent{Type: kafka.EventBookingCreated})

	assert.ErrorIs(t, err, ErrNoRecipient)
}
