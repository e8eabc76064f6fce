package store

import (
	"testing"
	"time"

	"github.com/Domenick1991/skyrocket/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDraftStore_Defaults(t *testing.T) {
	created := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	s := NewDraftStore(created)

	assert.Empty(t, s.Departure())
	assert.Empty(t, s.Arrival())
	assert.Equal(t, created, s.DateDeparture())
	assert.Equal(t, created, s.DateArrival())
}

func TestDraftStore_SharedAcrossReaders(t *testing.T) {
	s := NewDraftStore(time.Now())

	// search view writes
	writer := s
	writer.SetDeparture("EDDS")
	writer.SetArrival("EDDF")
	period := domain.TravelPeriod{
		DateDeparture: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		DateArrival:   time.Date(2026, 11, 8, 0, 0, 0, 0, time.UTC),
	}
	writer.SetTravelPeriod(period)

	// booking view reads through its own reference
	reader := s
	assert.Equal(t, "EDDS", reader.Departure())
	assert.Equal(t, "EDDF", reader.Arrival())
	assert.Equal(t, period.DateDeparture, reader.DateDeparture())
	assert.Equal(t, period.DateArrival, reader.DateArrival())
}

func TestDraftStore_ReplaceIsLastWriteWins(t *testing.T) {
	s := NewDraftStore(time.Now())
	s.SetDeparture("EDDH")

	d := domain.Draft{
		Departure: "EDDS",
		Arrival:   "LOWW",
		TravelPeriod: domain.TravelPeriod{
			DateDeparture: time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC),
			DateArrival:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		},
	}
	s.Replace(d)

	assert.Equal(t, d, s.Snapshot())
	assert.Equal(t, "Dec 24 2026", s.DateDeparture().Format(DisplayDateLayout))
}
