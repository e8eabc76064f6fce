package store

import (
	"sync"
	"time"

	"github.com/Domenick1991/skyrocket/internal/domain"
)

// DisplayDateLayout is how travel dates are shown on the booking view.
const DisplayDateLayout = "Jan 02 2006"

// DraftStore relays the trip search of one client between views. It does no
// validation; the booking pipeline validates what it reads.
type DraftStore struct {
	mu           sync.RWMutex
	departure    string
	arrival      string
	travelPeriod domain.TravelPeriod
}

func NewDraftStore(now time.Time) *DraftStore {
	return &DraftStore{
		travelPeriod: domain.TravelPeriod{DateDeparture: now, DateArrival: now},
	}
}

func (s *DraftStore) SetDeparture(departure string) {
	s.mu.Lock()
	s.departure = departure
	s.mu.Unlock()
}

func (s *DraftStore) SetArrival(arrival string) {
	s.mu.Lock()
	s.arrival = arrival
	s.mu.Unlock()
}

func (s *DraftStore) SetTravelPeriod(period domain.TravelPeriod) {
	s.mu.Lock()
	s.travelPeriod = period
	s.mu.Unlock()
}

// Replace writes a whole search submission at once.
func (s *DraftStore) Replace(d domain.Draft) {
	s.mu.Lock()
	s.departure = d.Departure
	s.arrival = d.Arrival
	s.travelPeriod = d.TravelPeriod
	s.mu.Unlock()
}

func (s *DraftStore) Departure() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.departure
}

func (s *DraftStore) Arrival() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.arrival
}

func (s *DraftStore) DateDeparture() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.travelPeriod.DateDeparture
}

func (s *DraftStore) DateArrival() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.travelPeriod.DateArrival
}

func (s *DraftStore) Snapshot() domain.Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Draft{
		Departure:    s.departure,
		Arrival:      s.arrival,
		TravelPeriod: s.travelPeriod,
	}
}
