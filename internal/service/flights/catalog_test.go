package flights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/skyrocket/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOffersAPI struct {
	mock.Mock
}

func (m *MockOffersAPI) ListOffers(ctx context.Context, departure, arrival string) ([]domain.Offer, error) {
	args := m.Called(ctx, departure, arrival)
	return args.Get(0).([]domain.Offer), args.Error(1)
}

func (m *MockOffersAPI) CreateOffer(ctx context.Context, offer domain.NewOffer) (*domain.Offer, error) {
	args := m.Called(ctx, offer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}

func (m *MockOffersAPI) CreateBooking(ctx context.Context, offerID int64, seats int) (*domain.Booking, error) {
	args := m.Called(ctx, offerID, seats)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockOffersAPI) ListBookingsForUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockFlightsAPI struct {
	mock.Mock
}

func (m *MockFlightsAPI) ListFlightsForOffer(ctx context.Context, offerID int64) ([]domain.Flight, error) {
	args := m.Called(ctx, offerID)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightsAPI) CreateFlights(ctx context.Context, flights []domain.NewFlight, offerID int64) error {
	args := m.Called(ctx, flights, offerID)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetOffers(ctx context.Context, departure, arrival string) ([]domain.Offer, error) {
	args := m.Called(ctx, departure, arrival)
	return args.Get(0).([]domain.Offer), args.Error(1)
}

func (m *MockCache) SetOffers(ctx context.Context, departure, arrival string, offers []domain.Offer) error {
	args := m.Called(ctx, departure, arrival, offers)
	return args.Error(0)
}

func (m *MockCache) InvalidateOffers(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var testOffers = []domain.Offer{
	{ID: 1, DepartureICAO: "EDDS", ArrivalICAO: "EDDF", Seats: 10, Price: 100, Currency: domain.CurrencyEuro},
	{ID: 2, DepartureICAO: "EDDF", ArrivalICAO: "KJFK", Seats: 200, Price: 499.5, Currency: domain.CurrencyDollar},
}

func TestCatalogService_ListOffers_CacheMiss(t *testing.T) {
	offers := &MockOffersAPI{}
	cache := &MockCache{}
	service := NewCatalogService(offers, &MockFlightsAPI{}, cache, zerolog.Nop())
	ctx := context.Background()

	cache.On("GetOffers", ctx, "EDDS", "EDDF").Return(([]domain.Offer)(nil), nil).Once()
	offers.On("ListOffers", ctx, "EDDS", "EDDF").Return(testOffers[:1], nil).Once()
	cache.On("SetOffers", ctx, "EDDS", "EDDF", testOffers[:1]).Return(nil).Once()

	result, err := service.ListOffers(ctx, "EDDS", "EDDF")

	assert.NoError(t, err)
	assert.Equal(t, testOffers[:1], result)
	cache.AssertExpectations(t)
	offers.AssertExpectations(t)
}

func TestCatalogService_ListOffers_CacheHit(t *testing.T) {
	offers := &MockOffersAPI{}
	cache := &MockCache{}
	service := NewCatalogService(offers, &MockFlightsAPI{}, cache, zerolog.Nop())
	ctx := context.Background()

	cache.On("GetOffers", ctx, "", "").Return(testOffers, nil).Once()

	result, err := service.ListOffers(ctx, "", "")

	assert.NoError(t, err)
	assert.Equal(t, testOffers, result)
	offers.AssertNotCalled(t, "ListOffers")
	cache.AssertNotCalled(t, "SetOffers")
}

func TestCatalogService_ListOffers_CacheErrorFallsThrough(t *testing.T) {
	offers := &MockOffersAPI{}
	cache := &MockCache{}
	service := NewCatalogService(offers, &MockFlightsAPI{}, cache, zerolog.Nop())
	ctx := context.Background()

	cache.On("GetOffers", ctx, "", "").Return(([]domain.Offer)(nil), errors.New("cache error")).Once()
	offers.On("ListOffers", ctx, "", "").Return(testOffers, nil).Once()
	cache.On("SetOffers", ctx, "", "", testOffers).Return(errors.New("cache down")).Once()

	result, err := service.ListOffers(ctx, "", "")

	assert.NoError(t, err)
	assert.Equal(t, testOffers, result)
	cache.AssertExpectations(t)
}

func TestCatalogService_ListOffers_CollaboratorError(t *testing.T) {
	offers := &MockOffersAPI{}
	service := NewCatalogService(offers, &MockFlightsAPI{}, nil, zerolog.Nop())
	ctx := context.Background()

	expectedErr := &domain.TransportError{Op: "list offers", StatusCode: 503, Err: errors.New("unavailable")}
	offers.On("ListOffers", ctx, "", "").Return([]domain.Offer{}, expectedErr).Once()

	result, err := service.ListOffers(ctx, "", "")

	assert.Nil(t, result)
	assert.Equal(t, expectedErr, err)
}

func TestCatalogService_AllFlights_KeepsOfferOrder(t *testing.T) {
	offers := &MockOffersAPI{}
	flights := &MockFlightsAPI{}
	service := NewCatalogService(offers, flights, nil, zerolog.Nop())

	first := make(chan time.Time)
	offers.On("ListOffers", mock.Anything, "", "").Return(testOffers, nil).Once()
	flights.On("ListFlightsForOffer", mock.Anything, int64(1)).WaitUntil(first).
		Return([]domain.Flight{{ID: 10, OfferID: 1}, {ID: 11, OfferID: 1}}, nil).Once()
	flights.On("ListFlightsForOffer", mock.Anything, int64(2)).
		Run(func(mock.Arguments) { close(first) }).
		Return([]domain.Flight{{ID: 20, OfferID: 2}}, nil).Once()

	result, err := service.AllFlights(context.Background())

	require.NoError(t, err)
	ids := make([]int64, 0, len(result))
	for _, f := range result {
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []int64{10, 11, 20}, ids)
}

func TestCatalogService_AllFlights_Error(t *testing.T) {
	offers := &MockOffersAPI{}
	flights := &MockFlightsAPI{}
	service := NewCatalogService(offers, flights, nil, zerolog.Nop())

	offers.On("ListOffers", mock.Anything, "", "").Return(testOffers[:1], nil).Once()
	flights.On("ListFlightsForOffer", mock.Anything, int64(1)).Return([]domain.Flight(nil), errors.New("boom")).Once()

	result, err := service.AllFlights(context.Background())

	assert.Nil(t, result)
	assert.ErrorContains(t, err, "flights of offer 1")
}

func TestLabels(t *testing.T) {
	labels := Labels(testOffers)

	assert.Equal(t, []OfferLabel{
		{ID: 1, Label: "ID 1, 10 seats, 100 Euro"},
		{ID: 2, Label: "ID 2, 200 seats, 499.5 Dollar"},
	}, labels)
}

func TestCatalogService_CreateOffer(t *testing.T) {
	offers := &MockOffersAPI{}
	cache := &MockCache{}
	service := NewCatalogService(offers, &MockFlightsAPI{}, cache, zerolog.Nop())
	ctx := context.Background()

	created := &domain.Offer{ID: 3, Seats: 150, Price: 250, Currency: domain.CurrencyEuro}
	offers.On("CreateOffer", ctx, domain.NewOffer{Seats: 150, Price: 250, Currency: domain.CurrencyEuro}).Return(created, nil).Once()
	cache.On("InvalidateOffers", ctx).Return(nil).Once()

	result, err := service.CreateOffer(ctx, map[string]string{"seats": "150", "price": "250", "currency": "Euro"})

	assert.NoError(t, err)
	assert.Equal(t, created, result)
	offers.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCatalogService_CreateOffer_Validation(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		field  string
	}{
		{name: "too many seats", values: map[string]string{"seats": "2001", "price": "10", "currency": "Euro"}, field: "seats"},
		{name: "no seats", values: map[string]string{"seats": "0", "price": "10", "currency": "Euro"}, field: "seats"},
		{name: "price too high", values: map[string]string{"seats": "5", "price": "100000", "currency": "Euro"}, field: "price"},
		{name: "missing currency", values: map[string]string{"seats": "5", "price": "10"}, field: "currency"},
		{name: "unknown currency", values: map[string]string{"seats": "5", "price": "10", "currency": "Yen"}, field: "currency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offers := &MockOffersAPI{}
			service := NewCatalogService(offers, &MockFlightsAPI{}, nil, zerolog.Nop())

			result, err := service.CreateOffer(context.Background(), tt.values)

			assert.Nil(t, result)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
			offers.AssertNotCalled(t, "CreateOffer", mock.Anything, mock.Anything)
		})
	}
}

func TestCatalogService_CreateFlight(t *testing.T) {
	flights := &MockFlightsAPI{}
	cache := &MockCache{}
	service := NewCatalogService(&MockOffersAPI{}, flights, cache, zerolog.Nop())
	ctx := context.Background()

	expected := []domain.NewFlight{{
		DepartureICAO: "EDDS",
		DepartureTime: domain.NewDateTime(time.Date(2026, 5, 1, 8, 30, 0, 0, time.UTC)),
		ArrivalICAO:   "EDDF",
		ArrivalTime:   domain.NewDateTime(time.Date(2026, 5, 1, 9, 45, 0, 0, time.UTC)),
	}}
	flights.On("CreateFlights", ctx, expected, int64(1)).Return(nil).Once()
	cache.On("InvalidateOffers", ctx).Return(nil).Once()

	err := service.CreateFlight(ctx, 1, map[string]string{
		"departureIcao": "edds",
		"departureTime": "2026-05-01T08:30",
		"arrivalIcao":   "EDDF",
		"arrivalTime":   "2026-05-01T09:45:00Z",
	})

	assert.NoError(t, err)
	flights.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCatalogService_CreateFlight_Validation(t *testing.T) {
	flights := &MockFlightsAPI{}
	service := NewCatalogService(&MockOffersAPI{}, flights, nil, zerolog.Nop())

	err := service.CreateFlight(context.Background(), 1, map[string]string{
		"departureIcao": "EDDS",
		"departureTime": "tomorrow",
	})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, StepFlight, verr.Step)
	assert.Contains(t, verr.Fields, "departureTime")
	assert.Contains(t, verr.Fields, "arrivalIcao")
	assert.Contains(t, verr.Fields, "arrivalTime")
	flights.AssertNotCalled(t, "CreateFlights", mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogService_CreateBooking_InvalidatesCache(t *testing.T) {
	offers := &MockOffersAPI{}
	cache := &MockCache{}
	service := NewCatalogService(offers, &MockFlightsAPI{}, cache, zerolog.Nop())
	ctx := context.Background()

	created := &domain.Booking{OfferID: 1, Seats: 2}
	offers.On("CreateBooking", ctx, int64(1), 2).Return(created, nil).Once()
	cache.On("InvalidateOffers", ctx).Return(nil).Once()

	result, err := service.CreateBooking(ctx, 1, 2)

	assert.NoError(t, err)
	assert.Equal(t, created, result)
	offers.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCatalogService_CreateBooking_FailureKeepsCache(t *testing.T) {
	offers := &MockOffersAPI{}
	cache := &MockCache{}
	service := NewCatalogService(offers, &MockFlightsAPI{}, cache, zerolog.Nop())
	ctx := context.Background()

	offers.On("CreateBooking", ctx, int64(1), 2).Return(nil, domain.ErrNotEnoughSeats).Once()

	_, err := service.CreateBooking(ctx, 1, 2)

	assert.ErrorIs(t, err, domain.ErrNotEnoughSeats)
	cache.AssertNotCalled(t, "InvalidateOffers", mock.Anything)
}
