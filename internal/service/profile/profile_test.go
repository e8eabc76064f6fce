package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/skyrocket/internal/domain"
	"github.com/Domenick1991/skyrocket/internal/service/reconcile"
	"github.com/Domenick1991/skyrocket/internal/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAddresses struct {
	mock.Mock
}

func (m *MockAddresses) ListAddresses(ctx context.Context, userID int64) ([]domain.Address, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Address), args.Error(1)
}

func (m *MockAddresses) CreateAddress(ctx context.Context, addr domain.NewAddress, userID int64) (*domain.Address, error) {
	args := m.Called(ctx, addr, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Address), args.Error(1)
}

type MockSessions struct {
	mock.Mock
}

func (m *MockSessions) ListSessions(ctx context.Context, userID int64) ([]domain.Session, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Session), args.Error(1)
}

func (m *MockSessions) RevokeSession(ctx context.Context, userID, sessionID int64) error {
	args := m.Called(ctx, userID, sessionID)
	return args.Error(0)
}

type MockTable struct {
	mock.Mock
}

func (m *MockTable) ForUser(ctx context.Context, userID int64, observe reconcile.Observer) ([]domain.Row, error) {
	args := m.Called(ctx, userID, observe)
	return args.Get(0).([]domain.Row), args.Error(1)
}

func newService(identity domain.Identity) (*Service, *MockAddresses, *MockSessions, *MockTable) {
	ids := store.NewIdentityStore()
	ids.SetIdentity(identity)
	addresses := &MockAddresses{}
	sessions := &MockSessions{}
	table := &MockTable{}
	return NewService(ids, addresses, sessions, table, zerolog.Nop()), addresses, sessions, table
}

var ada = domain.Registered{ID: 7, Firstname: "Ada", Lastname: "Lovelace", Email: "ada@example.com"}

func TestService_RequiresLogin(t *testing.T) {
	service, addresses, sessions, table := newService(domain.Unregistered{Email: "a@b.co"})
	ctx := context.Background()

	_, err := service.Addresses(ctx)
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
	_, err = service.CreateAddress(ctx, map[string]string{})
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
	_, err = service.Sessions(ctx)
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
	assert.ErrorIs(t, service.RevokeSession(ctx, 1), domain.ErrNotLoggedIn)
	_, err = service.Bookings(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)

	addresses.AssertNotCalled(t, "ListAddresses", mock.Anything, mock.Anything)
	sessions.AssertNotCalled(t, "ListSessions", mock.Anything, mock.Anything)
	table.AssertNotCalled(t, "ForUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CreateAddress(t *testing.T) {
	service, addresses, _, _ := newService(ada)

	expected := domain.NewAddress{Country: "Germany", PostalCode: 70173, Town: "Stuttgart", Street: "Koenigstrasse", HouseNumber: 1}
	addresses.On("CreateAddress", mock.Anything, expected, int64(7)).Return(&domain.Address{ID: 3, UserID: 7}, nil).Once()

	addr, err := service.CreateAddress(context.Background(), map[string]string{
		"country":     "Germany",
		"postalCode":  "70173",
		"town":        "Stuttgart",
		"street":      " Koenigstrasse ",
		"houseNumber": "1",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), addr.ID)
	addresses.AssertExpectations(t)
}

func TestService_CreateAddress_Validation(t *testing.T) {
	service, addresses, _, _ := newService(ada)

	_, err := service.CreateAddress(context.Background(), map[string]string{
		"country":     "Germany",
		"postalCode":  "ABC",
		"houseNumber": "0",
	})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "postalCode")
	assert.Contains(t, verr.Fields, "houseNumber")
	assert.Contains(t, verr.Fields, "town")
	assert.Contains(t, verr.Fields, "street")
	addresses.AssertNotCalled(t, "CreateAddress", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Sessions(t *testing.T) {
	service, _, sessions, _ := newService(ada)
	ctx := context.Background()

	sessions.On("ListSessions", ctx, int64(7)).Return([]domain.Session{{ID: 1, UserID: 7}}, nil).Once()
	sessions.On("RevokeSession", ctx, int64(7), int64(1)).Return(nil).Once()

	list, err := service.Sessions(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.NoError(t, service.RevokeSession(ctx, 1))
	sessions.AssertExpectations(t)
}

func TestService_RevokeSessionError(t *testing.T) {
	service, _, sessions, _ := newService(ada)
	ctx := context.Background()

	cause := &domain.TransportError{Op: "revoke session", StatusCode: 404, Err: errors.New("not found")}
	sessions.On("RevokeSession", ctx, int64(7), int64(9)).Return(cause).Once()

	assert.ErrorIs(t, service.RevokeSession(ctx, 9), cause)
}

func TestService_Bookings(t *testing.T) {
	service, _, _, table := newService(ada)
	ctx := context.Background()

	rows := []domain.Row{{OfferID: 1, Departure: "EDDS", Arrival: "EDDF", Seats: 2}}
	table.On("ForUser", ctx, int64(7), mock.Anything).Return(rows, nil).Once()

	result, err := service.Bookings(ctx, nil)

	require.NoError(t, err)
	assert.Equal(t, rows, result)
}
