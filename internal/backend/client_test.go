package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/skyrocket/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, time.Second, zerolog.Nop())
	require.NoError(t, err)
	return c
}

func TestClient_ListOffersEncodesRoute(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/offers", r.URL.Path)
		assert.Equal(t, "EDDS", r.URL.Query().Get("departure"))
		assert.Equal(t, "EDDF", r.URL.Query().Get("arrival"))
		_ = json.NewEncoder(w).Encode([]domain.Offer{{ID: 1, DepartureICAO: "EDDS", ArrivalICAO: "EDDF", Seats: 10, Price: 100, Currency: domain.CurrencyEuro}})
	})

	offers, err := c.ListOffers(context.Background(), "EDDS", "EDDF")
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, int64(1), offers[0].ID)
}

func TestClient_ListOffersWithoutRouteHasNoQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`[]`))
	})

	offers, err := c.ListOffers(context.Background(), "", "")
	require.NoError(t, err)
	assert.Empty(t, offers)
}

func TestClient_ExchangeCodeResolvesIdentity(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/users/login/github", r.URL.Path)
		assert.Equal(t, "abc", r.URL.Query().Get("code"))
		_, _ = w.Write([]byte(`{"firstname":"A","lastname":"B","email":"a@b.co"}`))
	})

	id, err := c.ExchangeCode(context.Background(), "github", "abc")
	require.NoError(t, err)
	assert.Equal(t, domain.Unregistered{Firstname: "A", Lastname: "B", Email: "a@b.co"}, id)
}

func TestClient_ExchangeCodeFailureIsExternalAuthError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad_verification_code"}`))
	})

	_, err := c.ExchangeCode(context.Background(), "github", "expired")
	require.Error(t, err)

	var authErr *domain.ExternalAuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "github", authErr.Provider)

	var te *domain.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusBadRequest, te.StatusCode)
	assert.Contains(t, te.Error(), "bad_verification_code")
}

func TestClient_ProfileUnauthorizedIsAnonymous(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	id, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Anonymous{}, id)
}

func TestClient_CreateBookingPostsSeats(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/offers/4/bookings", r.URL.Path)
		var body bookingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 3, body.Seats)
		_, _ = w.Write([]byte(`{"offerId":4,"seats":3}`))
	})

	b, err := c.CreateBooking(context.Background(), 4, 3)
	require.NoError(t, err)
	assert.Equal(t, &domain.Booking{OfferID: 4, Seats: 3}, b)
}

func TestClient_ProvidersSkipsUnconfigured(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"github":"https://github.com/login/oauth/authorize?client_id=x","gitlab":null}`))
	})

	providers, err := c.Providers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"github": "https://github.com/login/oauth/authorize?client_id=x"}, providers)
}

func TestClient_TransportFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.ListUsers(context.Background())
	var te *domain.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "list users", te.Op)
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
}

func TestActorRoundTrip(t *testing.T) {
	_, ok := ActorFrom(context.Background())
	assert.False(t, ok)

	id, ok := ActorFrom(WithActor(context.Background(), 9))
	assert.True(t, ok)
	assert.Equal(t, int64(9), id)
}
