package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/Domenick1991/skyrocket/internal/domain"
	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"
)

// Client talks to the backend REST API. Every client context owns its own
// Client so the backend session cookie is never shared between browsers.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

type offerQuery struct {
	Departure string `url:"departure,omitempty"`
	Arrival   string `url:"arrival,omitempty"`
}

type codeQuery struct {
	Code string `url:"code"`
}

type bookingRequest struct {
	Seats int `json:"seats"`
}

type errorBody struct {
	Error string `json:"error"`
}

func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout, Jar: jar},
		log:     log.With().Str("component", "backend").Logger(),
	}, nil
}

// Backend exposes the client as the full collaborator set.
func (c *Client) Backend() Backend {
	return Backend{
		Login:     c,
		Offers:    c,
		Flights:   c,
		Users:     c,
		Addresses: c,
		Sessions:  c,
	}
}

func (c *Client) Providers(ctx context.Context) (map[string]string, error) {
	var providers map[string]*string
	if err := c.do(ctx, "list oauth providers", http.MethodGet, "/v1/users/login/oauth", nil, nil, &providers); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(providers))
	for name, link := range providers {
		if link != nil && *link != "" {
			out[name] = *link
		}
	}
	return out, nil
}

func (c *Client) ExchangeCode(ctx context.Context, provider, code string) (domain.Identity, error) {
	var raw json.RawMessage
	path := "/v1/users/login/" + url.PathEscape(provider)
	if err := c.do(ctx, "exchange oauth code", http.MethodPost, path, codeQuery{Code: code}, nil, &raw); err != nil {
		return nil, &domain.ExternalAuthError{Provider: provider, Err: err}
	}
	id, err := domain.DecodeIdentity(raw)
	if err != nil {
		return nil, &domain.ExternalAuthError{Provider: provider, Err: err}
	}
	return id, nil
}

func (c *Client) Profile(ctx context.Context) (domain.Identity, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "read profile", http.MethodGet, "/v1/users/profile", nil, nil, &raw); err != nil {
		var te *domain.TransportError
		if errors.As(err, &te) && te.StatusCode == http.StatusUnauthorized {
			return domain.Anonymous{}, nil
		}
		return nil, err
	}
	return domain.DecodeIdentity(raw)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "logout", http.MethodPost, "/v1/users/logout", nil, nil, nil)
}

func (c *Client) ListOffers(ctx context.Context, departure, arrival string) ([]domain.Offer, error) {
	offers := make([]domain.Offer, 0)
	q := offerQuery{Departure: departure, Arrival: arrival}
	if err := c.do(ctx, "list offers", http.MethodGet, "/v1/offers", q, nil, &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

func (c *Client) CreateOffer(ctx context.Context, offer domain.NewOffer) (*domain.Offer, error) {
	var created domain.Offer
	if err := c.do(ctx, "create offer", http.MethodPost, "/v1/offers", nil, offer, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) CreateBooking(ctx context.Context, offerID int64, seats int) (*domain.Booking, error) {
	var created domain.Booking
	path := fmt.Sprintf("/v1/offers/%d/bookings", offerID)
	if err := c.do(ctx, "create booking", http.MethodPost, path, nil, bookingRequest{Seats: seats}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) ListBookingsForUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	bookings := make([]domain.Booking, 0)
	path := fmt.Sprintf("/v1/users/%d/bookings", userID)
	if err := c.do(ctx, "list bookings", http.MethodGet, path, nil, nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) ListFlightsForOffer(ctx context.Context, offerID int64) ([]domain.Flight, error) {
	flights := make([]domain.Flight, 0)
	path := fmt.Sprintf("/v1/offers/%d/flights", offerID)
	if err := c.do(ctx, "list flights", http.MethodGet, path, nil, nil, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *Client) CreateFlights(ctx context.Context, flights []domain.NewFlight, offerID int64) error {
	path := fmt.Sprintf("/v1/offers/%d/flights", offerID)
	return c.do(ctx, "create flights", http.MethodPost, path, nil, flights, nil)
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0)
	if err := c.do(ctx, "list users", http.MethodGet, "/v1/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, user domain.NewUser) (domain.Identity, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "create user", http.MethodPost, "/v1/users", nil, user, &raw); err != nil {
		return nil, err
	}
	return domain.DecodeIdentity(raw)
}

func (c *Client) ListAddresses(ctx context.Context, userID int64) ([]domain.Address, error) {
	addresses := make([]domain.Address, 0)
	path := fmt.Sprintf("/v1/users/%d/addresses", userID)
	if err := c.do(ctx, "list addresses", http.MethodGet, path, nil, nil, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (c *Client) CreateAddress(ctx context.Context, addr domain.NewAddress, userID int64) (*domain.Address, error) {
	var created domain.Address
	path := fmt.Sprintf("/v1/users/%d/addresses", userID)
	if err := c.do(ctx, "create address", http.MethodPost, path, nil, addr, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) ListSessions(ctx context.Context, userID int64) ([]domain.Session, error) {
	sessions := make([]domain.Session, 0)
	path := fmt.Sprintf("/v1/users/%d/sessions", userID)
	if err := c.do(ctx, "list sessions", http.MethodGet, path, nil, nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *Client) RevokeSession(ctx context.Context, userID, sessionID int64) error {
	path := fmt.Sprintf("/v1/users/%d/sessions/%d", userID, sessionID)
	return c.do(ctx, "revoke session", http.MethodDelete, path, nil, nil, nil)
}

// do performs one request. Every failure comes back as a *domain.TransportError.
func (c *Client) do(ctx context.Context, op, method, path string, q any, body any, out any) error {
	target := c.baseURL + path
	if q != nil {
		values, err := query.Values(q)
		if err != nil {
			return &domain.TransportError{Op: op, Err: fmt.Errorf("encode query: %w", err)}
		}
		if encoded := values.Encode(); encoded != "" {
			target += "?" + encoded
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &domain.TransportError{Op: op, Err: fmt.Errorf("marshal body: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug().Str("op", op).Str("method", method).Str("url", target).Msg("backend request")

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.TransportError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(data))
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil && eb.Error != "" {
			msg = eb.Error
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &domain.TransportError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(msg)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &domain.TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

var _ LoginAPI = (*Client)(nil)
var _ OffersAPI = (*Client)(nil)
var _ FlightsAPI = (*Client)(nil)
var _ UsersAPI = (*Client)(nil)
var _ AddressesAPI = (*Client)(nil)
var _ SessionsAPI = (*Client)(nil)
