package login

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/skyrocket/internal/backend"
	"github.com/Domenick1991/skyrocket/internal/domain"
	"github.com/Domenick1991/skyrocket/internal/form"
	"github.com/Domenick1991/skyrocket/internal/store"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

type State int

const (
	StateIdle State = iota
	StateAwaitingCallback
	StateResolved
	StateRouted
)

func (s State) String() string {
	switch s {
	case StateAwaitingCallback:
		return "awaiting_callback"
	case StateResolved:
		return "resolved"
	case StateRouted:
		return "routed"
	default:
		return "idle"
	}
}

type Destination string

const (
	DestinationHome         Destination = "home"
	DestinationProfile      Destination = "profile"
	DestinationRegistration Destination = "register"
)

const BirthdayLayout = "2006-01-02"

// CallbackClaimer guards a callback across service instances. A claim whose
// exchange failed is released so the callback can be retried.
type CallbackClaimer interface {
	ClaimCallback(ctx context.Context, provider, code string, ttl time.Duration) (bool, error)
	ReleaseCallback(ctx context.Context, provider, code string) error
}

type OrchestratorOption func(*Orchestrator)

func WithClaimer(c CallbackClaimer, ttl time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		o.claimer = c
		o.claimTTL = ttl
	}
}

func WithProviders(names ...string) OrchestratorOption {
	return func(o *Orchestrator) {
		o.providers = make(map[string]struct{}, len(names))
		for _, n := range names {
			o.providers[strings.ToLower(n)] = struct{}{}
		}
	}
}

// WithExchangeTimeout bounds an exchange, which runs detached from the
// request that started it.
func WithExchangeTimeout(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if d > 0 {
			o.exchangeTimeout = d
		}
	}
}

func WithLogger(log zerolog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		o.log = log
	}
}

// Orchestrator drives OAuth code exchanges for one client and owns the
// writes to its IdentityStore.
type Orchestrator struct {
	identity        *store.IdentityStore
	login           backend.LoginAPI
	users           backend.UserCreator
	claimer         CallbackClaimer
	claimTTL        time.Duration
	exchangeTimeout time.Duration
	providers       map[string]struct{}
	log             zerolog.Logger

	group    singleflight.Group
	mu       sync.Mutex
	attempts map[string]State
}

func NewOrchestrator(identity *store.IdentityStore, login backend.LoginAPI, users backend.UserCreator, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		identity:        identity,
		login:           login,
		users:           users,
		exchangeTimeout: 30 * time.Second,
		providers:       map[string]struct{}{"github": {}},
		log:             zerolog.Nop(),
		attempts:        make(map[string]State),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func attemptKey(provider, code string) string {
	return provider + "\x00" + code
}

// State reports where the attempt for (provider, code) currently is.
func (o *Orchestrator) State(provider, code string) State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.attempts[attemptKey(strings.ToLower(provider), code)]
}

func (o *Orchestrator) setState(key string, s State) {
	o.mu.Lock()
	if s == StateIdle {
		delete(o.attempts, key)
	} else {
		o.attempts[key] = s
	}
	o.mu.Unlock()
}

// HandleCallback runs the exchange for one callback navigation and returns
// where the client goes next. A callback whose (provider, code) has already
// resolved is routed again without a second exchange. Navigations that join
// an exchange in flight share its result even when the navigation that
// started it goes away.
func (o *Orchestrator) HandleCallback(ctx context.Context, provider, code string) (Destination, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if _, ok := o.providers[provider]; !ok {
		return "", domain.ErrUnknownProvider
	}
	key := attemptKey(provider, code)

	ch := o.group.DoChan(key, func() (any, error) {
		exCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.exchangeTimeout)
		defer cancel()
		return o.exchange(exCtx, key, provider, code)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		if res.Shared {
			o.log.Debug().Str("provider", provider).Msg("joined in-flight oauth exchange")
		}
		return res.Val.(Destination), nil
	}
}

func (o *Orchestrator) exchange(ctx context.Context, key, provider, code string) (Destination, error) {
	o.mu.Lock()
	state := o.attempts[key]
	if state >= StateResolved {
		o.mu.Unlock()
		o.log.Info().Str("provider", provider).Msg("oauth callback re-entered, exchange skipped")
		return o.route(key), nil
	}
	o.attempts[key] = StateAwaitingCallback
	o.mu.Unlock()

	if o.claimer != nil {
		ok, err := o.claimer.ClaimCallback(ctx, provider, code, o.claimTTL)
		switch {
		case err != nil:
			o.log.Warn().Err(err).Str("provider", provider).Msg("callback claim unavailable, continuing")
		case !ok:
			o.setState(key, StateIdle)
			return "", domain.ErrDuplicateCallback
		}
	}

	id, err := o.login.ExchangeCode(ctx, provider, code)
	if err != nil {
		if o.claimer != nil {
			if relErr := o.claimer.ReleaseCallback(ctx, provider, code); relErr != nil {
				o.log.Warn().Err(relErr).Str("provider", provider).Msg("release callback claim")
			}
		}
		o.setState(key, StateIdle)
		var authErr *domain.ExternalAuthError
		if !errors.As(err, &authErr) {
			err = &domain.ExternalAuthError{Provider: provider, Err: err}
		}
		o.log.Error().Err(err).Str("provider", provider).Msg("oauth exchange failed")
		return "", err
	}

	o.identity.SetIdentity(id)
	o.setState(key, StateResolved)
	o.log.Info().Str("provider", provider).Str("identity", domain.KindOf(id)).Msg("oauth exchange resolved")

	return o.route(key), nil
}

// route reads IsLoggedIn after the identity write has been committed.
func (o *Orchestrator) route(key string) Destination {
	dest := DestinationRegistration
	if o.identity.IsLoggedIn() {
		dest = DestinationProfile
	}
	o.setState(key, StateRouted)
	return dest
}

// Restore loads the identity bound to an existing backend session. On
// failure the held identity is left as it was.
func (o *Orchestrator) Restore(ctx context.Context) error {
	id, err := o.login.Profile(ctx)
	if err != nil {
		return err
	}
	o.identity.SetIdentity(id)
	return nil
}

// Logout clears the identity locally before telling the backend, so the
// client is anonymous even when the backend call fails.
func (o *Orchestrator) Logout(ctx context.Context) (Destination, error) {
	o.identity.SetIdentity(domain.Anonymous{})
	if err := o.login.Logout(ctx); err != nil {
		return DestinationHome, err
	}
	return DestinationHome, nil
}

// RegistrationForm is pre-filled from whatever the OAuth provider returned.
func (o *Orchestrator) RegistrationForm() *form.Step {
	return form.NewStep("register",
		form.NewField("firstname", o.identity.Firstname(), form.Required()),
		form.NewField("lastname", o.identity.Lastname(), form.Required()),
		form.NewField("email", o.identity.Email(), form.Required(), form.Email()),
		form.NewField("birthday", "", form.Required(), form.Date(BirthdayLayout)),
		form.NewField("gender", "", form.Required(), form.OneOf(string(domain.GenderMale), string(domain.GenderFemale), string(domain.GenderDiverse))),
	)
}

// Register completes the registration of an unregistered identity.
func (o *Orchestrator) Register(ctx context.Context, values map[string]string) (Destination, error) {
	step := o.RegistrationForm()
	if err := step.Fill(values); err != nil {
		return "", err
	}
	if err := step.Validate(); err != nil {
		return "", err
	}

	id, err := o.users.CreateUser(ctx, domain.NewUser{
		Firstname: step.Value("firstname"),
		Lastname:  step.Value("lastname"),
		Email:     step.Value("email"),
		Birthday:  step.Value("birthday"),
		Gender:    domain.Gender(step.Value("gender")),
	})
	if err != nil {
		return "", err
	}
	o.identity.SetIdentity(id)

	if !o.identity.IsLoggedIn() {
		return DestinationRegistration, nil
	}
	return DestinationProfile, nil
}
