package reconcile

import (
	"context"

	"github.com/Domenick1991/skyrocket/internal/backend"
	"github.com/Domenick1991/skyrocket/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Observer receives the table after every arrival. It is not called once the
// caller's context is done.
type Observer func(rows []domain.Row)

type OfferSource interface {
	ListOffers(ctx context.Context, departure, arrival string) ([]domain.Offer, error)
}

type BookingSource interface {
	ListBookingsForUser(ctx context.Context, userID int64) ([]domain.Booking, error)
}

type Reconciler struct {
	offers   OfferSource
	bookings BookingSource
	users    backend.UserLister
	log      zerolog.Logger
}

func NewReconciler(offers OfferSource, bookings BookingSource, users backend.UserLister, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		offers:   offers,
		bookings: bookings,
		users:    users,
		log:      log.With().Str("component", "reconciler").Logger(),
	}
}

type update func(t *Table)

// ForUser builds the bookings table of one user. Offers and bookings are
// fetched concurrently; either may arrive first.
func (r *Reconciler) ForUser(ctx context.Context, userID int64, observe Observer) ([]domain.Row, error) {
	return r.run(ctx, observe, func(ctx context.Context, g *errgroup.Group, emit func(update) bool) {
		g.Go(func() error {
			offers, err := r.offers.ListOffers(ctx, "", "")
			if err != nil {
				return err
			}
			emit(func(t *Table) { t.SetOffers(offers) })
			return nil
		})
		g.Go(func() error {
			bookings, err := r.bookings.ListBookingsForUser(ctx, userID)
			if err != nil {
				return err
			}
			emit(func(t *Table) { t.ReplaceBookings(bookings) })
			return nil
		})
	})
}

// ForAllUsers builds the administrative table. Users are listed first, then
// each user's bookings are fetched concurrently and appended in arrival
// order; rows of different users interleave and are not sorted.
func (r *Reconciler) ForAllUsers(ctx context.Context, observe Observer) ([]domain.Row, error) {
	return r.run(ctx, observe, func(ctx context.Context, g *errgroup.Group, emit func(update) bool) {
		g.Go(func() error {
			offers, err := r.offers.ListOffers(ctx, "", "")
			if err != nil {
				return err
			}
			emit(func(t *Table) { t.SetOffers(offers) })
			return nil
		})
		g.Go(func() error {
			users, err := r.users.ListUsers(ctx)
			if err != nil {
				return err
			}
			for _, u := range users {
				userID := u.ID
				g.Go(func() error {
					bookings, err := r.bookings.ListBookingsForUser(ctx, userID)
					if err != nil {
						return err
					}
					emit(func(t *Table) { t.AppendBookings(userID, bookings) })
					return nil
				})
			}
			return nil
		})
	})
}

// run owns the table on the calling goroutine. Fetchers hand their results
// over a channel, and the table is re-rendered after each one.
func (r *Reconciler) run(ctx context.Context, observe Observer, start func(context.Context, *errgroup.Group, func(update) bool)) ([]domain.Row, error) {
	g, gctx := errgroup.WithContext(ctx)
	updates := make(chan update)

	emit := func(u update) bool {
		select {
		case updates <- u:
			return true
		case <-gctx.Done():
			return false
		}
	}

	start(gctx, g, emit)

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
		close(updates)
	}()

	table := NewTable()
	arrivals := 0
	for u := range updates {
		u(table)
		arrivals++
		if observe != nil && ctx.Err() == nil {
			observe(table.Rows())
		}
	}

	if err := <-done; err != nil {
		r.log.Error().Err(err).Int("arrivals", arrivals).Msg("reconciliation aborted")
		return nil, err
	}
	return table.Rows(), nil
}
