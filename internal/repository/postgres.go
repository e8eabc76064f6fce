// Package repository reads and writes the booking backend's database
// directly. It serves the collaborator interfaces of package backend when
// the service runs in postgres mode.
package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/skyrocket/config"
	"github.com/Domenick1991/skyrocket/internal/backend"
	"github.com/Domenick1991/skyrocket/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// actor returns the user a write is attributed to.
func actor(ctx context.Context) (int64, error) {
	id, ok := backend.ActorFrom(ctx)
	if !ok {
		return 0, domain.ErrNotLoggedIn
	}
	return id, nil
}
