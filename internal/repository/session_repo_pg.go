package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/skyrocket/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionKeyStore drops the backend's session payload stored under key.
type SessionKeyStore interface {
	DeleteSessionKey(ctx context.Context, key string) error
}

type PGSessionRepository struct {
	db   *pgxpool.Pool
	keys SessionKeyStore
}

// NewSessionRepository accepts a nil key store; revoked sessions then only
// lose their database row.
func NewSessionRepository(db *pgxpool.Pool, keys SessionKeyStore) *PGSessionRepository {
	return &PGSessionRepository{db: db, keys: keys}
}

func (r *PGSessionRepository) ListSessions(ctx context.Context, userID int64) ([]domain.Session, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, established, data FROM sessions WHERE user_id = $1 ORDER BY established DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]domain.Session, 0)
	for rows.Next() {
		var (
			s           domain.Session
			established time.Time
		)
		if err := rows.Scan(&s.ID, &s.UserID, &established, &s.Data); err != nil {
			return nil, err
		}
		s.Established = domain.NewDateTime(established)
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *PGSessionRepository) RevokeSession(ctx context.Context, userID, sessionID int64) error {
	var key string
	err := r.db.QueryRow(ctx, `DELETE FROM sessions WHERE id = $1 AND user_id = $2 RETURNING redis_key`, sessionID, userID).Scan(&key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("session %d: %w", sessionID, domain.ErrNotFound)
		}
		return err
	}
	if r.keys != nil && key != "" {
		if err := r.keys.DeleteSessionKey(ctx, key); err != nil {
			return fmt.Errorf("drop session key: %w", err)
		}
	}
	return nil
}
