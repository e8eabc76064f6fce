package repository

import (
	"context"

	"github.com/Domenick1991/skyrocket/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *PGUserRepository {
	return &PGUserRepository{db: db}
}

func (r *PGUserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `
SELECT u.id, u.firstname, u.lastname, u.email, to_char(u.birthday, 'YYYY-MM-DD'), u.gender::text,
       COALESCE(array_agg(ur.role::text) FILTER (WHERE ur.role IS NOT NULL), '{}')
FROM users u
LEFT JOIN users_roles ur ON ur.user_id = u.id
GROUP BY u.id
ORDER BY u.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var (
			u      domain.User
			gender string
			roles  []string
		)
		if err := rows.Scan(&u.ID, &u.Firstname, &u.Lastname, &u.Email, &u.Birthday, &gender, &roles); err != nil {
			return nil, err
		}
		u.Gender = domain.Gender(gender)
		for _, role := range roles {
			u.Roles = append(u.Roles, domain.Role(role))
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
