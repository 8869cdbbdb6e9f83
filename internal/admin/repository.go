package admin

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	GetStats(ctx context.Context) (*Stats, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	err := r.db.GetContext(ctx, &stats, `SELECT
		(SELECT COUNT(*) FROM users WHERE role = 'student') AS total_students,
		(SELECT COUNT(*) FROM users WHERE role = 'teacher') AS total_teachers,
		(SELECT COUNT(*) FROM teacher_profiles tp JOIN users u ON u.id = tp.user_id
			WHERE tp.verified AND NOT u.banned) AS verified_teachers,
		(SELECT COUNT(*) FROM users WHERE banned) AS banned_users,
		(SELECT COUNT(*) FROM bookings) AS total_bookings,
		(SELECT COUNT(*) FROM bookings WHERE status IN ('pending', 'confirmed')) AS active_bookings,
		(SELECT COUNT(*) FROM resources) AS total_resources`)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
