package teacher

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Nardos-Amakele/TutorSite/internal/user"
)

var ErrTeacherNotFound = errors.New("teacher not found")

const teacherColumns = `u.id, u.name, u.email, u.banned, u.created_at,
	tp.verified, tp.qualification, tp.hourly_rate_cents, tp.subjects, tp.attachments`

const teacherBase = `SELECT ` + teacherColumns + `
	FROM users u JOIN teacher_profiles tp ON tp.user_id = u.id`

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// CreateWithAccount inserts the account row and its tutor profile in one
// transaction so a failed profile insert never leaves an orphan account.
func (r *postgresRepository) CreateWithAccount(ctx context.Context, name, email, passwordHash string, subjects []string, qualification string, hourlyRateCents int64) (*Teacher, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var t Teacher
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO users (name, email, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, name, email, banned, created_at`,
		name, email, passwordHash, user.RoleTeacher,
	).Scan(&t.ID, &t.Name, &t.Email, &t.Banned, &t.CreatedAt)
	if err != nil {
		return nil, err
	}

	err = tx.QueryRowxContext(ctx,
		`INSERT INTO teacher_profiles (user_id, qualification, hourly_rate_cents, subjects)
		 VALUES ($1, $2, $3, $4)
		 RETURNING verified, qualification, hourly_rate_cents, subjects, attachments`,
		t.ID, qualification, hourlyRateCents, pq.Array(subjects),
	).Scan(&t.Verified, &t.Qualification, &t.HourlyRateCents, &t.Subjects, &t.Attachments)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id int) (*Teacher, error) {
	var t Teacher
	err := r.db.GetContext(ctx, &t, teacherBase+` WHERE u.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeacherNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]Teacher, error) {
	teachers := []Teacher{}
	err := r.db.SelectContext(ctx, &teachers, teacherBase+` ORDER BY u.created_at DESC`)
	return teachers, err
}

func (r *postgresRepository) Search(ctx context.Context, filter SearchFilter) ([]Teacher, error) {
	query := teacherBase
	conditions := []string{}
	args := []interface{}{}

	if filter.Subject != "" {
		args = append(args, "%"+filter.Subject+"%")
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM unnest(tp.subjects) AS s WHERE s ILIKE $"+strconv.Itoa(len(args))+")")
	}
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		conditions = append(conditions, "u.name ILIKE $"+strconv.Itoa(len(args)))
	}
	if filter.Qualification != "" {
		args = append(args, "%"+filter.Qualification+"%")
		conditions = append(conditions, "tp.qualification ILIKE $"+strconv.Itoa(len(args)))
	}
	if filter.Verified != nil {
		args = append(args, *filter.Verified)
		conditions = append(conditions, "tp.verified = $"+strconv.Itoa(len(args)))
	}
	if filter.Banned != nil {
		args = append(args, *filter.Banned)
		conditions = append(conditions, "u.banned = $"+strconv.Itoa(len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY u.created_at DESC"

	teachers := []Teacher{}
	err := r.db.SelectContext(ctx, &teachers, query, args...)
	return teachers, err
}

func (r *postgresRepository) UpdateProfile(ctx context.Context, id int, qualification *string, hourlyRateCents *int64) (*Teacher, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE teacher_profiles
		 SET qualification = COALESCE($2, qualification),
		     hourly_rate_cents = COALESCE($3, hourly_rate_cents)
		 WHERE user_id = $1`,
		id, qualification, hourlyRateCents)
	if err != nil {
		return nil, err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, ErrTeacherNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *postgresRepository) AddSubjects(ctx context.Context, id int, subjects []string) (*Teacher, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE teacher_profiles
		 SET subjects = ARRAY(SELECT DISTINCT s FROM unnest(subjects || $2::text[]) AS s ORDER BY s)
		 WHERE user_id = $1`,
		id, pq.Array(subjects))
	if err != nil {
		return nil, err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, ErrTeacherNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *postgresRepository) RemoveSubject(ctx context.Context, id int, subject string) (*Teacher, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE teacher_profiles SET subjects = array_remove(subjects, $2) WHERE user_id = $1`,
		id, subject)
	if err != nil {
		return nil, err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, ErrTeacherNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *postgresRepository) SetVerified(ctx context.Context, id int, verified bool) (*Teacher, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE teacher_profiles SET verified = $2 WHERE user_id = $1`,
		id, verified)
	if err != nil {
		return nil, err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, ErrTeacherNotFound
	}
	return r.FindByID(ctx, id)
}

// AddAvailability is idempotent: re-adding an identical slot is a no-op
// thanks to the unique index on (teacher_id, day, start_time, end_time).
func (r *postgresRepository) AddAvailability(ctx context.Context, teacherID int, slot AvailabilitySlot) ([]AvailabilitySlot, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO availability_slots (teacher_id, day, start_time, end_time)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (teacher_id, day, start_time, end_time) DO NOTHING`,
		teacherID, slot.Day, slot.StartTime, slot.EndTime)
	if err != nil {
		return nil, err
	}
	return r.GetAvailability(ctx, teacherID)
}

func (r *postgresRepository) RemoveAvailability(ctx context.Context, teacherID int, slot AvailabilitySlot) ([]AvailabilitySlot, error) {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM availability_slots
		 WHERE teacher_id = $1 AND day = $2 AND start_time = $3 AND end_time = $4`,
		teacherID, slot.Day, slot.StartTime, slot.EndTime)
	if err != nil {
		return nil, err
	}
	return r.GetAvailability(ctx, teacherID)
}

func (r *postgresRepository) GetAvailability(ctx context.Context, teacherID int) ([]AvailabilitySlot, error) {
	slots := []AvailabilitySlot{}
	err := r.db.SelectContext(ctx, &slots,
		`SELECT day, start_time, end_time FROM availability_slots
		 WHERE teacher_id = $1 ORDER BY day, start_time`,
		teacherID)
	return slots, err
}
