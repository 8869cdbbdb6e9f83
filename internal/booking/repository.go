package booking

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Nardos-Amakele/TutorSite/internal/timeslot"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	// ErrSlotTaken surfaces both the pre-check hit and the exclusion
	// constraint firing on a racing insert.
	ErrSlotTaken = errors.New("time slot already booked")
	// ErrStatusConflict means the compare-and-set transition matched no row:
	// the booking moved to another state in between.
	ErrStatusConflict = errors.New("booking status changed concurrently")
)

const bookingColumns = `id, teacher_id, student_id, subject, booking_date, day, start_time, end_time, status, created_at`

const bookingWithNames = `SELECT b.id, b.teacher_id, b.student_id, b.subject, b.booking_date, b.day,
	b.start_time, b.end_time, b.status, b.created_at,
	tu.name AS teacher_name, su.name AS student_name
	FROM bookings b
	JOIN users tu ON tu.id = b.teacher_id
	JOIN users su ON su.id = b.student_id`

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// Create inserts the booking. The bookings table carries an exclusion
// constraint over (teacher_id, occupied time range) for active rows, so two
// racing inserts for overlapping intervals cannot both land; the loser
// gets ErrSlotTaken.
func (r *postgresRepository) Create(ctx context.Context, b *Booking) (*Booking, error) {
	var created Booking
	err := r.db.GetContext(ctx, &created,
		`INSERT INTO bookings (teacher_id, student_id, subject, booking_date, day, start_time, end_time, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+bookingColumns,
		b.TeacherID, b.StudentID, b.Subject, b.Date, b.Day, b.StartTime, b.EndTime, b.Status)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23P01" {
			return nil, ErrSlotTaken
		}
		return nil, err
	}
	return &created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindConflict returns an active booking overlapping the window, or nil.
// Two windows overlap when each starts before the other ends.
func (r *postgresRepository) FindConflict(ctx context.Context, teacherID int, date string, window timeslot.Interval) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE teacher_id = $1 AND booking_date = $2
		   AND status IN ('pending', 'confirmed')
		   AND start_time < $4 AND end_time > $3
		 LIMIT 1`,
		teacherID, date, window.Start, window.End)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// UpdateStatus performs a compare-and-set transition so concurrent
// updates of the same booking cannot both win.
func (r *postgresRepository) UpdateStatus(ctx context.Context, id int, from, to string) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b,
		`UPDATE bookings SET status = $3 WHERE id = $1 AND status = $2
		 RETURNING `+bookingColumns,
		id, from, to)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStatusConflict
		}
		return nil, err
	}
	return &b, nil
}

func (r *postgresRepository) ListByTeacher(ctx context.Context, teacherID int, status string) ([]BookingWithNames, error) {
	return r.list(ctx, "b.teacher_id", teacherID, status)
}

func (r *postgresRepository) ListByStudent(ctx context.Context, studentID int, status string) ([]BookingWithNames, error) {
	return r.list(ctx, "b.student_id", studentID, status)
}

func (r *postgresRepository) list(ctx context.Context, column string, id int, status string) ([]BookingWithNames, error) {
	query := bookingWithNames + ` WHERE ` + column + ` = $1`
	args := []interface{}{id}
	if status != "" {
		args = append(args, status)
		query += ` AND b.status = $2`
	}
	query += ` ORDER BY b.booking_date, b.start_time`

	bookings := []BookingWithNames{}
	err := r.db.SelectContext(ctx, &bookings, query, args...)
	return bookings, err
}

func (r *postgresRepository) ListBookedIntervals(ctx context.Context, teacherID int, date string) ([]timeslot.Interval, error) {
	intervals := []timeslot.Interval{}
	err := r.db.SelectContext(ctx, &intervals,
		`SELECT start_time AS start, end_time AS "end" FROM bookings
		 WHERE teacher_id = $1 AND booking_date = $2
		   AND status IN ('pending', 'confirmed')
		 ORDER BY start_time`,
		teacherID, date)
	return intervals, err
}

// ListActiveIntervals returns every active booked interval of the teacher
// regardless of date, tagged with its weekday.
func (r *postgresRepository) ListActiveIntervals(ctx context.Context, teacherID int) ([]DayInterval, error) {
	intervals := []DayInterval{}
	err := r.db.SelectContext(ctx, &intervals,
		`SELECT day, start_time AS start, end_time AS "end" FROM bookings
		 WHERE teacher_id = $1 AND status IN ('pending', 'confirmed')
		 ORDER BY day, start_time`,
		teacherID)
	return intervals, err
}

func (r *postgresRepository) ListAll(ctx context.Context, filter AdminFilter) ([]BookingWithNames, error) {
	query := bookingWithNames
	conditions := []string{}
	args := []interface{}{}

	if filter.TeacherID != 0 {
		args = append(args, filter.TeacherID)
		conditions = append(conditions, "b.teacher_id = $"+strconv.Itoa(len(args)))
	}
	if filter.StudentID != 0 {
		args = append(args, filter.StudentID)
		conditions = append(conditions, "b.student_id = $"+strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, "b.status = $"+strconv.Itoa(len(args)))
	}
	if filter.Date != "" {
		args = append(args, filter.Date)
		conditions = append(conditions, "b.booking_date = $"+strconv.Itoa(len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY b.booking_date DESC, b.start_time"

	bookings := []BookingWithNames{}
	err := r.db.SelectContext(ctx, &bookings, query, args...)
	return bookings, err
}
