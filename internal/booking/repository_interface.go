package booking

import (
	"context"

	"github.com/Nardos-Amakele/TutorSite/internal/timeslot"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) (*Booking, error)
	GetByID(ctx context.Context, id int) (*Booking, error)
	FindConflict(ctx context.Context, teacherID int, date string, window timeslot.Interval) (*Booking, error)
	UpdateStatus(ctx context.Context, id int, from, to string) (*Booking, error)
	ListByTeacher(ctx context.Context, teacherID int, status string) ([]BookingWithNames, error)
	ListByStudent(ctx context.Context, studentID int, status string) ([]BookingWithNames, error)
	ListBookedIntervals(ctx context.Context, teacherID int, date string) ([]timeslot.Interval, error)
	ListActiveIntervals(ctx context.Context, teacherID int) ([]DayInterval, error)
	ListAll(ctx context.Context, filter AdminFilter) ([]BookingWithNames, error)
}
