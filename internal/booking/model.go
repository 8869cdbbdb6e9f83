package booking

import (
	"time"

	"github.com/Nardos-Amakele/TutorSite/internal/timeslot"
)

// Booking lifecycle. Pending and confirmed bookings hold their interval;
// cancelled and completed ones release it.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

type Booking struct {
	ID        int       `db:"id" json:"id"`
	TeacherID int       `db:"teacher_id" json:"teacher_id"`
	StudentID int       `db:"student_id" json:"student_id"`
	Subject   string    `db:"subject" json:"subject"`
	Date      string    `db:"booking_date" json:"date"`
	Day       string    `db:"day" json:"day"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BookingWithNames is the listing projection with both participant names.
type BookingWithNames struct {
	Booking
	TeacherName string `db:"teacher_name" json:"teacher_name"`
	StudentName string `db:"student_name" json:"student_name"`
}

// OpenSlot is a bookable remainder of an availability window after
// subtracting active bookings. Date is set only when the resolution was
// asked for a concrete date.
type OpenSlot struct {
	Day       string `json:"day"`
	Date      string `json:"date,omitempty"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// DayInterval is a booked interval tagged with its weekday, used when
// resolving open slots without a concrete date.
type DayInterval struct {
	Day string `db:"day"`
	timeslot.Interval
}

type BookTeacherRequest struct {
	TeacherID int    `json:"teacher_id" binding:"required"`
	Subject   string `json:"subject" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required,clock"`
	EndTime   string `json:"end_time" binding:"required,clock"`
}

// AdminFilter narrows the moderation listing. Zero values mean "any".
type AdminFilter struct {
	TeacherID int
	StudentID int
	Status    string
	Date      string
}
