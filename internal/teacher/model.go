package teacher

import (
	"time"

	"github.com/lib/pq"
)

// Teacher is a users row joined with its tutor profile.
type Teacher struct {
	ID              int            `db:"id" json:"id"`
	Name            string         `db:"name" json:"name"`
	Email           string         `db:"email" json:"email"`
	Banned          bool           `db:"banned" json:"banned"`
	Verified        bool           `db:"verified" json:"verified"`
	Qualification   string         `db:"qualification" json:"qualification"`
	HourlyRateCents int64          `db:"hourly_rate_cents" json:"hourly_rate_cents"`
	Subjects        pq.StringArray `db:"subjects" json:"subjects"`
	Attachments     pq.StringArray `db:"attachments" json:"attachments"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
}

// TeachesSubject reports whether the teacher lists the subject.
func (t *Teacher) TeachesSubject(subject string) bool {
	for _, s := range t.Subjects {
		if s == subject {
			return true
		}
	}
	return false
}

// AvailabilitySlot is a recurring weekly window in which the teacher takes
// bookings. Declared capacity only; bookings are subtracted at query time.
type AvailabilitySlot struct {
	Day       string `db:"day" json:"day"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
}

type RegisterRequest struct {
	Name            string   `json:"name" binding:"required"`
	Email           string   `json:"email" binding:"required,email"`
	Password        string   `json:"password" binding:"required,min=6"`
	Subjects        []string `json:"subjects" binding:"required,min=1"`
	Qualification   string   `json:"qualification" binding:"required"`
	HourlyRateCents int64    `json:"hourly_rate_cents" binding:"required,gt=0"`
}

type SlotRequest struct {
	Day       string `json:"day" binding:"required"`
	StartTime string `json:"start_time" binding:"required,clock"`
	EndTime   string `json:"end_time" binding:"required,clock"`
}

type AddSubjectsRequest struct {
	Subjects []string `json:"subjects" binding:"required,min=1"`
}

type RemoveSubjectRequest struct {
	Subject string `json:"subject" binding:"required"`
}

type UpdateProfileRequest struct {
	Qualification   *string `json:"qualification,omitempty"`
	HourlyRateCents *int64  `json:"hourly_rate_cents,omitempty" binding:"omitempty,gt=0"`
}

type SearchFilter struct {
	Subject       string
	Name          string
	Qualification string
	Verified      *bool
	Banned        *bool
}
