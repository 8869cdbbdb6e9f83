package booking

import (
	"context"
	"errors"
	"time"

	"github.com/Nardos-Amakele/TutorSite/internal/logger"
	"github.com/Nardos-Amakele/TutorSite/internal/metrics"
	"github.com/Nardos-Amakele/TutorSite/internal/teacher"
	"github.com/Nardos-Amakele/TutorSite/internal/timeslot"
	"github.com/Nardos-Amakele/TutorSite/internal/user"
)

var (
	ErrInvalidDate         = errors.New("invalid date, expected YYYY-MM-DD")
	ErrPastDate            = errors.New("cannot book a past date")
	ErrInvalidTimeRange    = errors.New("invalid time range")
	ErrSubjectNotTaught    = errors.New("teacher does not teach this subject")
	ErrOutsideAvailability = errors.New("requested time is outside the teacher's availability")
	ErrInvalidTransition   = errors.New("invalid booking status transition")
	ErrNotParticipant      = errors.New("user is not a participant of this booking")
)

// Mailer sends the booking notification mails. Failures are logged, never
// propagated: the booking state is already committed.
type Mailer interface {
	SendBookingRequested(ctx context.Context, to, teacherName, studentName, subject, date, start, end string) error
	SendBookingStatus(ctx context.Context, to, studentName, subject, date, status string) error
}

type Service interface {
	BookTeacher(ctx context.Context, studentID int, req BookTeacherRequest) (*Booking, error)
	Confirm(ctx context.Context, bookingID, userID int) (*Booking, error)
	Decline(ctx context.Context, bookingID, userID int) (*Booking, error)
	Cancel(ctx context.Context, bookingID, userID int) (*Booking, error)
	CancelAsAdmin(ctx context.Context, bookingID int) (*Booking, error)
	Complete(ctx context.Context, bookingID, userID int) (*Booking, error)
	GetAvailableSlots(ctx context.Context, teacherID int, date string) ([]OpenSlot, error)
	ListForTeacher(ctx context.Context, teacherID int, status string) ([]BookingWithNames, error)
	ListForStudent(ctx context.Context, studentID int, status string) ([]BookingWithNames, error)
	ListAll(ctx context.Context, filter AdminFilter) ([]BookingWithNames, error)
}

type service struct {
	repo     Repository
	teachers teacher.Repository
	users    user.Repository
	mailer   Mailer

	// strictAvailability additionally requires the requested window to sit
	// inside a declared availability slot, instead of only being conflict-free.
	strictAvailability bool

	now func() time.Time
}

func NewService(repo Repository, teachers teacher.Repository, users user.Repository, mailer Mailer, strictAvailability bool) Service {
	return &service{
		repo:               repo,
		teachers:           teachers,
		users:              users,
		mailer:             mailer,
		strictAvailability: strictAvailability,
		now:                time.Now,
	}
}

func (s *service) BookTeacher(ctx context.Context, studentID int, req BookTeacherRequest) (*Booking, error) {
	parsedDate, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if req.Date < s.now().Format("2006-01-02") {
		return nil, ErrPastDate
	}

	window := timeslot.Interval{Start: req.StartTime, End: req.EndTime}
	if !timeslot.ValidClock(req.StartTime) || !timeslot.ValidClock(req.EndTime) || !timeslot.IsValid(window) {
		return nil, ErrInvalidTimeRange
	}

	t, err := s.teachers.FindByID(ctx, req.TeacherID)
	if err != nil {
		return nil, err
	}
	if t.Banned {
		return nil, teacher.ErrTeacherNotFound
	}
	if !t.TeachesSubject(req.Subject) {
		return nil, ErrSubjectNotTaught
	}

	day := timeslot.Weekday(parsedDate)

	if s.strictAvailability {
		if err := s.checkAvailability(ctx, req.TeacherID, day, window); err != nil {
			return nil, err
		}
	}

	conflict, err := s.repo.FindConflict(ctx, req.TeacherID, req.Date, window)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		metrics.RecordBookingConflict()
		return nil, ErrSlotTaken
	}

	created, err := s.repo.Create(ctx, &Booking{
		TeacherID: req.TeacherID,
		StudentID: studentID,
		Subject:   req.Subject,
		Date:      req.Date,
		Day:       day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    StatusPending,
	})
	if err != nil {
		if errors.Is(err, ErrSlotTaken) {
			metrics.RecordBookingConflict()
		}
		return nil, err
	}

	metrics.RecordBooking()
	metrics.RecordBookingTransition(StatusPending)
	logger.Info("booking created",
		"booking_id", created.ID, "teacher_id", created.TeacherID,
		"student_id", created.StudentID, "date", created.Date,
		"start", created.StartTime, "end", created.EndTime)

	s.notifyTeacher(ctx, t, created)
	return created, nil
}

// checkAvailability requires the window to be fully contained in one of
// the teacher's declared slots for that weekday.
func (s *service) checkAvailability(ctx context.Context, teacherID int, day string, window timeslot.Interval) error {
	slots, err := s.teachers.GetAvailability(ctx, teacherID)
	if err != nil {
		return err
	}
	for _, slot := range slots {
		if slot.Day == day && slot.StartTime <= window.Start && window.End <= slot.EndTime {
			return nil
		}
	}
	return ErrOutsideAvailability
}

func (s *service) Confirm(ctx context.Context, bookingID, userID int) (*Booking, error) {
	return s.transition(ctx, bookingID, userID, StatusPending, StatusConfirmed, true)
}

func (s *service) Decline(ctx context.Context, bookingID, userID int) (*Booking, error) {
	return s.transition(ctx, bookingID, userID, StatusPending, StatusCancelled, true)
}

func (s *service) Complete(ctx context.Context, bookingID, userID int) (*Booking, error) {
	return s.transition(ctx, bookingID, userID, StatusConfirmed, StatusCompleted, false)
}

// Cancel releases a pending or confirmed booking. Either participant may
// cancel; cancelling frees the interval for new bookings.
func (s *service) Cancel(ctx context.Context, bookingID, userID int) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.TeacherID != userID && b.StudentID != userID {
		return nil, ErrNotParticipant
	}
	return s.cancel(ctx, b, userID)
}

// CancelAsAdmin cancels on behalf of moderation, with no participant check.
func (s *service) CancelAsAdmin(ctx context.Context, bookingID int) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return s.cancel(ctx, b, 0)
}

func (s *service) cancel(ctx context.Context, b *Booking, userID int) (*Booking, error) {
	if b.Status != StatusPending && b.Status != StatusConfirmed {
		return nil, ErrInvalidTransition
	}

	updated, err := s.repo.UpdateStatus(ctx, b.ID, b.Status, StatusCancelled)
	if err != nil {
		if errors.Is(err, ErrStatusConflict) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	metrics.RecordBookingTransition(StatusCancelled)
	logger.Info("booking cancelled", "booking_id", b.ID, "by", userID)

	s.notifyStudent(ctx, updated)
	return updated, nil
}

// transition applies a single status edge after an ownership check.
// teacherOnly edges (confirm, decline) are restricted to the booked teacher;
// the rest accept either participant.
func (s *service) transition(ctx context.Context, bookingID, userID int, from, to string, teacherOnly bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if teacherOnly {
		if b.TeacherID != userID {
			return nil, ErrNotParticipant
		}
	} else if b.TeacherID != userID && b.StudentID != userID {
		return nil, ErrNotParticipant
	}
	if b.Status != from {
		return nil, ErrInvalidTransition
	}

	updated, err := s.repo.UpdateStatus(ctx, bookingID, from, to)
	if err != nil {
		if errors.Is(err, ErrStatusConflict) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	metrics.RecordBookingTransition(to)
	logger.Info("booking status changed", "booking_id", bookingID, "from", from, "to", to)

	if to != StatusCompleted {
		s.notifyStudent(ctx, updated)
	}
	return updated, nil
}

// GetAvailableSlots resolves the teacher's weekly availability against
// active bookings. Each declared window is shrunk, split or removed by the
// bookings that overlap it. With a date, only that weekday's windows are
// considered and only that date's bookings are subtracted; without one,
// every declared window is resolved against all active bookings of its
// weekday.
func (s *service) GetAvailableSlots(ctx context.Context, teacherID int, date string) ([]OpenSlot, error) {
	if _, err := s.teachers.FindByID(ctx, teacherID); err != nil {
		return nil, err
	}

	if date == "" {
		return s.resolveWeekly(ctx, teacherID)
	}

	parsedDate, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	day := timeslot.Weekday(parsedDate)

	slots, err := s.teachers.GetAvailability(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	booked, err := s.repo.ListBookedIntervals(ctx, teacherID, date)
	if err != nil {
		return nil, err
	}

	open := []OpenSlot{}
	for _, slot := range slots {
		if slot.Day != day {
			continue
		}
		remaining := []timeslot.Interval{{Start: slot.StartTime, End: slot.EndTime}}
		for _, b := range booked {
			remaining = timeslot.SubtractAll(remaining, b)
		}
		for _, rest := range remaining {
			open = append(open, OpenSlot{
				Day:       day,
				Date:      date,
				StartTime: rest.Start,
				EndTime:   rest.End,
			})
		}
	}
	return open, nil
}

// resolveWeekly subtracts all active bookings from the declared windows of
// their weekday, without pinning the result to a concrete date.
func (s *service) resolveWeekly(ctx context.Context, teacherID int) ([]OpenSlot, error) {
	slots, err := s.teachers.GetAvailability(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	booked, err := s.repo.ListActiveIntervals(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	bookedByDay := map[string][]timeslot.Interval{}
	for _, b := range booked {
		bookedByDay[b.Day] = append(bookedByDay[b.Day], b.Interval)
	}

	open := []OpenSlot{}
	for _, slot := range slots {
		remaining := []timeslot.Interval{{Start: slot.StartTime, End: slot.EndTime}}
		for _, b := range bookedByDay[slot.Day] {
			remaining = timeslot.SubtractAll(remaining, b)
		}
		for _, rest := range remaining {
			open = append(open, OpenSlot{
				Day:       slot.Day,
				StartTime: rest.Start,
				EndTime:   rest.End,
			})
		}
	}
	return open, nil
}

func (s *service) ListForTeacher(ctx context.Context, teacherID int, status string) ([]BookingWithNames, error) {
	return s.repo.ListByTeacher(ctx, teacherID, status)
}

func (s *service) ListForStudent(ctx context.Context, studentID int, status string) ([]BookingWithNames, error) {
	return s.repo.ListByStudent(ctx, studentID, status)
}

func (s *service) ListAll(ctx context.Context, filter AdminFilter) ([]BookingWithNames, error) {
	return s.repo.ListAll(ctx, filter)
}

func (s *service) notifyTeacher(ctx context.Context, t *teacher.Teacher, b *Booking) {
	if s.mailer == nil {
		return
	}
	student, err := s.users.FindByID(ctx, b.StudentID)
	if err != nil {
		logger.Error("booking mail skipped, student lookup failed", "student_id", b.StudentID, "error", err)
		return
	}
	if err := s.mailer.SendBookingRequested(ctx, t.Email, t.Name, student.Name, b.Subject, b.Date, b.StartTime, b.EndTime); err != nil {
		logger.Error("booking requested mail failed", "booking_id", b.ID, "error", err)
	}
}

func (s *service) notifyStudent(ctx context.Context, b *Booking) {
	if s.mailer == nil {
		return
	}
	student, err := s.users.FindByID(ctx, b.StudentID)
	if err != nil {
		logger.Error("booking mail skipped, student lookup failed", "student_id", b.StudentID, "error", err)
		return
	}
	if err := s.mailer.SendBookingStatus(ctx, student.Email, student.Name, b.Subject, b.Date, b.Status); err != nil {
		logger.Error("booking status mail failed", "booking_id", b.ID, "error", err)
	}
}
