package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nardos-Amakele/TutorSite/internal/teacher"
	"github.com/Nardos-Amakele/TutorSite/internal/timeslot"
	"github.com/Nardos-Amakele/TutorSite/internal/user"
)

type MockBookingRepo struct{ mock.Mock }

func (m *MockBookingRepo) Create(ctx context.Context, b *Booking) (*Booking, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockBookingRepo) GetByID(ctx context.Context, id int) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockBookingRepo) FindConflict(ctx context.Context, teacherID int, date string, window timeslot.Interval) (*Booking, error) {
	args := m.Called(ctx, teacherID, date, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockBookingRepo) UpdateStatus(ctx context.Context, id int, from, to string) (*Booking, error) {
	args := m.Called(ctx, id, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockBookingRepo) ListByTeacher(ctx context.Context, teacherID int, status string) ([]BookingWithNames, error) {
	args := m.Called(ctx, teacherID, status)
	return args.Get(0).([]BookingWithNames), args.Error(1)
}

func (m *MockBookingRepo) ListByStudent(ctx context.Context, studentID int, status string) ([]BookingWithNames, error) {
	args := m.Called(ctx, studentID, status)
	return args.Get(0).([]BookingWithNames), args.Error(1)
}

func (m *MockBookingRepo) ListBookedIntervals(ctx context.Context, teacherID int, date string) ([]timeslot.Interval, error) {
	args := m.Called(ctx, teacherID, date)
	return args.Get(0).([]timeslot.Interval), args.Error(1)
}

func (m *MockBookingRepo) ListActiveIntervals(ctx context.Context, teacherID int) ([]DayInterval, error) {
	args := m.Called(ctx, teacherID)
	return args.Get(0).([]DayInterval), args.Error(1)
}

func (m *MockBookingRepo) ListAll(ctx context.Context, filter AdminFilter) ([]BookingWithNames, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]BookingWithNames), args.Error(1)
}

// stubTeacherRepo serves FindByID and GetAvailability from fixtures; the
// booking service never touches the other teacher repository methods.
type stubTeacherRepo struct {
	teacher.Repository

	teachers map[int]*teacher.Teacher
	slots    []teacher.AvailabilitySlot
}

func (s *stubTeacherRepo) FindByID(ctx context.Context, id int) (*teacher.Teacher, error) {
	t, ok := s.teachers[id]
	if !ok {
		return nil, teacher.ErrTeacherNotFound
	}
	return t, nil
}

func (s *stubTeacherRepo) GetAvailability(ctx context.Context, teacherID int) ([]teacher.AvailabilitySlot, error) {
	return s.slots, nil
}

type stubUserRepo struct {
	user.Repository

	users map[int]*user.User
}

func (s *stubUserRepo) FindByID(ctx context.Context, id int) (*user.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

type MockBookingMailer struct{ mock.Mock }

func (m *MockBookingMailer) SendBookingRequested(ctx context.Context, to, teacherName, studentName, subject, date, start, end string) error {
	return m.Called(ctx, to, teacherName, studentName, subject, date, start, end).Error(0)
}

func (m *MockBookingMailer) SendBookingStatus(ctx context.Context, to, studentName, subject, date, status string) error {
	return m.Called(ctx, to, studentName, subject, date, status).Error(0)
}

var mathTeacher = &teacher.Teacher{
	ID: 2, Name: "Bob", Email: "bob@example.com", Subjects: []string{"Math", "Physics"},
}

// newTestService pins "today" to 2025-06-01 so 2025-06-02 (a Monday) is
// always in the future.
func newTestService(repo Repository, teachers teacher.Repository, users user.Repository, mailer Mailer, strict bool) *service {
	return &service{
		repo:               repo,
		teachers:           teachers,
		users:              users,
		mailer:             mailer,
		strictAvailability: strict,
		now: func() time.Time {
			return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		},
	}
}

func TestService_BookTeacher(t *testing.T) {
	teachers := &stubTeacherRepo{teachers: map[int]*teacher.Teacher{2: mathTeacher}}

	validReq := BookTeacherRequest{
		TeacherID: 2, Subject: "Math", Date: "2025-06-02", StartTime: "10:00", EndTime: "11:00",
	}

	t.Run("creates a pending booking with derived weekday", func(t *testing.T) {
		repo := new(MockBookingRepo)
		repo.On("FindConflict", mock.Anything, 2, "2025-06-02",
			timeslot.Interval{Start: "10:00", End: "11:00"}).Return(nil, nil)
		repo.On("Create", mock.Anything, &Booking{
			TeacherID: 2, StudentID: 1, Subject: "Math", Date: "2025-06-02",
			Day: "Monday", StartTime: "10:00", EndTime: "11:00", Status: StatusPending,
		}).Return(&Booking{ID: 7, Status: StatusPending, StudentID: 1}, nil)

		svc := newTestService(repo, teachers, &stubUserRepo{}, nil, false)

		b, err := svc.BookTeacher(context.Background(), 1, validReq)
		require.NoError(t, err)
		assert.Equal(t, 7, b.ID)
		repo.AssertExpectations(t)
	})

	t.Run("rejects past date", func(t *testing.T) {
		svc := newTestService(new(MockBookingRepo), teachers, &stubUserRepo{}, nil, false)

		req := validReq
		req.Date = "2025-05-31"
		_, err := svc.BookTeacher(context.Background(), 1, req)
		assert.Equal(t, ErrPastDate, err)
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		svc := newTestService(new(MockBookingRepo), teachers, &stubUserRepo{}, nil, false)

		req := validReq
		req.Date = "02-06-2025"
		_, err := svc.BookTeacher(context.Background(), 1, req)
		assert.Equal(t, ErrInvalidDate, err)
	})

	t.Run("rejects inverted time range", func(t *testing.T) {
		svc := newTestService(new(MockBookingRepo), teachers, &stubUserRepo{}, nil, false)

		req := validReq
		req.StartTime, req.EndTime = "11:00", "10:00"
		_, err := svc.BookTeacher(context.Background(), 1, req)
		assert.Equal(t, ErrInvalidTimeRange, err)
	})

	t.Run("rejects unknown teacher", func(t *testing.T) {
		svc := newTestService(new(MockBookingRepo), teachers, &stubUserRepo{}, nil, false)

		req := validReq
		req.TeacherID = 99
		_, err := svc.BookTeacher(context.Background(), 1, req)
		assert.Equal(t, teacher.ErrTeacherNotFound, err)
	})

	t.Run("rejects subject the teacher does not teach", func(t *testing.T) {
		svc := newTestService(new(MockBookingRepo), teachers, &stubUserRepo{}, nil, false)

		req := validReq
		req.Subject = "Chemistry"
		_, err := svc.BookTeacher(context.Background(), 1, req)
		assert.Equal(t, ErrSubjectNotTaught, err)
	})

	t.Run("rejects overlapping active booking", func(t *testing.T) {
		repo := new(MockBookingRepo)
		repo.On("FindConflict", mock.Anything, 2, "2025-06-02",
			timeslot.Interval{Start: "10:30", End: "11:30"}).
			Return(&Booking{ID: 3, Status: StatusConfirmed}, nil)

		svc := newTestService(repo, teachers, &stubUserRepo{}, nil, false)

		req := validReq
		req.StartTime, req.EndTime = "10:30", "11:30"
		_, err := svc.BookTeacher(context.Background(), 1, req)
		assert.Equal(t, ErrSlotTaken, err)
	})

	t.Run("mails the teacher after booking", func(t *testing.T) {
		repo := new(MockBookingRepo)
		repo.On("FindConflict", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
		repo.On("Create", mock.Anything, mock.Anything).
			Return(&Booking{ID: 7, StudentID: 1, Subject: "Math", Date: "2025-06-02",
				StartTime: "10:00", EndTime: "11:00", Status: StatusPending}, nil)

		mailer := new(MockBookingMailer)
		mailer.On("SendBookingRequested", mock.Anything, "bob@example.com", "Bob", "Alice",
			"Math", "2025-06-02", "10:00", "11:00").Return(nil)

		users := &stubUserRepo{users: map[int]*user.User{1: {ID: 1, Name: "Alice", Email: "alice@example.com"}}}
		svc := newTestService(repo, teachers, users, mailer, false)

		_, err := svc.BookTeacher(context.Background(), 1, validReq)
		require.NoError(t, err)
		mailer.AssertExpectations(t)
	})
}

func TestService_BookTeacherStrictAvailability(t *testing.T) {
	teachers := &stubTeacherRepo{
		teachers: map[int]*teacher.Teacher{2: mathTeacher},
		slots: []teacher.AvailabilitySlot{
			{Day: "Monday", StartTime: "09:00", EndTime: "12:00"},
		},
	}

	t.Run("rejects window outside declared availability", func(t *testing.T) {
		svc := newTestService(new(MockBookingRepo), teachers, &stubUserRepo{}, nil, true)

		_, err := svc.BookTeacher(context.Background(), 1, BookTeacherRequest{
			TeacherID: 2, Subject: "Math", Date: "2025-06-02", StartTime: "13:00", EndTime: "14:00",
		})
		assert.Equal(t, ErrOutsideAvailability, err)
	})

	t.Run("accepts window inside declared availability", func(t *testing.T) {
		repo := new(MockBookingRepo)
		repo.On("FindConflict", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
		repo.On("Create", mock.Anything, mock.Anything).Return(&Booking{ID: 8, StudentID: 1}, nil)

		svc := newTestService(repo, teachers, &stubUserRepo{}, nil, true)

		_, err := svc.BookTeacher(context.Background(), 1, BookTeacherRequest{
			TeacherID: 2, Subject: "Math", Date: "2025-06-02", StartTime: "09:00", EndTime: "10:00",
		})
		require.NoError(t, err)
	})
}

func TestService_GetAvailableSlots(t *testing.T) {
	teachers := &stubTeacherRepo{
		teachers: map[int]*teacher.Teacher{2: mathTeacher},
		slots: []teacher.AvailabilitySlot{
			{Day: "Monday", StartTime: "09:00", EndTime: "12:00"},
			{Day: "Monday", StartTime: "14:00", EndTime: "16:00"},
			{Day: "Tuesday", StartTime: "08:00", EndTime: "10:00"},
		},
	}

	t.Run("splits windows around active bookings", func(t *testing.T) {
		repo := new(MockBookingRepo)
		repo.On("ListBookedIntervals", mock.Anything, 2, "2025-06-02").
			Return([]timeslot.Interval{{Start: "10:00", End: "11:00"}}, nil)

		svc := newTestService(repo, teachers, &stubUserRepo{}, nil, false)

		// 2025-06-02 is a Monday: the Tuesday slot must not leak in
		slots, err := svc.GetAvailableSlots(context.Background(), 2, "2025-06-02")
		require.NoError(t, err)
		assert.Equal(t, []OpenSlot{
			{Day: "Monday", Date: "2025-06-02", StartTime: "09:00", EndTime: "10:00"},
			{Day: "Monday", Date: "2025-06-02", StartTime: "11:00", EndTime: "12:00"},
			{Day: "Monday", Date: "2025-06-02", StartTime: "14:00", EndTime: "16:00"},
		}, slots)
	})

	t.Run("fully booked window disappears", func(t *testing.T) {
		repo := new(MockBookingRepo)
		repo.On("ListBookedIntervals", mock.Anything, 2, "2025-06-02").
			Return([]timeslot.Interval{
				{Start: "09:00", End: "12:00"},
				{Start: "14:00", End: "16:00"},
			}, nil)

		svc := newTestService(repo, teachers, &stubUserRepo{}, nil, false)

		slots, err := svc.GetAvailableSlots(context.Background(), 2, "2025-06-02")
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("no bookings returns full windows", func(t *testing.T) {
		repo := new(MockBookingRepo)
		repo.On("ListBookedIntervals", mock.Anything, 2, "2025-06-02").
			Return([]timeslot.Interval{}, nil)

		svc := newTestService(repo, teachers, &stubUserRepo{}, nil, false)

		slots, err := svc.GetAvailableSlots(context.Background(), 2, "2025-06-02")
		require.NoError(t, err)
		require.Len(t, slots, 2)
		assert.Equal(t, "09:00", slots[0].StartTime)
		assert.Equal(t, "12:00", slots[0].EndTime)
	})

	t.Run("omitted date resolves the whole weekly schedule", func(t *testing.T) {
		repo := new(MockBookingRepo)
		repo.On("ListActiveIntervals", mock.Anything, 2).
			Return([]DayInterval{
				{Day: "Monday", Interval: timeslot.Interval{Start: "10:00", End: "11:00"}},
				{Day: "Tuesday", Interval: timeslot.Interval{Start: "08:00", End: "10:00"}},
			}, nil)

		svc := newTestService(repo, teachers, &stubUserRepo{}, nil, false)

		slots, err := svc.GetAvailableSlots(context.Background(), 2, "")
		require.NoError(t, err)
		assert.Equal(t, []OpenSlot{
			{Day: "Monday", StartTime: "09:00", EndTime: "10:00"},
			{Day: "Monday", StartTime: "11:00", EndTime: "12:00"},
			{Day: "Monday", StartTime: "14:00", EndTime: "16:00"},
		}, slots)
		repo.AssertExpectations(t)
	})

	t.Run("omitted date with no bookings returns every declared window", func(t *testing.T) {
		repo := new(MockBookingRepo)
		repo.On("ListActiveIntervals", mock.Anything, 2).Return([]DayInterval{}, nil)

		svc := newTestService(repo, teachers, &stubUserRepo{}, nil, false)

		slots, err := svc.GetAvailableSlots(context.Background(), 2, "")
		require.NoError(t, err)
		require.Len(t, slots, 3)
		assert.Empty(t, slots[0].Date)
	})

	t.Run("omitted date still requires a known teacher", func(t *testing.T) {
		svc := newTestService(new(MockBookingRepo), teachers, &stubUserRepo{}, nil, false)

		_, err := svc.GetAvailableSlots(context.Background(), 99, "")
		assert.Equal(t, teacher.ErrTeacherNotFound, err)
	})
}

func TestService_Transitions(t *testing.T) {
	pending := &Booking{ID: 7, TeacherID: 2, StudentID: 1, Status: StatusPending}
	confirmed := &Booking{ID: 7, TeacherID: 2, StudentID: 1, Status: StatusConfirmed}
	completed := &Booking{ID: 7, TeacherID: 2, StudentID: 1, Status: StatusCompleted}

	t.Run("teacher confirms pending booking", func(t *testing.T) {
		repo := new(MockBookingRepo)
		repo.On("GetByID", mock.Anything, 7).Return(pending, nil)
		repo.On("UpdateStatus", mock.Anything, 7, StatusPending, StatusConfirmed).Return(confirmed, nil)

		svc := newTestService(repo, &stubTeacherRepo{}, &stubUserRepo{}, nil, false)

		b, err := svc.Confirm(context.Background(), 7, 2)
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, b.Status)
	})

	t.Run("student cannot confirm", func(t *testing.T) {
		repo := new(MockBookingRepo)
		repo.On("GetByID", mock.Anything, 7).Return(pending, nil)

		svc := newTestService(repo, &stubTeacherRepo{}, &stubUserRepo{}, nil, false)

		_, err := svc.Confirm(context.Background(), 7, 1)
		assert.Equal(t, ErrNotParticipant, err)
	})

	t.Run("confirm requires pending state", func(t *testing.T) {
		repo := new(MockBookingRepo)
		repo.On("GetByID", mock.Anything, 7).Return(completed, nil)

		svc := newTestService(repo, &stubTeacherRepo{}, &stubUserRepo{}, nil, false)

		_, err := svc.Confirm(context.Background(), 7, 2)
		assert.Equal(t, ErrInvalidTransition, err)
	})

	t.Run("participant completes confirmed booking", func(t *testing.T) {
		repo := new(MockBookingRepo)
		repo.On("GetByID", mock.Anything, 7).Return(confirmed, nil)
		repo.On("UpdateStatus", mock.Anything, 7, StatusConfirmed, StatusCompleted).Return(completed, nil)

		svc := newTestService(repo, &stubTeacherRepo{}, &stubUserRepo{}, nil, false)

		b, err := svc.Complete(context.Background(), 7, 1)
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, b.Status)
	})

	t.Run("stranger cannot complete", func(t *testing.T) {
		repo := new(MockBookingRepo)
		repo.On("GetByID", mock.Anything, 7).Return(confirmed, nil)

		svc := newTestService(repo, &stubTeacherRepo{}, &stubUserRepo{}, nil, false)

		_, err := svc.Complete(context.Background(), 7, 42)
		assert.Equal(t, ErrNotParticipant, err)
	})

	t.Run("student cancels confirmed booking", func(t *testing.T) {
		cancelled := &Booking{ID: 7, TeacherID: 2, StudentID: 1, Status: StatusCancelled}

		repo := new(MockBookingRepo)
		repo.On("GetByID", mock.Anything, 7).Return(confirmed, nil)
		repo.On("UpdateStatus", mock.Anything, 7, StatusConfirmed, StatusCancelled).Return(cancelled, nil)

		svc := newTestService(repo, &stubTeacherRepo{}, &stubUserRepo{}, nil, false)

		b, err := svc.Cancel(context.Background(), 7, 1)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, b.Status)
	})

	t.Run("admin cancels without being a participant", func(t *testing.T) {
		cancelled := &Booking{ID: 7, TeacherID: 2, StudentID: 1, Status: StatusCancelled}

		repo := new(MockBookingRepo)
		repo.On("GetByID", mock.Anything, 7).Return(confirmed, nil)
		repo.On("UpdateStatus", mock.Anything, 7, StatusConfirmed, StatusCancelled).Return(cancelled, nil)

		svc := newTestService(repo, &stubTeacherRepo{}, &stubUserRepo{}, nil, false)

		b, err := svc.CancelAsAdmin(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, b.Status)
	})

	t.Run("admin cancel still requires an active state", func(t *testing.T) {
		repo := new(MockBookingRepo)
		repo.On("GetByID", mock.Anything, 7).Return(completed, nil)

		svc := newTestService(repo, &stubTeacherRepo{}, &stubUserRepo{}, nil, false)

		_, err := svc.CancelAsAdmin(context.Background(), 7)
		assert.Equal(t, ErrInvalidTransition, err)
	})

	t.Run("cannot cancel completed booking", func(t *testing.T) {
		repo := new(MockBookingRepo)
		repo.On("GetByID", mock.Anything, 7).Return(completed, nil)

		svc := newTestService(repo, &stubTeacherRepo{}, &stubUserRepo{}, nil, false)

		_, err := svc.Cancel(context.Background(), 7, 1)
		assert.Equal(t, ErrInvalidTransition, err)
	})

	t.Run("concurrent transition surfaces as invalid", func(t *testing.T) {
		repo := new(MockBookingRepo)
		repo.On("GetByID", mock.Anything, 7).Return(pending, nil)
		repo.On("UpdateStatus", mock.Anything, 7, StatusPending, StatusConfirmed).Return(nil, ErrStatusConflict)

		svc := newTestService(repo, &stubTeacherRepo{}, &stubUserRepo{}, nil, false)

		_, err := svc.Confirm(context.Background(), 7, 2)
		assert.Equal(t, ErrInvalidTransition, err)
	})
}
