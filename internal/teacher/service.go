package teacher

import (
	"context"
	"errors"

	"github.com/Nardos-Amakele/TutorSite/internal/auth"
	"github.com/Nardos-Amakele/TutorSite/internal/logger"
	"github.com/Nardos-Amakele/TutorSite/internal/metrics"
	"github.com/Nardos-Amakele/TutorSite/internal/timeslot"
	"github.com/Nardos-Amakele/TutorSite/internal/user"
)

var (
	ErrInvalidDay       = errors.New("invalid day of week")
	ErrInvalidTimeRange = errors.New("invalid time range")
)

var weekdays = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Teacher, string, string, error)
	GetByID(ctx context.Context, id int) (*Teacher, error)
	List(ctx context.Context) ([]Teacher, error)
	Search(ctx context.Context, filter SearchFilter) ([]Teacher, error)
	UpdateProfile(ctx context.Context, id int, req UpdateProfileRequest) (*Teacher, error)
	AddSubjects(ctx context.Context, id int, subjects []string) (*Teacher, error)
	RemoveSubject(ctx context.Context, id int, subject string) (*Teacher, error)
	SetVerified(ctx context.Context, id int, verified bool) (*Teacher, error)
	AddAvailability(ctx context.Context, teacherID int, req SlotRequest) ([]AvailabilitySlot, error)
	RemoveAvailability(ctx context.Context, teacherID int, req SlotRequest) ([]AvailabilitySlot, error)
	GetAvailability(ctx context.Context, teacherID int) ([]AvailabilitySlot, error)
}

type service struct {
	repo          Repository
	users         user.Repository
	accessSecret  string
	refreshSecret string
}

func NewService(repo Repository, users user.Repository, accessSecret, refreshSecret string) Service {
	return &service{
		repo:          repo,
		users:         users,
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Teacher, string, string, error) {
	exists, err := s.users.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, "", "", err
	}
	if exists {
		return nil, "", "", user.ErrEmailExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", "", err
	}

	t, err := s.repo.CreateWithAccount(ctx, req.Name, req.Email, hash, req.Subjects, req.Qualification, req.HourlyRateCents)
	if err != nil {
		return nil, "", "", err
	}

	access, refresh, err := auth.GenerateTokens(t.ID, t.Email, user.RoleTeacher, s.accessSecret, s.refreshSecret)
	if err != nil {
		return nil, "", "", err
	}

	metrics.RecordRegistration(user.RoleTeacher)
	logger.Info("teacher registered", "teacher_id", t.ID, "email", t.Email)

	return t, access, refresh, nil
}

func (s *service) GetByID(ctx context.Context, id int) (*Teacher, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]Teacher, error) {
	return s.repo.List(ctx)
}

func (s *service) Search(ctx context.Context, filter SearchFilter) ([]Teacher, error) {
	return s.repo.Search(ctx, filter)
}

func (s *service) UpdateProfile(ctx context.Context, id int, req UpdateProfileRequest) (*Teacher, error) {
	return s.repo.UpdateProfile(ctx, id, req.Qualification, req.HourlyRateCents)
}

func (s *service) AddSubjects(ctx context.Context, id int, subjects []string) (*Teacher, error) {
	return s.repo.AddSubjects(ctx, id, subjects)
}

func (s *service) RemoveSubject(ctx context.Context, id int, subject string) (*Teacher, error) {
	return s.repo.RemoveSubject(ctx, id, subject)
}

func (s *service) SetVerified(ctx context.Context, id int, verified bool) (*Teacher, error) {
	t, err := s.repo.SetVerified(ctx, id, verified)
	if err != nil {
		return nil, err
	}
	logger.Info("teacher verification changed", "teacher_id", id, "verified", verified)
	return t, nil
}

func validateSlot(req SlotRequest) error {
	if !weekdays[req.Day] {
		return ErrInvalidDay
	}
	window := timeslot.Interval{Start: req.StartTime, End: req.EndTime}
	if !timeslot.ValidClock(req.StartTime) || !timeslot.ValidClock(req.EndTime) || !timeslot.IsValid(window) {
		return ErrInvalidTimeRange
	}
	return nil
}

func (s *service) AddAvailability(ctx context.Context, teacherID int, req SlotRequest) ([]AvailabilitySlot, error) {
	if err := validateSlot(req); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, teacherID); err != nil {
		return nil, err
	}
	return s.repo.AddAvailability(ctx, teacherID, AvailabilitySlot{
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
}

func (s *service) RemoveAvailability(ctx context.Context, teacherID int, req SlotRequest) ([]AvailabilitySlot, error) {
	if err := validateSlot(req); err != nil {
		return nil, err
	}
	return s.repo.RemoveAvailability(ctx, teacherID, AvailabilitySlot{
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
}

func (s *service) GetAvailability(ctx context.Context, teacherID int) ([]AvailabilitySlot, error) {
	if _, err := s.repo.FindByID(ctx, teacherID); err != nil {
		return nil, err
	}
	return s.repo.GetAvailability(ctx, teacherID)
}
