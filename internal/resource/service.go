package resource

import (
	"context"
	"errors"

	"github.com/Nardos-Amakele/TutorSite/internal/logger"
	"github.com/Nardos-Amakele/TutorSite/internal/user"
)

var ErrNotOwner = errors.New("resource belongs to another teacher")

type Service interface {
	Add(ctx context.Context, teacherID int, req CreateResourceRequest) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]ResourceWithTeacher, error)
	Delete(ctx context.Context, id, userID int, role string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Add(ctx context.Context, teacherID int, req CreateResourceRequest) (*Resource, error) {
	res, err := s.repo.Create(ctx, &Resource{
		TeacherID:   teacherID,
		Title:       req.Title,
		Subject:     req.Subject,
		URL:         req.URL,
		Description: req.Description,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("resource shared", "resource_id", res.ID, "teacher_id", teacherID, "subject", res.Subject)
	return res, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]ResourceWithTeacher, error) {
	return s.repo.List(ctx, filter)
}

// Delete removes a resource. Owners remove their own; admins remove any.
func (s *service) Delete(ctx context.Context, id, userID int, role string) error {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if role != user.RoleAdmin && res.TeacherID != userID {
		return ErrNotOwner
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("resource removed", "resource_id", id, "by", userID, "role", role)
	return nil
}
