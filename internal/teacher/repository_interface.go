package teacher

import "context"

type Repository interface {
	CreateWithAccount(ctx context.Context, name, email, passwordHash string, subjects []string, qualification string, hourlyRateCents int64) (*Teacher, error)
	FindByID(ctx context.Context, id int) (*Teacher, error)
	List(ctx context.Context) ([]Teacher, error)
	Search(ctx context.Context, filter SearchFilter) ([]Teacher, error)
	UpdateProfile(ctx context.Context, id int, qualification *string, hourlyRateCents *int64) (*Teacher, error)
	AddSubjects(ctx context.Context, id int, subjects []string) (*Teacher, error)
	RemoveSubject(ctx context.Context, id int, subject string) (*Teacher, error)
	SetVerified(ctx context.Context, id int, verified bool) (*Teacher, error)
	AddAvailability(ctx context.Context, teacherID int, slot AvailabilitySlot) ([]AvailabilitySlot, error)
	RemoveAvailability(ctx context.Context, teacherID int, slot AvailabilitySlot) ([]AvailabilitySlot, error)
	GetAvailability(ctx context.Context, teacherID int) ([]AvailabilitySlot, error)
}
