package resource

import "context"

type Repository interface {
	Create(ctx context.Context, r *Resource) (*Resource, error)
	GetByID(ctx context.Context, id int) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]ResourceWithTeacher, error)
	Delete(ctx context.Context, id int) error
}
