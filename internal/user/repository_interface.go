package user

import "context"

type Repository interface {
	Create(ctx context.Context, name, email, passwordHash, role string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateName(ctx context.Context, id int, name string) (*User, error)
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	SetBanned(ctx context.Context, id int, role string, banned bool) (*User, error)
	ListByRole(ctx context.Context, role string) ([]User, error)
	SearchByRole(ctx context.Context, role, name, email string, banned *bool) ([]User, error)
}
