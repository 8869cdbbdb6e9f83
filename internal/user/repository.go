package user

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/jmoiron/sqlx"
)

var ErrUserNotFound = errors.New("user not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, name, email, passwordHash, role string) (*User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, password_hash, role, banned, created_at
	`

	var user User
	err := r.db.GetContext(ctx, &user, query, name, email, passwordHash, role)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, name, email, password_hash, role, banned, created_at
		FROM users
		WHERE email = $1
	`

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	query := `
		SELECT id, name, email, password_hash, role, banned, created_at
		FROM users
		WHERE id = $1
	`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, email)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *repository) UpdateName(ctx context.Context, id int, name string) (*User, error) {
	query := `
		UPDATE users
		SET name = $2
		WHERE id = $1
		RETURNING id, name, email, password_hash, role, banned, created_at
	`

	var user User
	err := r.db.GetContext(ctx, &user, query, id, name)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *repository) SetBanned(ctx context.Context, id int, role string, banned bool) (*User, error) {
	query := `
		UPDATE users
		SET banned = $3
		WHERE id = $1 AND role = $2
		RETURNING id, name, email, password_hash, role, banned, created_at
	`

	var user User
	err := r.db.GetContext(ctx, &user, query, id, role, banned)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) ListByRole(ctx context.Context, role string) ([]User, error) {
	query := `
		SELECT id, name, email, password_hash, role, banned, created_at
		FROM users
		WHERE role = $1
		ORDER BY created_at DESC
	`

	var users []User
	err := r.db.SelectContext(ctx, &users, query, role)
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (r *repository) SearchByRole(ctx context.Context, role, name, email string, banned *bool) ([]User, error) {
	query := `
		SELECT id, name, email, password_hash, role, banned, created_at
		FROM users
		WHERE role = $1
	`
	args := []interface{}{role}

	if name != "" {
		args = append(args, "%"+name+"%")
		query += ` AND name ILIKE $` + strconv.Itoa(len(args))
	}
	if email != "" {
		args = append(args, "%"+email+"%")
		query += ` AND email ILIKE $` + strconv.Itoa(len(args))
	}
	if banned != nil {
		args = append(args, *banned)
		query += ` AND banned = $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY created_at DESC`

	var users []User
	err := r.db.SelectContext(ctx, &users, query, args...)
	if err != nil {
		return nil, err
	}

	return users, nil
}
