package resource

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

var ErrResourceNotFound = errors.New("resource not found")

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, res *Resource) (*Resource, error) {
	var created Resource
	err := r.db.GetContext(ctx, &created,
		`INSERT INTO resources (teacher_id, title, subject, url, description)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, teacher_id, title, subject, url, description, created_at`,
		res.TeacherID, res.Title, res.Subject, res.URL, res.Description)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int) (*Resource, error) {
	var res Resource
	err := r.db.GetContext(ctx, &res,
		`SELECT id, teacher_id, title, subject, url, description, created_at
		 FROM resources WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	return &res, nil
}

func (r *postgresRepository) List(ctx context.Context, filter Filter) ([]ResourceWithTeacher, error) {
	query := `SELECT r.id, r.teacher_id, r.title, r.subject, r.url, r.description, r.created_at,
		u.name AS teacher_name
		FROM resources r JOIN users u ON u.id = r.teacher_id`
	conditions := []string{}
	args := []interface{}{}

	if filter.Subject != "" {
		args = append(args, "%"+filter.Subject+"%")
		conditions = append(conditions, "r.subject ILIKE $"+strconv.Itoa(len(args)))
	}
	if filter.TeacherID != 0 {
		args = append(args, filter.TeacherID)
		conditions = append(conditions, "r.teacher_id = $"+strconv.Itoa(len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY r.created_at DESC"

	resources := []ResourceWithTeacher{}
	err := r.db.SelectContext(ctx, &resources, query, args...)
	return resources, err
}

func (r *postgresRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrResourceNotFound
	}
	return nil
}
