package resource

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() {
		sqlxDB.Close()
	}

	return repo, mock, closer
}

func TestCreateResource(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(`INSERT INTO resources \(teacher_id, title, subject, url, description\)`).
		WithArgs(2, "Algebra notes", "Math", "https://example.com/algebra.pdf", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "teacher_id", "title", "subject", "url", "description", "created_at"}).
			AddRow(4, 2, "Algebra notes", "Math", "https://example.com/algebra.pdf", "", time.Now()))

	res, err := repo.Create(context.Background(), &Resource{
		TeacherID: 2, Title: "Algebra notes", Subject: "Math", URL: "https://example.com/algebra.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.ID)
}

func TestListBySubject(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(`SELECT (.+) FROM resources r JOIN users u ON u.id = r.teacher_id WHERE r.subject ILIKE \$1`).
		WithArgs("%math%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "teacher_id", "title", "subject", "url", "description", "created_at", "teacher_name"}).
			AddRow(4, 2, "Algebra notes", "Math", "https://example.com/algebra.pdf", "", time.Now(), "Bob"))

	resources, err := repo.List(context.Background(), Filter{Subject: "math"})
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "Bob", resources[0].TeacherName)
}

func TestDeleteResourceNotFound(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec(`DELETE FROM resources WHERE id = \$1`).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 99)
	assert.Equal(t, ErrResourceNotFound, err)
}
