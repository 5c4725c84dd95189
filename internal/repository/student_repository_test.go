package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmc-class/bmc-api/internal/models"
)

func studentRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "phone", "password_hash", "role", "class_type", "team", "is_leader", "post_count", "total_points", "tree_level", "active", "created_at", "updated_at"}).
		AddRow("s1", "김블로그", "01012345678", "hash", string(models.RoleStudent), string(models.ClassOnline), nil, false, 3, 15, 1, true, now, now)
}

func TestFindByPhone(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM students WHERE phone = \\$1 LIMIT 1").
		WithArgs("01012345678").
		WillReturnRows(studentRows(time.Now()))

	student, err := repo.FindByPhone(context.Background(), "01012345678")
	require.NoError(t, err)
	assert.Equal(t, "김블로그", student.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListStudentsFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM students WHERE 1=1 AND team = \\$1 ORDER BY total_points DESC LIMIT 20 OFFSET 0").
		WithArgs("1조").
		WillReturnRows(studentRows(time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students WHERE 1=1 AND team = $1")).
		WithArgs("1조").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, total, err := repo.List(context.Background(), models.StudentFilter{Team: "1조", SortBy: "total_points"})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePostCount(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE students SET post_count = $2, tree_level = $3, updated_at = $4 WHERE id = $1")).
		WithArgs("s1", 7, 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.UpdatePostCount(context.Background(), "s1", 7, 2)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteStudent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM students WHERE id = $1")).
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Delete(context.Background(), "s1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
