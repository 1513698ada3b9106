package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestCourseRepositoryListByTerm(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	rows := sqlmock.NewRows([]string{"id", "term_id", "code", "name", "credits", "session_split", "department", "teacher_id", "max_students", "semester", "year", "category", "created_at", "updated_at"}).
		AddRow("c1", "term-1", "CS101", "Programming", 4, "2L+1P", "CSE", "t1", 60, 1, 2026, "core", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, term_id, code, name, credits, session_split, department, teacher_id, max_students, semester, year, category, created_at, updated_at FROM courses WHERE term_id = $1 ORDER BY code")).
		WithArgs("term-1").
		WillReturnRows(rows)

	courses, err := repo.ListByTerm(context.Background(), "term-1")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "CS101", courses[0].Code)
	assert.Equal(t, "2L+1P", courses[0].Split)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	rows := sqlmock.NewRows([]string{"id", "term_id", "code", "name", "credits", "session_split", "department", "teacher_id", "max_students", "semester", "year", "category", "created_at", "updated_at"}).
		AddRow("c1", "term-1", "CS101", "Programming", 4, "2L+1P", "CSE", nil, 60, 1, 2026, "core", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, term_id, code, name, credits, session_split, department, teacher_id, max_students, semester, year, category, created_at, updated_at FROM courses WHERE id = $1")).
		WithArgs("c1").
		WillReturnRows(rows)

	course, err := repo.FindByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Nil(t, course.TeacherID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
