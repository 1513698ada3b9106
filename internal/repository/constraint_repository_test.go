package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstraintRepositoryGetByTerm(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConstraintRepository(db)

	rows := sqlmock.NewRows([]string{"id", "term_id", "working_days", "start_minute", "end_minute", "period_minutes", "max_periods_per_day", "prefer_morning_theory", "avoid_back_to_back_labs", "balance_daily_load", "blocked_slots", "holidays", "created_at", "updated_at"}).
		AddRow("k1", "term-1", "{0,1,2,3,4}", 540, 900, 60, 6, true, false, true, `["Monday|P1"]`, `[]`, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM scheduling_constraints WHERE term_id = $1")).
		WithArgs("term-1").
		WillReturnRows(rows)

	constraints, err := repo.GetByTerm(context.Background(), "term-1")
	require.NoError(t, err)
	assert.Equal(t, 540, constraints.StartMinute)
	assert.Equal(t, []int64{0, 1, 2, 3, 4}, []int64(constraints.WorkingDays))
	assert.True(t, constraints.PreferMorningTheory)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConstraintRepositoryGetByTermMissingYieldsNil(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConstraintRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM scheduling_constraints WHERE term_id = $1")).
		WithArgs("term-without-rules").
		WillReturnError(sql.ErrNoRows)

	constraints, err := repo.GetByTerm(context.Background(), "term-without-rules")
	require.NoError(t, err)
	assert.Nil(t, constraints)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "department", "subjects", "max_weekly_load", "availability", "active", "created_at", "updated_at"}).
		AddRow("t1", "Dr. Rao", "CSE", "{algorithms,compilers}", 18, "Mon 9-12, Tue 9-17", true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM teachers WHERE active = TRUE ORDER BY name")).
		WillReturnRows(rows)

	teachers, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	require.NotNil(t, teachers[0].Availability)
	assert.Equal(t, "Mon 9-12, Tue 9-17", *teachers[0].Availability)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "department", "subjects", "max_weekly_load", "availability", "active", "created_at", "updated_at"}).
		AddRow("t1", "Dr. Rao", "CSE", "{algorithms}", 18, nil, true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM teachers WHERE id = $1")).
		WithArgs("t1").
		WillReturnRows(rows)

	teacher, err := repo.FindByID(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Rao", teacher.Name)
	assert.Nil(t, teacher.Availability)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	rows := sqlmock.NewRows([]string{"id", "room_number", "building", "capacity", "room_type", "equipment", "active", "created_at", "updated_at"}).
		AddRow("r1", "A-101", "Main", 60, "classroom", "{projector}", true, time.Now(), time.Now()).
		AddRow("r2", "B-201", "Main", 30, "lab", "{workstations}", true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM rooms WHERE active = TRUE ORDER BY capacity")).
		WillReturnRows(rows)

	rooms, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "lab", rooms[1].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}
