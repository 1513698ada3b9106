package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyamraj2990/slotify-engine/internal/dto"
	"github.com/satyamraj2990/slotify-engine/internal/models"
	"github.com/satyamraj2990/slotify-engine/internal/repository"
	appErrors "github.com/satyamraj2990/slotify-engine/pkg/errors"
)

type stubCourseRepo struct {
	courses []models.Course
	err     error
}

func (s *stubCourseRepo) ListByTerm(_ context.Context, _ string) ([]models.Course, error) {
	return s.courses, s.err
}

type stubTeacherRepo struct {
	teachers []models.Teacher
	err      error
}

func (s *stubTeacherRepo) ListActive(_ context.Context) ([]models.Teacher, error) {
	return s.teachers, s.err
}

type stubRoomRepo struct {
	rooms []models.Room
	err   error
}

func (s *stubRoomRepo) ListActive(_ context.Context) ([]models.Room, error) {
	return s.rooms, s.err
}

type stubConstraintRepo struct {
	constraints *models.Constraints
	err         error
}

func (s *stubConstraintRepo) GetByTerm(_ context.Context, _ string) (*models.Constraints, error) {
	return s.constraints, s.err
}

func strPtr(s string) *string { return &s }

func termFixture() (*stubCourseRepo, *stubTeacherRepo, *stubRoomRepo, *stubConstraintRepo) {
	courses := &stubCourseRepo{courses: []models.Course{
		{
			ID: "c1", TermID: "term-1", Code: "CS101", Name: "Programming",
			Credits: 4, Split: "2L+1P", TeacherID: strPtr("t1"),
			MaxStudents: 60, Semester: 1, Year: 2026, Category: "CORE",
		},
	}}
	teachers := &stubTeacherRepo{teachers: []models.Teacher{
		{ID: "t1", Name: "Rao", Department: "CSE", MaxWeeklyLoad: 16, Active: true},
	}}
	rooms := &stubRoomRepo{rooms: []models.Room{
		{ID: "r1", Number: "R101", Capacity: 100, Type: "CLASSROOM", Active: true},
		{ID: "r2", Number: "LAB1", Capacity: 80, Type: "LAB", Active: true},
	}}
	constraints := &stubConstraintRepo{constraints: &models.Constraints{
		ID: "k1", TermID: "term-1",
		WorkingDays:   pq.Int64Array{0, 1, 2, 3, 4},
		StartMinute:   540,
		EndMinute:     900,
		PeriodMinutes: 60,
		BlockedSlots:  types.JSONText(`[]`),
		Holidays:      types.JSONText(`[]`),
	}}
	return courses, teachers, rooms, constraints
}

func newTestService(t *testing.T) *TimetableService {
	t.Helper()
	courses, teachers, rooms, constraints := termFixture()
	return NewTimetableService(courses, teachers, rooms, constraints,
		TimetableServiceConfig{RunTTL: time.Hour, Workers: 1}, nil, nil, nil, nil)
}

func TestGenerateSynchronousPlacesAllSessions(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{TermID: "term-1", Seed: 42})
	require.NoError(t, err)

	assert.Equal(t, models.TimetableRunCompleted, resp.Status)
	assert.Equal(t, int64(42), resp.Seed)
	assert.Len(t, resp.Entries, 3)
	assert.Empty(t, resp.Unassigned)
	assert.Equal(t, 3, resp.Stats.TotalSessions)

	// the practical must land in the lab, lectures in the classroom
	for _, e := range resp.Entries {
		if e.Kind == "practical" {
			assert.Equal(t, "LAB1", e.RoomNumber)
		} else {
			assert.Equal(t, "R101", e.RoomNumber)
		}
		assert.Equal(t, "Rao", e.TeacherName)
		assert.Equal(t, "S1-Y2026", e.Cohort)
	}
}

func TestGenerateRejectsMissingTerm(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGenerateFailsWithoutConstraints(t *testing.T) {
	courses, teachers, rooms, _ := termFixture()
	svc := NewTimetableService(courses, teachers, rooms, &stubConstraintRepo{},
		TimetableServiceConfig{RunTTL: time.Hour}, nil, nil, nil, nil)

	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{TermID: "term-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestGenerateUnconfiguredTermIsPreconditionFailure(t *testing.T) {
	// real sqlx path: an absent constraints row must surface as a
	// precondition failure, not an internal error
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectQuery("FROM scheduling_constraints").
		WithArgs("term-1").
		WillReturnError(sql.ErrNoRows)

	courses, teachers, rooms, _ := termFixture()
	svc := NewTimetableService(courses, teachers, rooms,
		repository.NewConstraintRepository(sqlx.NewDb(db, "sqlmock")),
		TimetableServiceConfig{RunTTL: time.Hour}, nil, nil, nil, nil)

	_, err = svc.Generate(context.Background(), dto.GenerateTimetableRequest{TermID: "term-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRunReturnsStoredRun(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{TermID: "term-1", Seed: 7})
	require.NoError(t, err)

	run, err := svc.GetRun(context.Background(), resp.RunID)
	require.NoError(t, err)
	assert.Equal(t, resp.RunID, run.ID)
	assert.Equal(t, models.TimetableRunCompleted, run.Status)
	assert.Len(t, run.Entries, 3)
}

func TestGetRunUnknownIDIsNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetRun(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExportCSVHasOneCellPerEntry(t *testing.T) {
	svc := newTestService(t)
	resp, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{TermID: "term-1", Seed: 42})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 3)

	payload, contentType, filename, err := svc.Export(context.Background(), resp.RunID, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, filename, resp.RunID)

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6) // header + five working days

	assert.Equal(t, "Day", records[0][0])
	assert.Equal(t, "P1", records[0][1])

	occupied := 0
	for _, row := range records[1:] {
		for _, cell := range row[1:] {
			if cell == "-" {
				continue
			}
			occupied++
			assert.Contains(t, cell, "CS101")
			assert.Contains(t, cell, "Rao")
		}
	}
	assert.Equal(t, 3, occupied)
}

func TestExportICSHasOneEventPerEntry(t *testing.T) {
	svc := newTestService(t)
	resp, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{TermID: "term-1", Seed: 42})
	require.NoError(t, err)

	payload, contentType, _, err := svc.Export(context.Background(), resp.RunID, "ics")
	require.NoError(t, err)
	assert.Equal(t, "text/calendar", contentType)

	text := string(payload)
	assert.Equal(t, 3, strings.Count(text, "BEGIN:VEVENT"))
	assert.Equal(t, 2, strings.Count(text, "SUMMARY:CS101 - Lecture"))
	assert.Equal(t, 1, strings.Count(text, "SUMMARY:CS101 - Practical"))
	assert.Contains(t, text, "LOCATION:LAB1")
	assert.Contains(t, text, "LOCATION:R101")
}

func TestExportRowsIncludesEveryEntry(t *testing.T) {
	svc := newTestService(t)
	resp, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{TermID: "term-1", Seed: 42})
	require.NoError(t, err)

	payload, _, _, err := svc.Export(context.Background(), resp.RunID, "rows")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 4) // header + three entries
	assert.Contains(t, lines[0], "cohort")
	for _, line := range lines[1:] {
		assert.Contains(t, line, "CS101")
		assert.Contains(t, line, "S1-Y2026")
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc := newTestService(t)
	resp, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{TermID: "term-1", Seed: 1})
	require.NoError(t, err)

	_, _, _, err = svc.Export(context.Background(), resp.RunID, "xml")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnsupportedFormat.Code, appErrors.FromError(err).Code)
}

func TestAsyncGenerationCompletesOnWorker(t *testing.T) {
	svc := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.StartWorkers(ctx)
	defer svc.StopWorkers()

	resp, err := svc.Generate(ctx, dto.GenerateTimetableRequest{TermID: "term-1", Seed: 42, Async: true})
	require.NoError(t, err)
	assert.Equal(t, models.TimetableRunPending, resp.Status)
	assert.Empty(t, resp.Entries)

	deadline := time.Now().Add(5 * time.Second)
	for {
		run, err := svc.GetRun(ctx, resp.RunID)
		require.NoError(t, err)
		if run.Status == models.TimetableRunCompleted {
			assert.Len(t, run.Entries, 3)
			break
		}
		require.True(t, time.Now().Before(deadline), "run did not complete in time")
		time.Sleep(10 * time.Millisecond)
	}
}

func TestExportPendingRunIsRejected(t *testing.T) {
	svc := newTestService(t)

	rec := runRecord{Run: models.TimetableRun{
		ID: "pending-run", TermID: "term-1",
		Status:      models.TimetableRunPending,
		GeneratedAt: time.Now(),
	}}
	svc.runs.Save(rec)

	_, _, _, err := svc.Export(context.Background(), "pending-run", "csv")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRunIncomplete.Code, appErrors.FromError(err).Code)
}

func TestSeededRunsAreReproducible(t *testing.T) {
	first := newTestService(t)
	second := newTestService(t)

	a, err := first.Generate(context.Background(), dto.GenerateTimetableRequest{TermID: "term-1", Seed: 99})
	require.NoError(t, err)
	b, err := second.Generate(context.Background(), dto.GenerateTimetableRequest{TermID: "term-1", Seed: 99})
	require.NoError(t, err)

	assert.Equal(t, a.Entries, b.Entries)
}
