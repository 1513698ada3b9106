package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/satyamraj2990/slotify-engine/internal/models"
)

// CourseRepository reads course records for the engine.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// ListByTerm returns every course registered for a term.
func (r *CourseRepository) ListByTerm(ctx context.Context, termID string) ([]models.Course, error) {
	const query = `SELECT id, term_id, code, name, credits, session_split, department, teacher_id, max_students, semester, year, category, created_at, updated_at FROM courses WHERE term_id = $1 ORDER BY code`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, termID); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID fetches a course by ID.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT id, term_id, code, name, credits, session_split, department, teacher_id, max_students, semester, year, category, created_at, updated_at FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}
