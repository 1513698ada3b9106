package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/satyamraj2990/slotify-engine/internal/models"
)

// ConstraintRepository reads the scheduling rules for a term.
type ConstraintRepository struct {
	db *sqlx.DB
}

// NewConstraintRepository constructs a ConstraintRepository.
func NewConstraintRepository(db *sqlx.DB) *ConstraintRepository {
	return &ConstraintRepository{db: db}
}

// GetByTerm fetches the constraints row for a term. A term with no
// configured constraints yields (nil, nil).
func (r *ConstraintRepository) GetByTerm(ctx context.Context, termID string) (*models.Constraints, error) {
	const query = `SELECT id, term_id, working_days, start_minute, end_minute, period_minutes, max_periods_per_day, prefer_morning_theory, avoid_back_to_back_labs, balance_daily_load, blocked_slots, holidays, created_at, updated_at FROM scheduling_constraints WHERE term_id = $1`
	var constraints models.Constraints
	if err := r.db.GetContext(ctx, &constraints, query, termID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("load constraints: %w", err)
	}
	return &constraints, nil
}
