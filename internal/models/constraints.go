package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

// Constraints stores the scheduling rules active for a term. Working
// hours are minutes from midnight; blocked slots and holidays are kept
// as JSON payloads in their textual wire form.
type Constraints struct {
	ID                  string         `db:"id" json:"id"`
	TermID              string         `db:"term_id" json:"term_id"`
	WorkingDays         pq.Int64Array  `db:"working_days" json:"working_days"`
	StartMinute         int            `db:"start_minute" json:"start_minute"`
	EndMinute           int            `db:"end_minute" json:"end_minute"`
	PeriodMinutes       int            `db:"period_minutes" json:"period_minutes"`
	MaxPeriodsPerDay    int            `db:"max_periods_per_day" json:"max_periods_per_day"`
	PreferMorningTheory bool           `db:"prefer_morning_theory" json:"prefer_morning_theory"`
	AvoidBackToBackLabs bool           `db:"avoid_back_to_back_labs" json:"avoid_back_to_back_labs"`
	BalanceDailyLoad    bool           `db:"balance_daily_load" json:"balance_daily_load"`
	BlockedSlots        types.JSONText `db:"blocked_slots" json:"blocked_slots"`
	Holidays            types.JSONText `db:"holidays" json:"holidays"`
	CreatedAt           time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at" json:"updated_at"`
}
