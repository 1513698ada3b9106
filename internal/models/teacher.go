package models

import (
	"time"

	"github.com/lib/pq"
)

// Teacher represents an instructor record.
type Teacher struct {
	ID            string         `db:"id" json:"id"`
	Name          string         `db:"name" json:"name"`
	Department    string         `db:"department" json:"department"`
	Subjects      pq.StringArray `db:"subjects" json:"subjects"`
	MaxWeeklyLoad int            `db:"max_weekly_load" json:"max_weekly_load"`
	Availability  *string        `db:"availability" json:"availability,omitempty"`
	Active        bool           `db:"active" json:"active"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}
