package models

import (
	"time"

	"github.com/lib/pq"
)

// Room represents a bookable room record.
type Room struct {
	ID        string         `db:"id" json:"id"`
	Number    string         `db:"room_number" json:"room_number"`
	Building  string         `db:"building" json:"building"`
	Capacity  int            `db:"capacity" json:"capacity"`
	Type      string         `db:"room_type" json:"room_type"`
	Equipment pq.StringArray `db:"equipment" json:"equipment"`
	Active    bool           `db:"active" json:"active"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}
