package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/satyamraj2990/slotify-engine/internal/models"
)

// RoomRepository reads room records for the engine.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs a RoomRepository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// ListActive returns every active room ordered by capacity.
func (r *RoomRepository) ListActive(ctx context.Context) ([]models.Room, error) {
	const query = `SELECT id, room_number, building, capacity, room_type, equipment, active, created_at, updated_at FROM rooms WHERE active = TRUE ORDER BY capacity`
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}
