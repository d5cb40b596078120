package repository

import (
	"context"
	"fmt"

	"github.com/hostelhub/hostel-api/internal/model"
)

type RoomRepository struct {
	db DB
}

func NewRoomRepository(db DB) *RoomRepository {
	return &RoomRepository{db: db}
}

const roomColumns = `id, hostel_id, label, room_type, monthly_price, is_available, is_active, created_at, updated_at`

func scanRoom(row interface{ Scan(...any) error }) (*model.Room, error) {
	var room model.Room
	err := row.Scan(
		&room.ID,
		&room.HostelID,
		&room.Label,
		&room.Type,
		&room.MonthlyPrice,
		&room.IsAvailable,
		&room.IsActive,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepository) queryRooms(ctx context.Context, op, query string, args ...any) ([]*model.Room, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var rooms []*model.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rooms: %w", err)
	}

	return rooms, nil
}

// Create adds a room to a hostel
func (r *RoomRepository) Create(ctx context.Context, room *model.Room) error {
	query := `
		INSERT INTO rooms (hostel_id, label, room_type, monthly_price, is_available, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		room.HostelID,
		room.Label,
		room.Type,
		room.MonthlyPrice,
		room.IsAvailable,
		room.IsActive,
	).Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create room: %w", err)
	}

	return nil
}

// GetByID returns nil, nil when the room does not exist
func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*model.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`

	room, err := scanRoom(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get room by id: %w", err)
	}

	return room, nil
}

// ListByHostel returns the hostel's rooms, soft-deleted ones included
func (r *RoomRepository) ListByHostel(ctx context.Context, hostelID int64) ([]*model.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE hostel_id = $1 ORDER BY id`
	return r.queryRooms(ctx, "list rooms by hostel", query, hostelID)
}

// ListByHostels loads rooms for several hostels in one query
func (r *RoomRepository) ListByHostels(ctx context.Context, hostelIDs []int64) ([]*model.Room, error) {
	if len(hostelIDs) == 0 {
		return []*model.Room{}, nil
	}
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE hostel_id = ANY($1) ORDER BY hostel_id, id`
	return r.queryRooms(ctx, "list rooms by hostels", query, hostelIDs)
}

// Update writes label, type and price
func (r *RoomRepository) Update(ctx context.Context, room *model.Room) error {
	query := `
		UPDATE rooms
		SET label = $1, room_type = $2, monthly_price = $3, updated_at = now()
		WHERE id = $4 AND is_active
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query, room.Label, room.Type, room.MonthlyPrice, room.ID).Scan(&room.UpdatedAt)
	if err != nil {
		if IsNotFound(err) {
			return fmt.Errorf("room not found")
		}
		return fmt.Errorf("update room: %w", err)
	}

	return nil
}

// SetAvailability flips the landlord-controlled availability flag
func (r *RoomRepository) SetAvailability(ctx context.Context, id int64, available bool) error {
	query := `UPDATE rooms SET is_available = $1, updated_at = now() WHERE id = $2 AND is_active`

	tag, err := r.db.Exec(ctx, query, available, id)
	if err != nil {
		return fmt.Errorf("set room availability: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("room not found")
	}

	return nil
}

// Deactivate soft-deletes a room that has booking history
func (r *RoomRepository) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE rooms SET is_active = FALSE, is_available = FALSE, updated_at = now() WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("deactivate room: %w", err)
	}

	return nil
}

// Delete hard-deletes a room with no booking history
func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("room not found")
	}

	return nil
}
