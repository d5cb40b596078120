package repository

import (
	"context"
	"fmt"

	"github.com/hostelhub/hostel-api/internal/model"
)

type BookingRepository struct {
	db DB
}

func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `
	id, room_id, hostel_id, student_id, landlord_id, start_date, end_date, status,
	decision_reason, cancellation_reason, decided_at, cancelled_at, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID,
		&b.RoomID,
		&b.HostelID,
		&b.StudentID,
		&b.LandlordID,
		&b.StartDate,
		&b.EndDate,
		&b.Status,
		&b.DecisionReason,
		&b.CancellationReason,
		&b.DecidedAt,
		&b.CancelledAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) queryBookings(ctx context.Context, op, query string, args ...any) ([]*model.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}

// Create inserts a booking request
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (room_id, hostel_id, student_id, landlord_id, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		booking.RoomID,
		booking.HostelID,
		booking.StudentID,
		booking.LandlordID,
		booking.StartDate,
		booking.EndDate,
		booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByID returns nil, nil when the booking does not exist
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return booking, nil
}

// ListByStudent returns the student's bookings, newest first
func (r *BookingRepository) ListByStudent(ctx context.Context, studentID int64) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE student_id = $1 ORDER BY created_at DESC`
	return r.queryBookings(ctx, "get bookings by student", query, studentID)
}

// ListByLandlord returns bookings on the landlord's hostels; an empty status
// means all of them.
func (r *BookingRepository) ListByLandlord(ctx context.Context, landlordID int64, status model.BookingStatus) ([]*model.Booking, error) {
	if status == "" {
		query := `SELECT ` + bookingColumns + ` FROM bookings WHERE landlord_id = $1 ORDER BY created_at DESC`
		return r.queryBookings(ctx, "get bookings by landlord", query, landlordID)
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE landlord_id = $1 AND status = $2 ORDER BY created_at ASC`
	return r.queryBookings(ctx, "get bookings by landlord", query, landlordID, status)
}

// Transition moves a booking to `to` only if it is still in one of `from`.
// reason lands in decision_reason for decisions and cancellation_reason for
// cancellations. It reports false when another writer got there first.
func (r *BookingRepository) Transition(
	ctx context.Context,
	id int64,
	from []model.BookingStatus,
	to model.BookingStatus,
	reason string,
) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $1,
		    decision_reason = CASE WHEN $1 IN ('approved', 'rejected') THEN $2 ELSE decision_reason END,
		    decided_at = CASE WHEN $1 IN ('approved', 'rejected') THEN now() ELSE decided_at END,
		    cancellation_reason = CASE WHEN $1 = 'cancelled' THEN $2 ELSE cancellation_reason END,
		    cancelled_at = CASE WHEN $1 = 'cancelled' THEN now() ELSE cancelled_at END,
		    updated_at = now()
		WHERE id = $3 AND status = ANY($4)
	`

	tag, err := r.db.Exec(ctx, query, string(to), reason, id, stringSlice(from))
	if err != nil {
		return false, fmt.Errorf("update booking status: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// HasApproved reports whether the student holds an approved booking on any
// room of the hostel
func (r *BookingRepository) HasApproved(ctx context.Context, studentID, hostelID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE student_id = $1 AND hostel_id = $2 AND status = 'approved'
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, studentID, hostelID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check approved booking: %w", err)
	}

	return exists, nil
}

// HistoryForRoom counts the room's open and closed bookings
func (r *BookingRepository) HistoryForRoom(ctx context.Context, roomID int64) (model.RoomBookingHistory, error) {
	query := `
		SELECT COUNT(*) FILTER (WHERE status IN ('pending', 'approved')),
		       COUNT(*) FILTER (WHERE status IN ('rejected', 'cancelled'))
		FROM bookings
		WHERE room_id = $1
	`

	var h model.RoomBookingHistory
	if err := r.db.QueryRow(ctx, query, roomID).Scan(&h.Open, &h.Closed); err != nil {
		return model.RoomBookingHistory{}, fmt.Errorf("count room bookings: %w", err)
	}

	return h, nil
}

// CountByStatus groups all bookings by status
func (r *BookingRepository) CountByStatus(ctx context.Context) (map[model.BookingStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.BookingStatus]int)
	for rows.Next() {
		var status model.BookingStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan booking count: %w", err)
		}
		counts[status] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking counts: %w", err)
	}

	return counts, nil
}
