package repository

import (
	"context"
	"fmt"

	"github.com/hostelhub/hostel-api/internal/model"
)

type SavedHostelRepository struct {
	db DB
}

func NewSavedHostelRepository(db DB) *SavedHostelRepository {
	return &SavedHostelRepository{db: db}
}

// Add bookmarks a hostel. Saving twice is a no-op; created reports whether a
// new row was written.
func (r *SavedHostelRepository) Add(ctx context.Context, studentID, hostelID int64) (created bool, err error) {
	query := `
		INSERT INTO saved_hostels (student_id, hostel_id)
		VALUES ($1, $2)
		ON CONFLICT (student_id, hostel_id) DO NOTHING
	`

	tag, err := r.db.Exec(ctx, query, studentID, hostelID)
	if err != nil {
		return false, fmt.Errorf("save hostel: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Remove drops a bookmark. Removing a missing bookmark is not an error.
func (r *SavedHostelRepository) Remove(ctx context.Context, studentID, hostelID int64) error {
	query := `DELETE FROM saved_hostels WHERE student_id = $1 AND hostel_id = $2`

	if _, err := r.db.Exec(ctx, query, studentID, hostelID); err != nil {
		return fmt.Errorf("remove saved hostel: %w", err)
	}

	return nil
}

// Exists reports whether the student saved the hostel
func (r *SavedHostelRepository) Exists(ctx context.Context, studentID, hostelID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM saved_hostels WHERE student_id = $1 AND hostel_id = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, studentID, hostelID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check saved hostel: %w", err)
	}

	return exists, nil
}

// ListByStudent returns bookmarks newest first, without the hostel attached
func (r *SavedHostelRepository) ListByStudent(ctx context.Context, studentID int64) ([]*model.SavedHostel, error) {
	query := `
		SELECT student_id, hostel_id, created_at
		FROM saved_hostels
		WHERE student_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("list saved hostels: %w", err)
	}
	defer rows.Close()

	var saved []*model.SavedHostel
	for rows.Next() {
		var s model.SavedHostel
		if err := rows.Scan(&s.StudentID, &s.HostelID, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan saved hostel: %w", err)
		}
		saved = append(saved, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate saved hostels: %w", err)
	}

	return saved, nil
}
