package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hostelhub/hostel-api/internal/model"
)

// ErrDuplicateReview is returned when the student already reviewed the hostel.
var ErrDuplicateReview = errors.New("review already exists for this hostel")

type ReviewRepository struct {
	db DB
}

func NewReviewRepository(db DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewColumns = `id, hostel_id, student_id, rating, comment, created_at, updated_at`

func scanReview(row interface{ Scan(...any) error }) (*model.Review, error) {
	var rv model.Review
	err := row.Scan(
		&rv.ID,
		&rv.HostelID,
		&rv.StudentID,
		&rv.Rating,
		&rv.Comment,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

// Create inserts a review. The (hostel_id, student_id) unique index turns a
// second review into ErrDuplicateReview.
func (r *ReviewRepository) Create(ctx context.Context, rv *model.Review) error {
	query := `
		INSERT INTO reviews (hostel_id, student_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, rv.HostelID, rv.StudentID, rv.Rating, rv.Comment).
		Scan(&rv.ID, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateReview
		}
		return fmt.Errorf("create review: %w", err)
	}

	return nil
}

// GetByID returns nil, nil when the review does not exist
func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	rv, err := scanReview(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get review by id: %w", err)
	}

	return rv, nil
}

// GetByStudentAndHostel backs the hasReviewed check
func (r *ReviewRepository) GetByStudentAndHostel(ctx context.Context, studentID, hostelID int64) (*model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE student_id = $1 AND hostel_id = $2`

	rv, err := scanReview(r.db.QueryRow(ctx, query, studentID, hostelID))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get review by student and hostel: %w", err)
	}

	return rv, nil
}

// ListByHostel returns the hostel's reviews, newest first
func (r *ReviewRepository) ListByHostel(ctx context.Context, hostelID int64) ([]*model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE hostel_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, hostelID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*model.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return reviews, nil
}

// Ratings returns every rating given to the hostel
func (r *ReviewRepository) Ratings(ctx context.Context, hostelID int64) ([]int, error) {
	rows, err := r.db.Query(ctx, `SELECT rating FROM reviews WHERE hostel_id = $1`, hostelID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	var ratings []int
	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, rating)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}

	return ratings, nil
}

// Update rewrites rating and comment
func (r *ReviewRepository) Update(ctx context.Context, rv *model.Review) error {
	query := `
		UPDATE reviews
		SET rating = $1, comment = $2, updated_at = now()
		WHERE id = $3
		RETURNING updated_at
	`

	if err := r.db.QueryRow(ctx, query, rv.Rating, rv.Comment, rv.ID).Scan(&rv.UpdatedAt); err != nil {
		return fmt.Errorf("update review: %w", err)
	}

	return nil
}

// Delete removes a review
func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("review not found")
	}

	return nil
}
