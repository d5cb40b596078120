package repository

import (
	"context"
	"fmt"

	"github.com/hostelhub/hostel-api/internal/model"
)

type LandlordRepository struct {
	db DB
}

func NewLandlordRepository(db DB) *LandlordRepository {
	return &LandlordRepository{db: db}
}

// Create registers a profile in pending state
func (r *LandlordRepository) Create(ctx context.Context, p *model.LandlordProfile) error {
	query := `
		INSERT INTO landlord_profiles (user_id, business_name, contact_phone, contact_email, verification_status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		p.UserID,
		p.BusinessName,
		p.ContactPhone,
		p.ContactEmail,
		p.VerificationStatus,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create landlord profile: %w", err)
	}

	return nil
}

const landlordColumns = `
	user_id, business_name, contact_phone, contact_email, verification_status,
	rejection_reason, verified_at, verified_by, created_at, updated_at`

func scanLandlord(row interface{ Scan(...any) error }) (*model.LandlordProfile, error) {
	var p model.LandlordProfile
	err := row.Scan(
		&p.UserID,
		&p.BusinessName,
		&p.ContactPhone,
		&p.ContactEmail,
		&p.VerificationStatus,
		&p.RejectionReason,
		&p.VerifiedAt,
		&p.VerifiedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByUserID returns nil, nil when the user has no profile
func (r *LandlordRepository) GetByUserID(ctx context.Context, userID int64) (*model.LandlordProfile, error) {
	query := `SELECT ` + landlordColumns + ` FROM landlord_profiles WHERE user_id = $1`

	p, err := scanLandlord(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get landlord profile: %w", err)
	}

	return p, nil
}

// ListByStatus returns the admin review queue, oldest first
func (r *LandlordRepository) ListByStatus(ctx context.Context, status model.LandlordVerification) ([]*model.LandlordProfile, error) {
	query := `SELECT ` + landlordColumns + ` FROM landlord_profiles WHERE verification_status = $1 ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("list landlord profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*model.LandlordProfile
	for rows.Next() {
		p, err := scanLandlord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan landlord profile: %w", err)
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate landlord profiles: %w", err)
	}

	return profiles, nil
}

// UpdateVerification applies a verification transition guarded on the
// current status. verifiedBy is only recorded when moving to verified.
func (r *LandlordRepository) UpdateVerification(
	ctx context.Context,
	userID int64,
	from, to model.LandlordVerification,
	reason string,
	verifiedBy int64,
) (bool, error) {
	query := `
		UPDATE landlord_profiles
		SET verification_status = $1,
		    rejection_reason = $2,
		    verified_at = CASE WHEN $1 = 'verified' THEN now() ELSE NULL END,
		    verified_by = CASE WHEN $1 = 'verified' THEN $3::BIGINT ELSE NULL END,
		    updated_at = now()
		WHERE user_id = $4 AND verification_status = $5
	`

	tag, err := r.db.Exec(ctx, query, to, reason, verifiedBy, userID, from)
	if err != nil {
		return false, fmt.Errorf("update landlord verification: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// CountByStatus groups profiles by verification status
func (r *LandlordRepository) CountByStatus(ctx context.Context) (map[model.LandlordVerification]int, error) {
	query := `SELECT verification_status, COUNT(*) FROM landlord_profiles GROUP BY verification_status`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count landlords: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.LandlordVerification]int)
	for rows.Next() {
		var status model.LandlordVerification
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan landlord count: %w", err)
		}
		counts[status] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate landlord counts: %w", err)
	}

	return counts, nil
}
