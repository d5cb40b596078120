package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/hostelhub/hostel-api/internal/model"
	"github.com/shopspring/decimal"
)

type HostelRepository struct {
	db DB
}

func NewHostelRepository(db DB) *HostelRepository {
	return &HostelRepository{db: db}
}

const hostelColumns = `
	id, landlord_id, name, hostel_type, street, city, county, latitude, longitude,
	distance_km, description, amenities, images, min_price, max_price, is_active,
	verification_status, rejection_reason, disabled_reason, average_rating, total_reviews,
	created_at, updated_at`

func scanHostel(row interface{ Scan(...any) error }) (*model.Hostel, error) {
	var h model.Hostel
	var maxPrice decimal.NullDecimal
	err := row.Scan(
		&h.ID,
		&h.LandlordID,
		&h.Name,
		&h.Type,
		&h.Address.Street,
		&h.Address.City,
		&h.Address.County,
		&h.Address.Latitude,
		&h.Address.Longitude,
		&h.DistanceKm,
		&h.Description,
		&h.Amenities,
		&h.Images,
		&h.MinPrice,
		&maxPrice,
		&h.IsActive,
		&h.VerificationStatus,
		&h.RejectionReason,
		&h.DisabledReason,
		&h.AverageRating,
		&h.TotalReviews,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	h.MaxPrice = decimalPtr(maxPrice)
	return &h, nil
}

func (r *HostelRepository) queryHostels(ctx context.Context, op, query string, args ...any) ([]*model.Hostel, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var hostels []*model.Hostel
	for rows.Next() {
		h, err := scanHostel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan hostel: %w", err)
		}
		hostels = append(hostels, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hostels: %w", err)
	}

	return hostels, nil
}

// Create inserts a submitted hostel
func (r *HostelRepository) Create(ctx context.Context, h *model.Hostel) error {
	query := `
		INSERT INTO hostels (
			landlord_id, name, hostel_type, street, city, county, latitude, longitude,
			distance_km, description, amenities, images, min_price, max_price,
			is_active, verification_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		h.LandlordID,
		h.Name,
		h.Type,
		h.Address.Street,
		h.Address.City,
		h.Address.County,
		h.Address.Latitude,
		h.Address.Longitude,
		h.DistanceKm,
		h.Description,
		h.Amenities,
		h.Images,
		h.MinPrice,
		nullDecimal(h.MaxPrice),
		h.IsActive,
		h.VerificationStatus,
	).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create hostel: %w", err)
	}

	return nil
}

// GetByID returns nil, nil when the hostel does not exist
func (r *HostelRepository) GetByID(ctx context.Context, id int64) (*model.Hostel, error) {
	query := `SELECT ` + hostelColumns + ` FROM hostels WHERE id = $1`

	h, err := scanHostel(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get hostel by id: %w", err)
	}

	return h, nil
}

// GetByIDs loads several hostels at once
func (r *HostelRepository) GetByIDs(ctx context.Context, ids []int64) ([]*model.Hostel, error) {
	if len(ids) == 0 {
		return []*model.Hostel{}, nil
	}
	query := `SELECT ` + hostelColumns + ` FROM hostels WHERE id = ANY($1) ORDER BY id`
	return r.queryHostels(ctx, "get hostels by ids", query, ids)
}

// ListByLandlord returns every hostel the landlord owns
func (r *HostelRepository) ListByLandlord(ctx context.Context, landlordID int64) ([]*model.Hostel, error) {
	query := `SELECT ` + hostelColumns + ` FROM hostels WHERE landlord_id = $1 ORDER BY created_at DESC`
	return r.queryHostels(ctx, "list hostels by landlord", query, landlordID)
}

// ListByVerification returns hostels in a verification state, oldest first
func (r *HostelRepository) ListByVerification(ctx context.Context, status model.HostelVerification) ([]*model.Hostel, error) {
	query := `SELECT ` + hostelColumns + ` FROM hostels WHERE verification_status = $1 ORDER BY created_at ASC`
	return r.queryHostels(ctx, "list hostels by verification", query, status)
}

// ListPublic returns approved, active hostels matching the filter
func (r *HostelRepository) ListPublic(ctx context.Context, f model.HostelFilter) ([]*model.Hostel, error) {
	where := []string{"verification_status = 'approved'", "is_active"}
	var args []any

	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.City != "" {
		add("city ILIKE $%d", f.City)
	}
	if f.County != "" {
		add("county ILIKE $%d", f.County)
	}
	if f.Type != "" {
		add("hostel_type = $%d", f.Type)
	}
	if f.MaxPrice != nil {
		add("min_price <= $%d", *f.MaxPrice)
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	args = append(args, limit, f.Offset)

	query := fmt.Sprintf(
		`SELECT %s FROM hostels WHERE %s ORDER BY average_rating DESC, created_at DESC LIMIT $%d OFFSET $%d`,
		hostelColumns, strings.Join(where, " AND "), len(args)-1, len(args),
	)
	return r.queryHostels(ctx, "list public hostels", query, args...)
}

// Update writes landlord-editable content; it never touches verification,
// activity or rating columns.
func (r *HostelRepository) Update(ctx context.Context, h *model.Hostel) error {
	query := `
		UPDATE hostels
		SET name = $1, hostel_type = $2, street = $3, city = $4, county = $5,
		    latitude = $6, longitude = $7, distance_km = $8, description = $9,
		    amenities = $10, images = $11, min_price = $12, max_price = $13,
		    updated_at = now()
		WHERE id = $14
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		h.Name,
		h.Type,
		h.Address.Street,
		h.Address.City,
		h.Address.County,
		h.Address.Latitude,
		h.Address.Longitude,
		h.DistanceKm,
		h.Description,
		h.Amenities,
		h.Images,
		h.MinPrice,
		nullDecimal(h.MaxPrice),
		h.ID,
	).Scan(&h.UpdatedAt)

	if err != nil {
		return fmt.Errorf("update hostel: %w", err)
	}

	return nil
}

// UpdateVerification applies a verification transition guarded on the
// current status
func (r *HostelRepository) UpdateVerification(ctx context.Context, id int64, from, to model.HostelVerification, reason string) (bool, error) {
	query := `
		UPDATE hostels
		SET verification_status = $1, rejection_reason = $2, updated_at = now()
		WHERE id = $3 AND verification_status = $4
	`

	tag, err := r.db.Exec(ctx, query, to, reason, id, from)
	if err != nil {
		return false, fmt.Errorf("update hostel verification: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// SetActive toggles the listing. The reason is kept only while inactive.
func (r *HostelRepository) SetActive(ctx context.Context, id int64, active bool, reason string) error {
	query := `
		UPDATE hostels
		SET is_active = $1, disabled_reason = CASE WHEN $1 THEN '' ELSE $2 END, updated_at = now()
		WHERE id = $3
	`

	tag, err := r.db.Exec(ctx, query, active, reason, id)
	if err != nil {
		return fmt.Errorf("set hostel active: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("hostel not found")
	}

	return nil
}

// UpdateRating stores the review aggregate on the hostel row
func (r *HostelRepository) UpdateRating(ctx context.Context, id int64, average float64, total int) error {
	query := `UPDATE hostels SET average_rating = $1, total_reviews = $2 WHERE id = $3`

	if _, err := r.db.Exec(ctx, query, average, total, id); err != nil {
		return fmt.Errorf("update hostel rating: %w", err)
	}

	return nil
}

// HasHistory reports whether any booking or review references the hostel
func (r *HostelRepository) HasHistory(ctx context.Context, id int64) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM bookings WHERE hostel_id = $1)
		    OR EXISTS (SELECT 1 FROM reviews WHERE hostel_id = $1)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check hostel history: %w", err)
	}

	return exists, nil
}

// Delete removes the hostel; rooms, reports and bookmarks go with it
func (r *HostelRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM hostels WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete hostel: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("hostel not found")
	}

	return nil
}

// Counts returns the status breakdown for admin metrics
func (r *HostelRepository) Counts(ctx context.Context) (model.HostelCounts, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_active),
		       COUNT(*) FILTER (WHERE verification_status = 'pending'),
		       COUNT(*) FILTER (WHERE verification_status = 'approved'),
		       COUNT(*) FILTER (WHERE verification_status = 'rejected'),
		       COUNT(*) FILTER (WHERE NOT is_active),
		       COUNT(*) FILTER (WHERE is_active AND verification_status = 'approved')
		FROM hostels
	`

	var c model.HostelCounts
	err := r.db.QueryRow(ctx, query).Scan(
		&c.Total,
		&c.Active,
		&c.Pending,
		&c.Approved,
		&c.Rejected,
		&c.Disabled,
		&c.ActiveApproved,
	)
	if err != nil {
		return model.HostelCounts{}, fmt.Errorf("count hostels: %w", err)
	}

	return c, nil
}
