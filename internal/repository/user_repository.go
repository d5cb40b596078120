package repository

import (
	"context"
	"fmt"

	"github.com/hostelhub/hostel-api/internal/model"
)

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, full_name, phone, role, status, status_reason, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.FullName,
		&u.Phone,
		&u.Role,
		&u.Status,
		&u.StatusReason,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a self-registered user
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (email, full_name, phone, role, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		user.Email,
		user.FullName,
		user.Phone,
		user.Role,
		user.Status,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID returns nil, nil when the user does not exist
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

// UpdateStatus moves a user from one status to another. It reports false
// when the user was no longer in the expected status.
func (r *UserRepository) UpdateStatus(ctx context.Context, id int64, from, to model.UserStatus, reason string) (bool, error) {
	query := `
		UPDATE users
		SET status = $1, status_reason = $2, updated_at = now()
		WHERE id = $3 AND status = $4
	`

	tag, err := r.db.Exec(ctx, query, to, reason, id, from)
	if err != nil {
		return false, fmt.Errorf("update user status: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// CountByRoleAndStatus groups users for the admin dashboard
func (r *UserRepository) CountByRoleAndStatus(ctx context.Context) ([]model.UserCount, error) {
	query := `
		SELECT role, status, COUNT(*)
		FROM users
		GROUP BY role, status
		ORDER BY role, status
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	defer rows.Close()

	var counts []model.UserCount
	for rows.Next() {
		var c model.UserCount
		if err := rows.Scan(&c.Role, &c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("scan user count: %w", err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user counts: %w", err)
	}

	return counts, nil
}
