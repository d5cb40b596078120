package repository

import (
	"context"
	"fmt"

	"github.com/hostelhub/hostel-api/internal/model"
)

type ReportRepository struct {
	db DB
}

func NewReportRepository(db DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `
	id, hostel_id, reporter_id, reason, description, status, admin_notes,
	handled_by, resolved_at, created_at, updated_at`

func scanReport(row interface{ Scan(...any) error }) (*model.Report, error) {
	var rp model.Report
	err := row.Scan(
		&rp.ID,
		&rp.HostelID,
		&rp.ReporterID,
		&rp.Reason,
		&rp.Description,
		&rp.Status,
		&rp.AdminNotes,
		&rp.HandledBy,
		&rp.ResolvedAt,
		&rp.CreatedAt,
		&rp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rp, nil
}

// Create files a new report in pending state
func (r *ReportRepository) Create(ctx context.Context, rp *model.Report) error {
	query := `
		INSERT INTO reports (hostel_id, reporter_id, reason, description, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, rp.HostelID, rp.ReporterID, rp.Reason, rp.Description, rp.Status).
		Scan(&rp.ID, &rp.CreatedAt, &rp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}

	return nil
}

// GetByID returns nil, nil when the report does not exist
func (r *ReportRepository) GetByID(ctx context.Context, id int64) (*model.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`

	rp, err := scanReport(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get report by id: %w", err)
	}

	return rp, nil
}

// List returns reports in the given status, oldest first. An empty status
// returns everything.
func (r *ReportRepository) List(ctx context.Context, status model.ReportStatus) ([]*model.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports ORDER BY created_at ASC`
	args := []any{}
	if status != "" {
		query = `SELECT ` + reportColumns + ` FROM reports WHERE status = $1 ORDER BY created_at ASC`
		args = append(args, status)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []*model.Report
	for rows.Next() {
		rp, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, rp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}

	return reports, nil
}

// MarkReviewed moves a pending report to reviewed. It reports false when the
// report had already left pending.
func (r *ReportRepository) MarkReviewed(ctx context.Context, id, adminID int64, notes string) (bool, error) {
	query := `
		UPDATE reports
		SET status = 'reviewed', admin_notes = $1, handled_by = $2, updated_at = now()
		WHERE id = $3 AND status = 'pending'
	`

	tag, err := r.db.Exec(ctx, query, notes, adminID, id)
	if err != nil {
		return false, fmt.Errorf("mark report reviewed: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Resolve closes a report. With disableHostel set it also deactivates the
// hostel and resolves every other open report against it, all in one
// transaction. ok is false when the report was already resolved.
func (r *ReportRepository) Resolve(
	ctx context.Context,
	id, hostelID, adminID int64,
	notes string,
	disableHostel bool,
) (outcome model.ResolveOutcome, ok bool, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return outcome, false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE reports
		SET status = 'resolved', admin_notes = $1, handled_by = $2, resolved_at = now(), updated_at = now()
		WHERE id = $3 AND status IN ('pending', 'reviewed')
	`, notes, adminID, id)
	if err != nil {
		return outcome, false, fmt.Errorf("resolve report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return outcome, false, nil
	}

	if disableHostel {
		tag, err = tx.Exec(ctx, `
			UPDATE hostels
			SET is_active = FALSE, disabled_reason = $1, updated_at = now()
			WHERE id = $2
		`, notes, hostelID)
		if err != nil {
			return outcome, false, fmt.Errorf("disable hostel: %w", err)
		}
		outcome.HostelDisabled = tag.RowsAffected() == 1

		tag, err = tx.Exec(ctx, `
			UPDATE reports
			SET status = 'resolved', admin_notes = $1, handled_by = $2, resolved_at = now(), updated_at = now()
			WHERE hostel_id = $3 AND id <> $4 AND status IN ('pending', 'reviewed')
		`, notes, adminID, hostelID, id)
		if err != nil {
			return outcome, false, fmt.Errorf("resolve sibling reports: %w", err)
		}
		outcome.CascadedReports = tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return outcome, false, fmt.Errorf("commit transaction: %w", err)
	}

	return outcome, true, nil
}

// CountOpen counts reports that still need an admin
func (r *ReportRepository) CountOpen(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reports WHERE status IN ('pending', 'reviewed')`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count open reports: %w", err)
	}
	return n, nil
}
