package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/hostelhub/hostel-api/internal/apperror"
	"github.com/hostelhub/hostel-api/internal/model"
	"github.com/hostelhub/hostel-api/internal/validation"
	"go.uber.org/zap"
)

// ModerationService handles fraud and safety reports against hostels
type ModerationService struct {
	reports  ReportStore
	hostels  HostelStore
	notifier Notifier
	validate *validation.Validator
	logger   *zap.Logger
}

func NewModerationService(
	reports ReportStore,
	hostels HostelStore,
	notifier Notifier,
	validate *validation.Validator,
	logger *zap.Logger,
) *ModerationService {
	return &ModerationService{
		reports:  reports,
		hostels:  hostels,
		notifier: notifier,
		validate: validate,
		logger:   logger,
	}
}

type ReportInput struct {
	Reason      model.ReportReason `json:"reason" validate:"required,reportreason"`
	Description string             `json:"description" validate:"notblank,min=10,max=2000"`
}

// ReportUpdateInput is the admin's moderation step. DisableListing only
// applies when resolving.
type ReportUpdateInput struct {
	Status         model.ReportStatus `json:"status" validate:"required,oneof=reviewed resolved"`
	AdminNotes     string             `json:"admin_notes" validate:"max=2000"`
	DisableListing bool               `json:"disable_listing"`
}

// ReportResult is the report after a moderation step plus any cascade
type ReportResult struct {
	Report  *model.Report         `json:"report"`
	Outcome *model.ResolveOutcome `json:"outcome,omitempty"`
}

// FileReport lets any active user report a hostel
func (s *ModerationService) FileReport(ctx context.Context, actor model.Actor, hostelID int64, in ReportInput) (*model.Report, error) {
	if err := requireActive(actor); err != nil {
		return nil, err
	}

	if err := validate(s.validate, in); err != nil {
		return nil, err
	}

	hostel, err := s.hostels.GetByID(ctx, hostelID)
	if err != nil {
		return nil, fmt.Errorf("get hostel: %w", err)
	}

	if hostel == nil {
		return nil, apperror.NotFound("hostel")
	}

	report := &model.Report{
		HostelID:    hostelID,
		ReporterID:  actor.UserID,
		Reason:      in.Reason,
		Description: strings.TrimSpace(in.Description),
		Status:      model.ReportPending,
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	s.logger.Info("Report filed",
		zap.Int64("report_id", report.ID),
		zap.Int64("hostel_id", hostelID),
		zap.Int64("reporter_id", actor.UserID),
		zap.String("reason", string(report.Reason)),
	)

	return report, nil
}

// UpdateReport dispatches an admin status change to review or resolve
func (s *ModerationService) UpdateReport(ctx context.Context, admin model.Actor, reportID int64, in ReportUpdateInput) (*ReportResult, error) {
	if err := requireRole(admin, model.RoleAdmin); err != nil {
		return nil, err
	}

	if err := validate(s.validate, in); err != nil {
		return nil, err
	}

	if in.Status == model.ReportReviewed {
		report, err := s.ReviewReport(ctx, admin, reportID, in.AdminNotes)
		if err != nil {
			return nil, err
		}
		return &ReportResult{Report: report}, nil
	}

	return s.ResolveReport(ctx, admin, reportID, in.AdminNotes, in.DisableListing)
}

func (s *ModerationService) loadReport(ctx context.Context, reportID int64, action model.ReportAction) (*model.Report, model.ReportStatus, error) {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, "", fmt.Errorf("get report: %w", err)
	}

	if report == nil {
		return nil, "", apperror.NotFound("report")
	}

	next, ok := model.ReportTransitions.Next(report.Status, action)
	if !ok {
		return nil, "", apperror.InvalidTransition("report is already %s", report.Status)
	}

	return report, next, nil
}

// ReviewReport marks a pending report as looked at. Nothing else changes.
func (s *ModerationService) ReviewReport(ctx context.Context, admin model.Actor, reportID int64, notes string) (*model.Report, error) {
	if err := requireRole(admin, model.RoleAdmin); err != nil {
		return nil, err
	}

	report, next, err := s.loadReport(ctx, reportID, model.ReportReview)
	if err != nil {
		return nil, err
	}

	notes = strings.TrimSpace(notes)

	applied, err := s.reports.MarkReviewed(ctx, reportID, admin.UserID, notes)
	if err != nil {
		return nil, fmt.Errorf("mark report reviewed: %w", err)
	}

	if !applied {
		return nil, apperror.InvalidTransition("report was already handled")
	}

	s.logger.Info("Report reviewed",
		zap.Int64("report_id", reportID),
		zap.Int64("admin_id", admin.UserID),
	)

	adminID := admin.UserID
	report.Status = next
	report.AdminNotes = notes
	report.HandledBy = &adminID

	return report, nil
}

// ResolveReport closes a report. With disableListing the hostel is disabled
// using the notes as reason, and every other open report on it is resolved
// in the same transaction.
func (s *ModerationService) ResolveReport(
	ctx context.Context,
	admin model.Actor,
	reportID int64,
	notes string,
	disableListing bool,
) (*ReportResult, error) {
	if err := requireRole(admin, model.RoleAdmin); err != nil {
		return nil, err
	}

	notes = strings.TrimSpace(notes)
	if disableListing && notes == "" {
		return nil, apperror.Field("admin_notes", "is required")
	}

	report, next, err := s.loadReport(ctx, reportID, model.ReportResolve)
	if err != nil {
		return nil, err
	}

	outcome, applied, err := s.reports.Resolve(ctx, reportID, report.HostelID, admin.UserID, notes, disableListing)
	if err != nil {
		return nil, fmt.Errorf("resolve report: %w", err)
	}

	if !applied {
		return nil, apperror.InvalidTransition("report was already resolved")
	}

	s.logger.Info("Report resolved",
		zap.Int64("report_id", reportID),
		zap.Int64("hostel_id", report.HostelID),
		zap.Int64("admin_id", admin.UserID),
		zap.Bool("hostel_disabled", outcome.HostelDisabled),
		zap.Int64("cascaded_reports", outcome.CascadedReports),
	)

	adminID := admin.UserID
	report.Status = next
	report.AdminNotes = notes
	report.HandledBy = &adminID

	if outcome.HostelDisabled {
		hostel, err := s.hostels.GetByID(ctx, report.HostelID)
		if err != nil {
			s.logger.Error("Failed to load disabled hostel", zap.Int64("hostel_id", report.HostelID), zap.Error(err))
		} else if hostel != nil {
			s.notifier.Notify(ctx, hostel.LandlordID, model.NotifHostelDisabled,
				fmt.Sprintf("%s has been disabled", hostel.Name), notes)
		}
	}

	return &ReportResult{Report: report, Outcome: &outcome}, nil
}

// ListReports returns reports in a status, or all of them when empty
func (s *ModerationService) ListReports(ctx context.Context, admin model.Actor, status model.ReportStatus) ([]*model.Report, error) {
	if err := requireRole(admin, model.RoleAdmin); err != nil {
		return nil, err
	}

	switch status {
	case "", model.ReportPending, model.ReportReviewed, model.ReportResolved:
	default:
		return nil, apperror.Field("status", "is invalid")
	}

	reports, err := s.reports.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	if reports == nil {
		reports = []*model.Report{}
	}

	return reports, nil
}
