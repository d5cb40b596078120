package service

import (
	"context"
	"testing"

	"github.com/hostelhub/hostel-api/internal/apperror"
	"github.com/hostelhub/hostel-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scamReport() ReportInput {
	return ReportInput{Reason: model.ReasonScam, Description: "Asked for a deposit via a personal number"}
}

func TestFileReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, h, _ := f.seedListing()
	student := f.student()

	report, err := f.moderation.FileReport(ctx, student, h.ID, scamReport())
	require.NoError(t, err)
	assert.Equal(t, model.ReportPending, report.Status)
	assert.Equal(t, student.UserID, report.ReporterID)

	_, err = f.moderation.FileReport(ctx, student, h.ID, ReportInput{Reason: "spam", Description: "short"})
	require.ErrorIs(t, err, apperror.ErrValidation)
	fields := apperror.FieldsOf(err)
	assert.Contains(t, fields, "reason")
	assert.Contains(t, fields, "description")

	_, err = f.moderation.FileReport(ctx, f.user(model.RoleStudent, model.UserStatusSuspended), h.ID, scamReport())
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.moderation.FileReport(ctx, student, h.ID+1000, scamReport())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestResolveReport_DisableListingCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	landlord, h, _ := f.seedListing()
	admin := f.admin()

	first, err := f.moderation.FileReport(ctx, f.student(), h.ID, scamReport())
	require.NoError(t, err)
	second, err := f.moderation.FileReport(ctx, f.student(), h.ID, scamReport())
	require.NoError(t, err)
	_, err = f.moderation.ReviewReport(ctx, admin, second.ID, "checking")
	require.NoError(t, err)

	result, err := f.moderation.UpdateReport(ctx, admin, first.ID, ReportUpdateInput{
		Status:         model.ReportResolved,
		AdminNotes:     "confirmed scam",
		DisableListing: true,
	})
	require.NoError(t, err)

	assert.Equal(t, model.ReportResolved, result.Report.Status)
	require.NotNil(t, result.Outcome)
	assert.True(t, result.Outcome.HostelDisabled)
	assert.Equal(t, int64(1), result.Outcome.CascadedReports)

	stored := f.storedHostel(t, h.ID)
	assert.Equal(t, model.EffectiveDisabled, stored.EffectiveStatus())
	assert.Equal(t, "confirmed scam", stored.DisabledReason)
	assert.Contains(t, f.db.NotificationsFor(landlord.UserID), model.NotifHostelDisabled)

	open, err := f.moderation.ListReports(ctx, admin, model.ReportReviewed)
	require.NoError(t, err)
	assert.Empty(t, open)

	_, err = f.moderation.UpdateReport(ctx, admin, first.ID, ReportUpdateInput{Status: model.ReportReviewed})
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)

	_, err = f.listing.SetHostelActive(ctx, landlord, h.ID, true, "")
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition, "owner cannot undo a moderation disable")
	assert.Equal(t, "confirmed scam", f.storedHostel(t, h.ID).DisabledReason)

	public, err := f.listing.ListPublicHostels(ctx, model.HostelFilter{})
	require.NoError(t, err)
	assert.Empty(t, public)
}

func TestResolveReport_WithoutDisable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, h, _ := f.seedListing()
	admin := f.admin()

	report, err := f.moderation.FileReport(ctx, f.student(), h.ID, scamReport())
	require.NoError(t, err)

	result, err := f.moderation.ResolveReport(ctx, admin, report.ID, "", false)
	require.NoError(t, err)
	assert.False(t, result.Outcome.HostelDisabled)
	assert.True(t, f.storedHostel(t, h.ID).IsPublic())

	_, err = f.moderation.ResolveReport(ctx, admin, report.ID, "again", false)
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
}

func TestResolveReport_DisableRequiresNotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, h, _ := f.seedListing()

	report, err := f.moderation.FileReport(ctx, f.student(), h.ID, scamReport())
	require.NoError(t, err)

	_, err = f.moderation.ResolveReport(ctx, f.admin(), report.ID, "  ", true)
	require.ErrorIs(t, err, apperror.ErrValidation)
	assert.Contains(t, apperror.FieldsOf(err), "admin_notes")
}

func TestModeration_AdminOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, h, _ := f.seedListing()

	report, err := f.moderation.FileReport(ctx, f.student(), h.ID, scamReport())
	require.NoError(t, err)

	_, err = f.moderation.UpdateReport(ctx, f.student(), report.ID, ReportUpdateInput{Status: model.ReportReviewed})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.moderation.ListReports(ctx, f.student(), "")
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.moderation.ListReports(ctx, f.admin(), "archived")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}
