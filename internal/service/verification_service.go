package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hostelhub/hostel-api/internal/apperror"
	"github.com/hostelhub/hostel-api/internal/model"
	"github.com/hostelhub/hostel-api/internal/validation"
	"go.uber.org/zap"
)

// VerificationService runs the admin review of landlords and hostels
type VerificationService struct {
	landlords LandlordStore
	hostels   HostelStore
	notifier  Notifier
	validate  *validation.Validator
	logger    *zap.Logger
	now       func() time.Time
}

func NewVerificationService(
	landlords LandlordStore,
	hostels HostelStore,
	notifier Notifier,
	validate *validation.Validator,
	logger *zap.Logger,
) *VerificationService {
	return &VerificationService{
		landlords: landlords,
		hostels:   hostels,
		notifier:  notifier,
		validate:  validate,
		logger:    logger,
		now:       time.Now,
	}
}

// DecisionInput is an admin verdict. Reason is required for reject and
// ignored for verify.
type DecisionInput struct {
	Action model.VerificationAction `json:"action" validate:"required,oneof=verify reject"`
	Reason string                   `json:"reason" validate:"max=1000"`
}

func (s *VerificationService) checkDecision(in DecisionInput) (string, error) {
	f := fieldErrors{}
	if err := f.check(s.validate, in); err != nil {
		return "", err
	}
	if in.Action == model.VerificationReject && blank(in.Reason) {
		f.add("reason", "is required")
	}
	if err := f.err(); err != nil {
		return "", err
	}
	if in.Action == model.VerificationVerify {
		return "", nil
	}
	return strings.TrimSpace(in.Reason), nil
}

// DecideLandlord verifies or rejects a pending landlord
func (s *VerificationService) DecideLandlord(ctx context.Context, admin model.Actor, landlordID int64, in DecisionInput) (*model.LandlordProfile, error) {
	if err := requireRole(admin, model.RoleAdmin); err != nil {
		return nil, err
	}

	reason, err := s.checkDecision(in)
	if err != nil {
		return nil, err
	}

	profile, err := s.landlords.GetByUserID(ctx, landlordID)
	if err != nil {
		return nil, fmt.Errorf("get landlord profile: %w", err)
	}

	if profile == nil {
		return nil, apperror.NotFound("landlord")
	}

	next, ok := model.LandlordTransitions.Next(profile.VerificationStatus, in.Action)
	if !ok {
		return nil, apperror.InvalidTransition("landlord is already %s", profile.VerificationStatus)
	}

	applied, err := s.landlords.UpdateVerification(ctx, landlordID, profile.VerificationStatus, next, reason, admin.UserID)
	if err != nil {
		return nil, fmt.Errorf("update landlord verification: %w", err)
	}

	if !applied {
		return nil, apperror.InvalidTransition("landlord verification was already decided")
	}

	s.logger.Info("Landlord verification decided",
		zap.Int64("landlord_id", landlordID),
		zap.Int64("admin_id", admin.UserID),
		zap.String("status", string(next)),
	)

	profile.VerificationStatus = next
	profile.RejectionReason = reason
	if next == model.LandlordVerified {
		now := s.now()
		adminID := admin.UserID
		profile.VerifiedAt = &now
		profile.VerifiedBy = &adminID
		s.notifier.Notify(ctx, landlordID, model.NotifLandlordVerified,
			"Your landlord account has been verified", "")
	} else {
		s.notifier.Notify(ctx, landlordID, model.NotifLandlordRejected,
			"Your landlord verification was rejected", reason)
	}

	return profile, nil
}

// ResubmitLandlord puts a rejected landlord back in the review queue
func (s *VerificationService) ResubmitLandlord(ctx context.Context, landlord model.Actor) (*model.LandlordProfile, error) {
	if err := requireRole(landlord, model.RoleLandlord); err != nil {
		return nil, err
	}

	profile, err := s.landlords.GetByUserID(ctx, landlord.UserID)
	if err != nil {
		return nil, fmt.Errorf("get landlord profile: %w", err)
	}

	if profile == nil {
		return nil, apperror.NotFound("landlord")
	}

	next, ok := model.LandlordTransitions.Next(profile.VerificationStatus, model.VerificationResubmit)
	if !ok {
		return nil, apperror.InvalidTransition("only rejected landlords can resubmit, current status is %s", profile.VerificationStatus)
	}

	applied, err := s.landlords.UpdateVerification(ctx, landlord.UserID, profile.VerificationStatus, next, "", 0)
	if err != nil {
		return nil, fmt.Errorf("update landlord verification: %w", err)
	}

	if !applied {
		return nil, apperror.InvalidTransition("landlord verification changed concurrently")
	}

	s.logger.Info("Landlord resubmitted for verification", zap.Int64("landlord_id", landlord.UserID))

	profile.VerificationStatus = next
	profile.RejectionReason = ""

	return profile, nil
}

// PendingLandlords is the admin review queue
func (s *VerificationService) PendingLandlords(ctx context.Context, admin model.Actor) ([]*model.LandlordProfile, error) {
	if err := requireRole(admin, model.RoleAdmin); err != nil {
		return nil, err
	}

	profiles, err := s.landlords.ListByStatus(ctx, model.LandlordPending)
	if err != nil {
		return nil, fmt.Errorf("list pending landlords: %w", err)
	}

	return profiles, nil
}

// DecideHostel approves or rejects a pending hostel. Approval makes an active
// hostel visible to the public.
func (s *VerificationService) DecideHostel(ctx context.Context, admin model.Actor, hostelID int64, in DecisionInput) (*model.Hostel, error) {
	if err := requireRole(admin, model.RoleAdmin); err != nil {
		return nil, err
	}

	reason, err := s.checkDecision(in)
	if err != nil {
		return nil, err
	}

	hostel, err := s.hostels.GetByID(ctx, hostelID)
	if err != nil {
		return nil, fmt.Errorf("get hostel: %w", err)
	}

	if hostel == nil {
		return nil, apperror.NotFound("hostel")
	}

	next, ok := model.HostelTransitions.Next(hostel.VerificationStatus, in.Action)
	if !ok {
		return nil, apperror.InvalidTransition("hostel is already %s", hostel.VerificationStatus)
	}

	applied, err := s.hostels.UpdateVerification(ctx, hostelID, hostel.VerificationStatus, next, reason)
	if err != nil {
		return nil, fmt.Errorf("update hostel verification: %w", err)
	}

	if !applied {
		return nil, apperror.InvalidTransition("hostel verification was already decided")
	}

	s.logger.Info("Hostel verification decided",
		zap.Int64("hostel_id", hostelID),
		zap.Int64("admin_id", admin.UserID),
		zap.String("status", string(next)),
	)

	hostel.VerificationStatus = next
	hostel.RejectionReason = reason
	if next == model.HostelApproved {
		s.notifier.Notify(ctx, hostel.LandlordID, model.NotifHostelApproved,
			fmt.Sprintf("%s has been approved", hostel.Name), "")
	} else {
		s.notifier.Notify(ctx, hostel.LandlordID, model.NotifHostelRejected,
			fmt.Sprintf("%s was rejected", hostel.Name), reason)
	}

	return hostel, nil
}

// ResubmitHostel returns a rejected hostel to pending review
func (s *VerificationService) ResubmitHostel(ctx context.Context, landlord model.Actor, hostelID int64) (*model.Hostel, error) {
	if err := requireRole(landlord, model.RoleLandlord); err != nil {
		return nil, err
	}

	hostel, err := s.hostels.GetByID(ctx, hostelID)
	if err != nil {
		return nil, fmt.Errorf("get hostel: %w", err)
	}

	if hostel == nil {
		return nil, apperror.NotFound("hostel")
	}

	if !landlord.Owns(hostel.LandlordID) {
		return nil, apperror.Forbidden()
	}

	next, ok := model.HostelTransitions.Next(hostel.VerificationStatus, model.VerificationResubmit)
	if !ok {
		return nil, apperror.InvalidTransition("only rejected hostels can be resubmitted, current status is %s", hostel.VerificationStatus)
	}

	applied, err := s.hostels.UpdateVerification(ctx, hostelID, hostel.VerificationStatus, next, "")
	if err != nil {
		return nil, fmt.Errorf("update hostel verification: %w", err)
	}

	if !applied {
		return nil, apperror.InvalidTransition("hostel verification changed concurrently")
	}

	s.logger.Info("Hostel resubmitted for verification",
		zap.Int64("hostel_id", hostelID),
		zap.Int64("landlord_id", landlord.UserID),
	)

	hostel.VerificationStatus = next
	hostel.RejectionReason = ""

	return hostel, nil
}

// HostelQueue lists hostels in a verification state for admins
func (s *VerificationService) HostelQueue(ctx context.Context, admin model.Actor, status model.HostelVerification) ([]*model.Hostel, error) {
	if err := requireRole(admin, model.RoleAdmin); err != nil {
		return nil, err
	}

	switch status {
	case "":
		status = model.HostelPending
	case model.HostelPending, model.HostelApproved, model.HostelRejected:
	default:
		return nil, apperror.Field("status", "is invalid")
	}

	hostels, err := s.hostels.ListByVerification(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list hostels by verification: %w", err)
	}

	return hostels, nil
}
