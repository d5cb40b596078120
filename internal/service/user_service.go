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

type UserService struct {
	users    UserStore
	sessions SessionEvicter
	notifier Notifier
	validate *validation.Validator
	logger   *zap.Logger
}

func NewUserService(
	users UserStore,
	sessions SessionEvicter,
	notifier Notifier,
	validate *validation.Validator,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		users:    users,
		sessions: sessions,
		notifier: notifier,
		validate: validate,
		logger:   logger,
	}
}

// SuspendInput is the admin's suspension request
type SuspendInput struct {
	Reason string `json:"reason" validate:"notblank,max=1000"`
}

// Me returns the caller's own account
func (s *UserService) Me(ctx context.Context, actor model.Actor) (*model.User, error) {
	if actor.UserID == 0 {
		return nil, apperror.Unauthenticated("authentication required")
	}

	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if user == nil {
		return nil, apperror.NotFound("user")
	}

	return user, nil
}

// Activate moves a pending account to active
func (s *UserService) Activate(ctx context.Context, admin model.Actor, userID int64) (*model.User, error) {
	return s.transition(ctx, admin, userID, model.UserActionActivate, "")
}

// Suspend blocks every role-gated action of the user and drops their cached
// sessions. A reason is mandatory.
func (s *UserService) Suspend(ctx context.Context, admin model.Actor, userID int64, in SuspendInput) (*model.User, error) {
	if err := requireRole(admin, model.RoleAdmin); err != nil {
		return nil, err
	}

	if err := validate(s.validate, in); err != nil {
		return nil, err
	}

	if admin.Owns(userID) {
		return nil, apperror.InvalidTransition("administrators cannot suspend themselves")
	}

	user, err := s.transition(ctx, admin, userID, model.UserActionSuspend, strings.TrimSpace(in.Reason))
	if err != nil {
		return nil, err
	}

	if s.sessions != nil {
		if err := s.sessions.EvictUser(ctx, userID); err != nil {
			s.logger.Error("Failed to evict sessions of suspended user",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}
	}

	s.notifier.Notify(ctx, userID, model.NotifAccountSuspended,
		"Your account has been suspended", user.StatusReason)

	return user, nil
}

// Reactivate lifts a suspension
func (s *UserService) Reactivate(ctx context.Context, admin model.Actor, userID int64) (*model.User, error) {
	user, err := s.transition(ctx, admin, userID, model.UserActionReactivate, "")
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, userID, model.NotifAccountReinstated,
		"Your account has been reactivated", "")

	return user, nil
}

func (s *UserService) transition(
	ctx context.Context,
	admin model.Actor,
	userID int64,
	action model.UserAction,
	reason string,
) (*model.User, error) {
	if err := requireRole(admin, model.RoleAdmin); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if user == nil {
		return nil, apperror.NotFound("user")
	}

	next, ok := model.UserTransitions.Next(user.Status, action)
	if !ok {
		return nil, apperror.InvalidTransition("cannot %s a user who is %s", action, user.Status)
	}

	applied, err := s.users.UpdateStatus(ctx, userID, user.Status, next, reason)
	if err != nil {
		return nil, fmt.Errorf("update user status: %w", err)
	}

	if !applied {
		return nil, apperror.InvalidTransition("user status changed concurrently")
	}

	s.logger.Info("User status changed",
		zap.Int64("user_id", userID),
		zap.Int64("admin_id", admin.UserID),
		zap.String("from", string(user.Status)),
		zap.String("to", string(next)),
	)

	user.Status = next
	user.StatusReason = reason

	return user, nil
}
