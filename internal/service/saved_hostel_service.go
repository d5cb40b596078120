package service

import (
	"context"
	"fmt"

	"github.com/hostelhub/hostel-api/internal/apperror"
	"github.com/hostelhub/hostel-api/internal/model"
	"go.uber.org/zap"
)

type SavedHostelService struct {
	saved   SavedHostelStore
	hostels HostelStore
	logger  *zap.Logger
}

func NewSavedHostelService(saved SavedHostelStore, hostels HostelStore, logger *zap.Logger) *SavedHostelService {
	return &SavedHostelService{
		saved:   saved,
		hostels: hostels,
		logger:  logger,
	}
}

// Save bookmarks a listed hostel. Saving one that is already saved is a
// no-op, even if the hostel has since been disabled.
func (s *SavedHostelService) Save(ctx context.Context, student model.Actor, hostelID int64) error {
	if err := requireRole(student, model.RoleStudent); err != nil {
		return err
	}

	exists, err := s.saved.Exists(ctx, student.UserID, hostelID)
	if err != nil {
		return fmt.Errorf("check saved hostel: %w", err)
	}

	if exists {
		return nil
	}

	hostel, err := s.hostels.GetByID(ctx, hostelID)
	if err != nil {
		return fmt.Errorf("get hostel: %w", err)
	}

	if hostel == nil || !hostel.IsPublic() {
		return apperror.NotFound("hostel")
	}

	created, err := s.saved.Add(ctx, student.UserID, hostelID)
	if err != nil {
		return fmt.Errorf("save hostel: %w", err)
	}

	if created {
		s.logger.Info("Hostel saved",
			zap.Int64("student_id", student.UserID),
			zap.Int64("hostel_id", hostelID),
		)
	}

	return nil
}

// Remove drops a bookmark; removing one that does not exist is a no-op
func (s *SavedHostelService) Remove(ctx context.Context, student model.Actor, hostelID int64) error {
	if err := requireRole(student, model.RoleStudent); err != nil {
		return err
	}

	if err := s.saved.Remove(ctx, student.UserID, hostelID); err != nil {
		return fmt.Errorf("remove saved hostel: %w", err)
	}

	return nil
}

// List returns the student's bookmarks. Hostels that are no longer listed
// stay in the list with Available false.
func (s *SavedHostelService) List(ctx context.Context, student model.Actor) ([]*model.SavedHostel, error) {
	if err := requireRole(student, model.RoleStudent); err != nil {
		return nil, err
	}

	saved, err := s.saved.ListByStudent(ctx, student.UserID)
	if err != nil {
		return nil, fmt.Errorf("list saved hostels: %w", err)
	}

	if len(saved) == 0 {
		return []*model.SavedHostel{}, nil
	}

	ids := make([]int64, 0, len(saved))
	for _, sh := range saved {
		ids = append(ids, sh.HostelID)
	}

	hostels, err := s.hostels.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get hostels: %w", err)
	}

	byID := make(map[int64]*model.Hostel, len(hostels))
	for _, h := range hostels {
		byID[h.ID] = h
	}

	for _, sh := range saved {
		sh.Hostel = byID[sh.HostelID]
		sh.Available = sh.Hostel != nil && sh.Hostel.IsPublic()
	}

	return saved, nil
}
