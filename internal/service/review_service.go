package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hostelhub/hostel-api/internal/apperror"
	"github.com/hostelhub/hostel-api/internal/model"
	"github.com/hostelhub/hostel-api/internal/projection"
	"github.com/hostelhub/hostel-api/internal/repository"
	"github.com/hostelhub/hostel-api/internal/validation"
	"go.uber.org/zap"
)

const alreadyReviewed = "you have already reviewed this hostel"

type ReviewService struct {
	reviews  ReviewStore
	hostels  HostelStore
	notifier Notifier
	validate *validation.Validator
	logger   *zap.Logger
}

func NewReviewService(
	reviews ReviewStore,
	hostels HostelStore,
	notifier Notifier,
	validate *validation.Validator,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		hostels:  hostels,
		notifier: notifier,
		validate: validate,
		logger:   logger,
	}
}

type ReviewInput struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// SubmitReview adds the student's single review of a hostel
func (s *ReviewService) SubmitReview(ctx context.Context, student model.Actor, hostelID int64, in ReviewInput) (*model.Review, error) {
	if err := requireRole(student, model.RoleStudent); err != nil {
		return nil, err
	}

	if err := validate(s.validate, in); err != nil {
		return nil, err
	}

	hostel, err := s.hostels.GetByID(ctx, hostelID)
	if err != nil {
		return nil, fmt.Errorf("get hostel: %w", err)
	}

	if hostel == nil || !hostel.IsPublic() {
		return nil, apperror.NotFound("hostel")
	}

	existing, err := s.reviews.GetByStudentAndHostel(ctx, student.UserID, hostelID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}

	if existing != nil {
		return nil, apperror.Conflict(alreadyReviewed)
	}

	review := &model.Review{
		HostelID:  hostelID,
		StudentID: student.UserID,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return nil, apperror.Conflict(alreadyReviewed)
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.logger.Info("Review submitted",
		zap.Int64("review_id", review.ID),
		zap.Int64("hostel_id", hostelID),
		zap.Int64("student_id", student.UserID),
		zap.Int("rating", review.Rating),
	)

	if _, err := s.recompute(ctx, hostelID); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, hostel.LandlordID, model.NotifNewReview,
		fmt.Sprintf("%s received a %d-star review", hostel.Name, review.Rating), review.Comment)

	return review, nil
}

// ownReview loads a review of hostelID written by the student
func (s *ReviewService) ownReview(ctx context.Context, student model.Actor, hostelID, reviewID int64) (*model.Review, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}

	if review == nil || review.HostelID != hostelID {
		return nil, apperror.NotFound("review")
	}

	if !student.Owns(review.StudentID) {
		return nil, apperror.Forbidden()
	}

	return review, nil
}

func (s *ReviewService) UpdateReview(ctx context.Context, student model.Actor, hostelID, reviewID int64, in ReviewInput) (*model.Review, error) {
	if err := requireRole(student, model.RoleStudent); err != nil {
		return nil, err
	}

	if err := validate(s.validate, in); err != nil {
		return nil, err
	}

	review, err := s.ownReview(ctx, student, hostelID, reviewID)
	if err != nil {
		return nil, err
	}

	review.Rating = in.Rating
	review.Comment = strings.TrimSpace(in.Comment)

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	s.logger.Info("Review updated",
		zap.Int64("review_id", reviewID),
		zap.Int("rating", review.Rating),
	)

	if _, err := s.recompute(ctx, hostelID); err != nil {
		return nil, err
	}

	return review, nil
}

// DeleteReview removes a review. Students remove their own; admins may
// remove any.
func (s *ReviewService) DeleteReview(ctx context.Context, actor model.Actor, hostelID, reviewID int64) error {
	if actor.Is(model.RoleAdmin) {
		review, err := s.reviews.GetByID(ctx, reviewID)
		if err != nil {
			return fmt.Errorf("get review: %w", err)
		}
		if review == nil || review.HostelID != hostelID {
			return apperror.NotFound("review")
		}
	} else {
		if err := requireRole(actor, model.RoleStudent); err != nil {
			return err
		}
		if _, err := s.ownReview(ctx, actor, hostelID, reviewID); err != nil {
			return err
		}
	}

	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	s.logger.Info("Review deleted",
		zap.Int64("review_id", reviewID),
		zap.Int64("actor_id", actor.UserID),
	)

	_, err := s.recompute(ctx, hostelID)
	return err
}

// ListReviews is public for listed hostels
func (s *ReviewService) ListReviews(ctx context.Context, hostelID int64) ([]*model.Review, error) {
	reviews, err := s.reviews.ListByHostel(ctx, hostelID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	if reviews == nil {
		reviews = []*model.Review{}
	}
	return reviews, nil
}

// HasReviewed reports whether the student already reviewed the hostel
func (s *ReviewService) HasReviewed(ctx context.Context, student model.Actor, hostelID int64) (bool, error) {
	review, err := s.reviews.GetByStudentAndHostel(ctx, student.UserID, hostelID)
	if err != nil {
		return false, fmt.Errorf("check existing review: %w", err)
	}
	return review != nil, nil
}

// recompute rebuilds the hostel's rating aggregate from every review. It is
// idempotent, so a concurrent mutation converges on the next call.
func (s *ReviewService) recompute(ctx context.Context, hostelID int64) (projection.RatingSummary, error) {
	ratings, err := s.reviews.Ratings(ctx, hostelID)
	if err != nil {
		return projection.RatingSummary{}, fmt.Errorf("list ratings: %w", err)
	}

	summary := projection.Rating(ratings)

	if err := s.hostels.UpdateRating(ctx, hostelID, summary.AverageRating, summary.TotalReviews); err != nil {
		return projection.RatingSummary{}, fmt.Errorf("update hostel rating: %w", err)
	}

	return summary, nil
}
