package service

import (
	"context"
	"testing"

	"github.com/hostelhub/hostel-api/internal/apperror"
	"github.com/hostelhub/hostel-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) storedHostel(t *testing.T, id int64) *model.Hostel {
	t.Helper()
	h, err := f.db.Hostels().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, h)
	return h
}

func TestSubmitReview_RecomputesRating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	landlord, h, _ := f.seedListing()

	_, err := f.reviews.SubmitReview(ctx, f.student(), h.ID, ReviewInput{Rating: 5, Comment: " Great "})
	require.NoError(t, err)
	_, err = f.reviews.SubmitReview(ctx, f.student(), h.ID, ReviewInput{Rating: 4})
	require.NoError(t, err)
	_, err = f.reviews.SubmitReview(ctx, f.student(), h.ID, ReviewInput{Rating: 4})
	require.NoError(t, err)

	stored := f.storedHostel(t, h.ID)
	assert.InDelta(t, 13.0/3, stored.AverageRating, 1e-9)
	assert.Equal(t, 3, stored.TotalReviews)
	assert.Contains(t, f.db.NotificationsFor(landlord.UserID), model.NotifNewReview)
}

func TestSubmitReview_OnePerStudentAndHostel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, h, _ := f.seedListing()
	student := f.student()

	_, err := f.reviews.SubmitReview(ctx, student, h.ID, ReviewInput{Rating: 3})
	require.NoError(t, err)

	_, err = f.reviews.SubmitReview(ctx, student, h.ID, ReviewInput{Rating: 5})
	require.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, alreadyReviewed, err.Error())

	reviewed, err := f.reviews.HasReviewed(ctx, student, h.ID)
	require.NoError(t, err)
	assert.True(t, reviewed)
	assert.Equal(t, 1, f.storedHostel(t, h.ID).TotalReviews)
}

func TestSubmitReview_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	landlord, h, _ := f.seedListing()

	for _, rating := range []int{0, 6, -1} {
		_, err := f.reviews.SubmitReview(ctx, f.student(), h.ID, ReviewInput{Rating: rating})
		require.ErrorIs(t, err, apperror.ErrValidation, "rating %d", rating)
		assert.Contains(t, apperror.FieldsOf(err), "rating")
	}

	_, err := f.reviews.SubmitReview(ctx, landlord, h.ID, ReviewInput{Rating: 5})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	hidden := f.hostel(landlord.UserID, model.HostelPending, true)
	_, err = f.reviews.SubmitReview(ctx, f.student(), hidden.ID, ReviewInput{Rating: 5})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateReview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, h, _ := f.seedListing()
	student := f.student()

	review, err := f.reviews.SubmitReview(ctx, student, h.ID, ReviewInput{Rating: 2})
	require.NoError(t, err)

	_, err = f.reviews.UpdateReview(ctx, f.student(), h.ID, review.ID, ReviewInput{Rating: 1})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.reviews.UpdateReview(ctx, student, h.ID+1000, review.ID, ReviewInput{Rating: 1})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	updated, err := f.reviews.UpdateReview(ctx, student, h.ID, review.ID, ReviewInput{Rating: 5, Comment: "Fixed the water"})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, 5.0, f.storedHostel(t, h.ID).AverageRating)
}

func TestDeleteReview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, h, _ := f.seedListing()
	student := f.student()

	own, err := f.reviews.SubmitReview(ctx, student, h.ID, ReviewInput{Rating: 4})
	require.NoError(t, err)
	other, err := f.reviews.SubmitReview(ctx, f.student(), h.ID, ReviewInput{Rating: 2})
	require.NoError(t, err)

	err = f.reviews.DeleteReview(ctx, student, h.ID, other.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, f.reviews.DeleteReview(ctx, student, h.ID, own.ID))
	assert.Equal(t, 2.0, f.storedHostel(t, h.ID).AverageRating)

	require.NoError(t, f.reviews.DeleteReview(ctx, f.admin(), h.ID, other.ID))
	stored := f.storedHostel(t, h.ID)
	assert.Zero(t, stored.AverageRating)
	assert.Zero(t, stored.TotalReviews)

	reviews, err := f.reviews.ListReviews(ctx, h.ID)
	require.NoError(t, err)
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)
}
