package service

import (
	"context"
	"testing"

	"github.com/hostelhub/hostel-api/internal/apperror"
	"github.com/hostelhub/hostel-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveHostel_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, h, _ := f.seedListing()
	student := f.student()

	require.NoError(t, f.saved.Save(ctx, student, h.ID))
	require.NoError(t, f.saved.Save(ctx, student, h.ID))

	list, err := f.saved.List(ctx, student)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, h.ID, list[0].HostelID)
	assert.True(t, list[0].Available)
	require.NotNil(t, list[0].Hostel)
	assert.Equal(t, h.Name, list[0].Hostel.Name)
}

func TestRemoveSavedHostel_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, h, _ := f.seedListing()
	student := f.student()

	require.NoError(t, f.saved.Save(ctx, student, h.ID))
	require.NoError(t, f.saved.Remove(ctx, student, h.ID))
	require.NoError(t, f.saved.Remove(ctx, student, h.ID))

	list, err := f.saved.List(ctx, student)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestSavedHostel_DisabledStaysListed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	landlord, h, _ := f.seedListing()
	student := f.student()

	require.NoError(t, f.saved.Save(ctx, student, h.ID))
	_, err := f.listing.SetHostelActive(ctx, landlord, h.ID, false, "")
	require.NoError(t, err)

	list, err := f.saved.List(ctx, student)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Available)

	require.NoError(t, f.saved.Save(ctx, student, h.ID), "already saved stays a no-op")

	err = f.saved.Save(ctx, f.student(), h.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound, "new bookmarks need a listed hostel")
}

func TestSaveHostel_StudentsOnly(t *testing.T) {
	f := newFixture(t)
	_, h, _ := f.seedListing()

	err := f.saved.Save(context.Background(), f.admin(), h.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.saved.List(context.Background(), f.landlord(model.LandlordVerified))
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}
