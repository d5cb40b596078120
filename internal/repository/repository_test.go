package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hostelhub/hostel-api/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestBookingTransition_LostRace(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock)

	mock.ExpectExec("UPDATE bookings").
		WithArgs("cancelled", "plans changed", int64(7), []string{"pending", "approved"}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := repo.Transition(context.Background(), 7,
		[]model.BookingStatus{model.BookingPending, model.BookingApproved},
		model.BookingCancelled, "plans changed")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingTransition_Applied(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock)

	mock.ExpectExec("UPDATE bookings").
		WithArgs("approved", "", int64(3), []string{"pending"}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := repo.Transition(context.Background(), 3,
		[]model.BookingStatus{model.BookingPending}, model.BookingApproved, "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingGetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock)

	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	b, err := repo.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestUserUpdateStatus(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec("UPDATE users").
		WithArgs(model.UserStatusSuspended, "spam", int64(5), model.UserStatusActive).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := repo.UpdateStatus(context.Background(), 5, model.UserStatusActive, model.UserStatusSuspended, "spam")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewCreate_Duplicate(t *testing.T) {
	mock := newMock(t)
	repo := NewReviewRepository(mock)

	mock.ExpectQuery("INSERT INTO reviews").
		WithArgs(int64(1), int64(2), 4, "nice").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &model.Review{HostelID: 1, StudentID: 2, Rating: 4, Comment: "nice"})
	assert.ErrorIs(t, err, ErrDuplicateReview)
}

func TestReviewRatings(t *testing.T) {
	mock := newMock(t)
	repo := NewReviewRepository(mock)

	mock.ExpectQuery("SELECT rating FROM reviews").
		WithArgs(int64(9)).
		WillReturnRows(pgxmock.NewRows([]string{"rating"}).AddRow(5).AddRow(3))

	ratings, err := repo.Ratings(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 3}, ratings)
}

func TestSavedHostelAdd_Idempotent(t *testing.T) {
	mock := newMock(t)
	repo := NewSavedHostelRepository(mock)

	mock.ExpectExec("INSERT INTO saved_hostels").
		WithArgs(int64(1), int64(2)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO saved_hostels").
		WithArgs(int64(1), int64(2)).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	created, err := repo.Add(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Add(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSavedHostelListByStudent(t *testing.T) {
	mock := newMock(t)
	repo := NewSavedHostelRepository(mock)
	now := time.Now()

	mock.ExpectQuery("FROM saved_hostels").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"student_id", "hostel_id", "created_at"}).
			AddRow(int64(1), int64(4), now).
			AddRow(int64(1), int64(2), now))

	saved, err := repo.ListByStudent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, int64(4), saved[0].HostelID)
}

func TestReportResolve_CascadesWhenDisabling(t *testing.T) {
	mock := newMock(t)
	repo := NewReportRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE reports").
		WithArgs("confirmed scam", int64(100), int64(11)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE hostels").
		WithArgs("confirmed scam", int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE reports").
		WithArgs("confirmed scam", int64(100), int64(3), int64(11)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mock.ExpectCommit()

	outcome, ok, err := repo.Resolve(context.Background(), 11, 3, 100, "confirmed scam", true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, outcome.HostelDisabled)
	assert.Equal(t, int64(2), outcome.CascadedReports)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportResolve_AlreadyResolved(t *testing.T) {
	mock := newMock(t)
	repo := NewReportRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE reports").
		WithArgs("dup", int64(100), int64(11)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	outcome, ok, err := repo.Resolve(context.Background(), 11, 3, 100, "dup", true)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, model.ResolveOutcome{}, outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportResolve_ExecFailure(t *testing.T) {
	mock := newMock(t)
	repo := NewReportRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE reports").
		WithArgs("x", int64(100), int64(11)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, ok, err := repo.Resolve(context.Background(), 11, 3, 100, "x", false)
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "resolve report")
}

func TestNotificationMarkAllRead(t *testing.T) {
	mock := newMock(t)
	repo := NewNotificationRepository(mock)

	mock.ExpectExec("UPDATE notifications").
		WithArgs(int64(8)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	n, err := repo.MarkAllRead(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestErrorClassifiers(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsNotFound(errors.New("boom")))
}
