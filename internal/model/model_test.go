package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHostel_EffectiveStatus(t *testing.T) {
	for _, vs := range []HostelVerification{HostelPending, HostelApproved, HostelRejected} {
		h := &Hostel{IsActive: false, VerificationStatus: vs}
		assert.Equal(t, EffectiveDisabled, h.EffectiveStatus(), vs)
		assert.False(t, h.IsPublic())
	}

	cases := map[HostelVerification]EffectiveStatus{
		HostelPending:  EffectivePending,
		HostelApproved: EffectiveVerified,
		HostelRejected: EffectiveRejected,
	}
	for vs, want := range cases {
		h := &Hostel{IsActive: true, VerificationStatus: vs}
		assert.Equal(t, want, h.EffectiveStatus())
		assert.Equal(t, vs == HostelApproved, h.IsPublic())
	}
}

func TestBookingTransitions(t *testing.T) {
	next, ok := BookingTransitions.Next(BookingPending, BookingApprove)
	assert.True(t, ok)
	assert.Equal(t, BookingApproved, next)

	next, ok = BookingTransitions.Next(BookingApproved, BookingCancel)
	assert.True(t, ok)
	assert.Equal(t, BookingCancelled, next)

	// A decided booking never accepts another decision.
	for _, s := range []BookingStatus{BookingApproved, BookingRejected, BookingCancelled} {
		for _, a := range []BookingAction{BookingApprove, BookingReject} {
			_, ok := BookingTransitions.Next(s, a)
			assert.False(t, ok, "%s -> %s", s, a)
		}
	}

	assert.True(t, BookingTransitions.IsTerminal(BookingRejected))
	assert.True(t, BookingTransitions.IsTerminal(BookingCancelled))
	assert.False(t, BookingTransitions.IsTerminal(BookingApproved))
	assert.ElementsMatch(t, []BookingStatus{BookingPending, BookingApproved}, BookingTransitions.Sources(BookingCancel))
}

func TestTransitions_AllowedIsCopy(t *testing.T) {
	allowed := ReportTransitions.Allowed(ReportPending)
	delete(allowed, ReportReview)

	_, ok := ReportTransitions.Next(ReportPending, ReportReview)
	assert.True(t, ok)
	assert.Empty(t, ReportTransitions.Allowed(ReportResolved))
}

func TestVerificationTransitions(t *testing.T) {
	_, ok := LandlordTransitions.Next(LandlordVerified, VerificationVerify)
	assert.False(t, ok, "re-verification must not be accepted")

	next, ok := LandlordTransitions.Next(LandlordRejected, VerificationResubmit)
	assert.True(t, ok)
	assert.Equal(t, LandlordPending, next)

	hostelNext, ok := HostelTransitions.Next(HostelPending, VerificationVerify)
	assert.True(t, ok)
	assert.Equal(t, HostelApproved, hostelNext)

	_, ok = HostelTransitions.Next(HostelApproved, VerificationReject)
	assert.False(t, ok)
}

func TestUserTransitions(t *testing.T) {
	next, ok := UserTransitions.Next(UserStatusSuspended, UserActionReactivate)
	assert.True(t, ok)
	assert.Equal(t, UserStatusActive, next)

	assert.True(t, UserTransitions.IsTerminal(UserStatusDeactivated))
}

func TestActor(t *testing.T) {
	a := Actor{UserID: 4, Role: RoleStudent, Status: UserStatusActive}
	assert.True(t, a.Is(RoleStudent))
	assert.False(t, a.Is(RoleAdmin))
	assert.True(t, a.Owns(4))

	a.Status = UserStatusSuspended
	assert.False(t, a.Is(RoleStudent))
	assert.False(t, a.CanAct())
}

func TestSameID(t *testing.T) {
	assert.True(t, SameID(3, 3))
	assert.False(t, SameID(3, 4))
	assert.False(t, SameID(0, 0))
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2027, 1, 1, 22, 0, 0, 0, time.UTC)
	end := time.Date(2027, 1, 4, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, DaysBetween(start, end))
	assert.Equal(t, -3, DaysBetween(end, start))
	assert.Equal(t, 0, DaysBetween(start, start.Add(time.Hour)))
}
