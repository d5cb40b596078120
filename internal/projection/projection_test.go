package projection

import (
	"testing"
	"time"

	"github.com/hostelhub/hostel-api/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEstimate_Scenario(t *testing.T) {
	got := Estimate(decimal.NewFromInt(4500), day(2027, 1, 1), day(2027, 1, 4))
	assert.True(t, got.Equal(decimal.NewFromInt(450)), "got %s", got)
}

func TestEstimate_MinimumOneDay(t *testing.T) {
	price := decimal.NewFromInt(1000)
	start := day(2027, 3, 10)

	cases := []time.Time{
		start,                      // same instant
		start.Add(5 * time.Hour),   // same calendar day
		start.Add(-48 * time.Hour), // reversed range
		start.Add(24 * time.Hour),  // exactly one day
	}
	for _, end := range cases {
		got := Estimate(price, start, end)
		assert.True(t, got.Equal(DailyRate(price)), "end=%s got=%s", end, got)
	}
}

func TestEstimate_UsesUTCCalendarDates(t *testing.T) {
	nairobi := time.FixedZone("EAT", 3*60*60)
	// 23:30 local on Jan 1 is 20:30 UTC Jan 1; 01:00 local Jan 3 is 22:00 UTC Jan 2.
	start := time.Date(2027, 1, 1, 23, 30, 0, 0, nairobi)
	end := time.Date(2027, 1, 3, 1, 0, 0, 0, nairobi)

	assert.Equal(t, 1, ChargeableDays(start, end))
}

func TestEstimate_Monotonic(t *testing.T) {
	price := decimal.NewFromInt(4500)
	start := day(2027, 1, 1)
	prev := decimal.Zero
	for n := 0; n <= 400; n++ {
		got := Estimate(price, start, start.AddDate(0, 0, n))
		require.True(t, got.GreaterThanOrEqual(prev), "n=%d", n)
		prev = got
	}
}

func TestPriceRange(t *testing.T) {
	maxPrice := decimal.NewFromInt(6000)
	same := decimal.NewFromInt(4500)

	assert.Equal(t, "KSh 4,500 - 6,000", PriceRange(decimal.NewFromInt(4500), &maxPrice))
	assert.Equal(t, "KSh 4,500", PriceRange(decimal.NewFromInt(4500), nil))
	assert.Equal(t, "KSh 4,500", PriceRange(decimal.NewFromInt(4500), &same))
	assert.Equal(t, "KSh 12,000", FormatPrice(decimal.NewFromInt(12000)))
}

func TestRooms_ExcludesInactive(t *testing.T) {
	rooms := []*model.Room{
		{HostelID: 1, IsActive: true, IsAvailable: true},
		{HostelID: 1, IsActive: true, IsAvailable: true},
		{HostelID: 1, IsActive: true, IsAvailable: false},
		{HostelID: 1, IsActive: false, IsAvailable: true},
		{HostelID: 1, IsActive: false, IsAvailable: false},
	}

	st := Rooms(rooms)
	assert.Equal(t, RoomStats{TotalRooms: 3, AvailableRooms: 2, OccupiedRooms: 1}, st)
	assert.Equal(t, 33, st.OccupancyRate())
	assert.Equal(t, 0, Rooms(nil).OccupancyRate())
}

func TestRating(t *testing.T) {
	empty := Rating(nil)
	assert.Equal(t, RatingSummary{}, empty)
	assert.Equal(t, "New", empty.Label())
	assert.False(t, empty.IsRated())

	s := Rating([]int{5, 4, 4})
	assert.Equal(t, 3, s.TotalReviews)
	assert.Equal(t, 13.0/3, s.AverageRating, "stored unrounded")
	assert.Equal(t, "4.3", s.Label())
}

func TestVerificationRate(t *testing.T) {
	assert.Equal(t, 0, VerificationRate(0, 0))
	assert.Equal(t, 100, VerificationRate(7, 7))
	assert.Equal(t, 67, VerificationRate(2, 3))
	assert.Equal(t, 5, PendingVerifications(2, 3))
}

func TestBuildDashboard(t *testing.T) {
	d := BuildDashboard(Counts{
		Users: []model.UserCount{
			{Role: model.RoleStudent, Status: model.UserStatusActive, Count: 10},
			{Role: model.RoleStudent, Status: model.UserStatusSuspended, Count: 2},
			{Role: model.RoleLandlord, Status: model.UserStatusActive, Count: 4},
		},
		Landlords: map[model.LandlordVerification]int{
			model.LandlordPending:  1,
			model.LandlordVerified: 3,
		},
		Hostels: model.HostelCounts{Total: 4, Pending: 2, ActiveApproved: 1, Disabled: 1},
		Bookings: map[model.BookingStatus]int{
			model.BookingApproved: 3,
			model.BookingRejected: 1,
			model.BookingPending:  5,
		},
		OpenReports: 2,
	})

	assert.Equal(t, 16, d.TotalUsers)
	assert.Equal(t, 12, d.UsersByRole[model.RoleStudent])
	assert.Equal(t, 2, d.SuspendedUsers)
	assert.Equal(t, 4, d.TotalLandlords)
	assert.Equal(t, 25, d.VerificationRate)
	assert.Equal(t, 3, d.PendingVerifications)
	assert.Equal(t, 9, d.TotalBookings)
	assert.Equal(t, 75, d.ApprovalRate)
	assert.Equal(t, 2, d.OpenReports)
}

func TestBuildDashboard_Empty(t *testing.T) {
	d := BuildDashboard(Counts{})
	assert.Zero(t, d.VerificationRate)
	assert.Zero(t, d.ApprovalRate)
}

func TestSummarize(t *testing.T) {
	maxPrice := decimal.NewFromInt(8000)
	h := &model.Hostel{
		ID:                 9,
		MinPrice:           decimal.NewFromInt(5000),
		MaxPrice:           &maxPrice,
		IsActive:           true,
		VerificationStatus: model.HostelApproved,
		Images:             []model.Image{{URL: "a.jpg"}, {URL: "b.jpg", IsPrimary: true}},
	}
	rooms := []*model.Room{
		{HostelID: 9, IsActive: true, IsAvailable: true},
		{HostelID: 10, IsActive: true, IsAvailable: true},
	}

	out := SummarizeAll([]*model.Hostel{h}, rooms)
	require.Len(t, out, 1)
	assert.Equal(t, model.EffectiveVerified, out[0].EffectiveStatus)
	assert.Equal(t, "KSh 5,000 - 8,000", out[0].PriceRange)
	assert.Equal(t, "New", out[0].RatingLabel)
	assert.Equal(t, "b.jpg", out[0].PrimaryImage)
	assert.Equal(t, 1, out[0].TotalRooms)
}
