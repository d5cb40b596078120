package service

import (
	"context"
	"testing"
	"time"

	"github.com/hostelhub/hostel-api/internal/model"
	"github.com/hostelhub/hostel-api/internal/service/servicetest"
	"github.com/hostelhub/hostel-api/internal/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type fakeEvicter struct {
	evicted []int64
}

func (f *fakeEvicter) EvictUser(_ context.Context, userID int64) error {
	f.evicted = append(f.evicted, userID)
	return nil
}

// fixedNow is 2025-01-01 10:00 UTC in every service test.
var fixedNow = time.Date(2025, time.January, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	db      *servicetest.DB
	evicter *fakeEvicter

	notifications *NotificationService
	users         *UserService
	verification  *VerificationService
	listing       *ListingService
	bookings      *BookingService
	reviews       *ReviewService
	moderation    *ModerationService
	saved         *SavedHostelService
	metrics       *MetricsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := servicetest.New()
	logger := zap.NewNop()
	v := validation.New()
	evicter := &fakeEvicter{}

	notifications := NewNotificationService(db.Notifications(), logger)

	f := &fixture{
		db:            db,
		evicter:       evicter,
		notifications: notifications,
		users:         NewUserService(db.Users(), evicter, notifications, v, logger),
		verification:  NewVerificationService(db.Landlords(), db.Hostels(), notifications, v, logger),
		listing:       NewListingService(db.Hostels(), db.Rooms(), db.Landlords(), db.Bookings(), notifications, v, logger),
		bookings:      NewBookingService(db.Bookings(), db.Rooms(), db.Hostels(), db.Landlords(), notifications, v, logger),
		reviews:       NewReviewService(db.Reviews(), db.Hostels(), notifications, v, logger),
		moderation:    NewModerationService(db.Reports(), db.Hostels(), notifications, v, logger),
		saved:         NewSavedHostelService(db.SavedHostels(), db.Hostels(), logger),
		metrics:       NewMetricsService(db.Users(), db.Landlords(), db.Hostels(), db.Bookings(), db.Reports(), logger),
	}
	f.verification.now = func() time.Time { return fixedNow }
	f.bookings.now = func() time.Time { return fixedNow }

	return f
}

func (f *fixture) user(role model.Role, status model.UserStatus) model.Actor {
	u := f.db.SeedUser(model.User{Email: "user@example.com", FullName: "Test User", Role: role, Status: status})
	return model.ActorFor(u)
}

func (f *fixture) student() model.Actor {
	return f.user(model.RoleStudent, model.UserStatusActive)
}

func (f *fixture) admin() model.Actor {
	return f.user(model.RoleAdmin, model.UserStatusActive)
}

func (f *fixture) landlord(status model.LandlordVerification) model.Actor {
	a := f.user(model.RoleLandlord, model.UserStatusActive)
	f.db.SeedLandlord(model.LandlordProfile{
		UserID:             a.UserID,
		BusinessName:       "Juja Homes",
		ContactPhone:       "+254700000000",
		ContactEmail:       "homes@example.com",
		VerificationStatus: status,
	})
	return a
}

func (f *fixture) hostel(landlordID int64, status model.HostelVerification, active bool) *model.Hostel {
	return f.db.SeedHostel(model.Hostel{
		LandlordID:         landlordID,
		Name:               "Sunrise Hostel",
		Type:               model.HostelMixed,
		Address:            model.Address{Street: "Gate C", City: "Juja", County: "Kiambu"},
		Description:        "Close to campus",
		Amenities:          []model.Amenity{{Name: "WiFi", Category: "internet"}},
		MinPrice:           decimal.NewFromInt(4500),
		IsActive:           active,
		VerificationStatus: status,
	})
}

func (f *fixture) room(hostelID int64, price int64, available bool) *model.Room {
	return f.db.SeedRoom(model.Room{
		HostelID:     hostelID,
		Type:         model.RoomSingle,
		MonthlyPrice: decimal.NewFromInt(price),
		IsAvailable:  available,
		IsActive:     true,
	})
}

// seedListing seeds a verified landlord with a public hostel and one room
func (f *fixture) seedListing() (model.Actor, *model.Hostel, *model.Room) {
	landlord := f.landlord(model.LandlordVerified)
	h := f.hostel(landlord.UserID, model.HostelApproved, true)
	r := f.room(h.ID, 4500, true)
	return landlord, h, r
}

func (f *fixture) stay() BookingInput {
	return BookingInput{
		StartDate: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
	}
}
