package service

import (
	"context"

	"github.com/hostelhub/hostel-api/internal/model"
)

// Store interfaces are the slices of the repositories each service needs.
// The pgx repositories in internal/repository satisfy them.

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	UpdateStatus(ctx context.Context, id int64, from, to model.UserStatus, reason string) (bool, error)
	CountByRoleAndStatus(ctx context.Context) ([]model.UserCount, error)
}

type LandlordStore interface {
	GetByUserID(ctx context.Context, userID int64) (*model.LandlordProfile, error)
	ListByStatus(ctx context.Context, status model.LandlordVerification) ([]*model.LandlordProfile, error)
	UpdateVerification(ctx context.Context, userID int64, from, to model.LandlordVerification, reason string, verifiedBy int64) (bool, error)
	CountByStatus(ctx context.Context) (map[model.LandlordVerification]int, error)
}

type HostelStore interface {
	Create(ctx context.Context, h *model.Hostel) error
	GetByID(ctx context.Context, id int64) (*model.Hostel, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*model.Hostel, error)
	ListByLandlord(ctx context.Context, landlordID int64) ([]*model.Hostel, error)
	ListByVerification(ctx context.Context, status model.HostelVerification) ([]*model.Hostel, error)
	ListPublic(ctx context.Context, f model.HostelFilter) ([]*model.Hostel, error)
	Update(ctx context.Context, h *model.Hostel) error
	UpdateVerification(ctx context.Context, id int64, from, to model.HostelVerification, reason string) (bool, error)
	SetActive(ctx context.Context, id int64, active bool, reason string) error
	UpdateRating(ctx context.Context, id int64, average float64, total int) error
	HasHistory(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
	Counts(ctx context.Context) (model.HostelCounts, error)
}

type RoomStore interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id int64) (*model.Room, error)
	ListByHostel(ctx context.Context, hostelID int64) ([]*model.Room, error)
	ListByHostels(ctx context.Context, hostelIDs []int64) ([]*model.Room, error)
	Update(ctx context.Context, room *model.Room) error
	SetAvailability(ctx context.Context, id int64, available bool) error
	Deactivate(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*model.Booking, error)
	ListByLandlord(ctx context.Context, landlordID int64, status model.BookingStatus) ([]*model.Booking, error)
	Transition(ctx context.Context, id int64, from []model.BookingStatus, to model.BookingStatus, reason string) (bool, error)
	HasApproved(ctx context.Context, studentID, hostelID int64) (bool, error)
	HistoryForRoom(ctx context.Context, roomID int64) (model.RoomBookingHistory, error)
	CountByStatus(ctx context.Context) (map[model.BookingStatus]int, error)
}

type ReviewStore interface {
	Create(ctx context.Context, rv *model.Review) error
	GetByID(ctx context.Context, id int64) (*model.Review, error)
	GetByStudentAndHostel(ctx context.Context, studentID, hostelID int64) (*model.Review, error)
	ListByHostel(ctx context.Context, hostelID int64) ([]*model.Review, error)
	Ratings(ctx context.Context, hostelID int64) ([]int, error)
	Update(ctx context.Context, rv *model.Review) error
	Delete(ctx context.Context, id int64) error
}

type ReportStore interface {
	Create(ctx context.Context, rp *model.Report) error
	GetByID(ctx context.Context, id int64) (*model.Report, error)
	List(ctx context.Context, status model.ReportStatus) ([]*model.Report, error)
	MarkReviewed(ctx context.Context, id, adminID int64, notes string) (bool, error)
	Resolve(ctx context.Context, id, hostelID, adminID int64, notes string, disableHostel bool) (model.ResolveOutcome, bool, error)
	CountOpen(ctx context.Context) (int, error)
}

type SavedHostelStore interface {
	Add(ctx context.Context, studentID, hostelID int64) (bool, error)
	Remove(ctx context.Context, studentID, hostelID int64) error
	Exists(ctx context.Context, studentID, hostelID int64) (bool, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*model.SavedHostel, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]*model.Notification, error)
	MarkRead(ctx context.Context, userID, id int64) (bool, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	CountUnread(ctx context.Context, userID int64) (int, error)
}

// Notifier records a read/ack notification for a user. Delivery failures are
// the notifier's problem; callers never see them.
type Notifier interface {
	Notify(ctx context.Context, userID int64, typ model.NotificationType, title, message string)
}

// SessionEvicter drops every cached session of a user.
type SessionEvicter interface {
	EvictUser(ctx context.Context, userID int64) error
}
