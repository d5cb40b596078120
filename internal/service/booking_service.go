package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hostelhub/hostel-api/internal/apperror"
	"github.com/hostelhub/hostel-api/internal/model"
	"github.com/hostelhub/hostel-api/internal/validation"
	"go.uber.org/zap"
)

type BookingService struct {
	bookings  BookingStore
	rooms     RoomStore
	hostels   HostelStore
	landlords LandlordStore
	notifier  Notifier
	validate  *validation.Validator
	logger    *zap.Logger
	now       func() time.Time
}

func NewBookingService(
	bookings BookingStore,
	rooms RoomStore,
	hostels HostelStore,
	landlords LandlordStore,
	notifier Notifier,
	validate *validation.Validator,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		rooms:     rooms,
		hostels:   hostels,
		landlords: landlords,
		notifier:  notifier,
		validate:  validate,
		logger:    logger,
		now:       time.Now,
	}
}

// BookingInput is a student's stay request. Dates are taken as UTC calendar
// dates.
type BookingInput struct {
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}

// BookingDecisionInput is the landlord's answer to a request
type BookingDecisionInput struct {
	Action model.BookingAction `json:"action" validate:"required,oneof=approve reject"`
	Reason string              `json:"reason" validate:"max=1000"`
}

type CancelInput struct {
	Reason string `json:"reason" validate:"max=1000"`
}

func (s *BookingService) checkDates(in BookingInput) error {
	f := fieldErrors{}
	if err := f.check(s.validate, in); err != nil {
		return err
	}
	if len(f) > 0 {
		return f.err()
	}

	tomorrow := model.UTCDate(s.now()).AddDate(0, 0, 1)
	if model.UTCDate(in.StartDate).Before(tomorrow) {
		f.add("start_date", "must be tomorrow or later")
	}
	if model.DaysBetween(in.StartDate, in.EndDate) < 1 {
		f.add("end_date", "must be after start_date")
	}

	return f.err()
}

// CreateBooking requests a room. The room stays available; the landlord
// controls availability separately, so a room can collect several pending
// requests.
func (s *BookingService) CreateBooking(ctx context.Context, student model.Actor, roomID int64, in BookingInput) (*model.Booking, error) {
	if err := requireRole(student, model.RoleStudent); err != nil {
		return nil, err
	}

	if err := s.checkDates(in); err != nil {
		return nil, err
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}

	if room == nil || !room.IsActive {
		return nil, apperror.NotFound("room")
	}

	if !room.IsAvailable {
		return nil, apperror.Conflict("room is not available")
	}

	hostel, err := s.hostels.GetByID(ctx, room.HostelID)
	if err != nil {
		return nil, fmt.Errorf("get hostel: %w", err)
	}

	if hostel == nil || !hostel.IsPublic() {
		return nil, apperror.NotFound("hostel")
	}

	booking := &model.Booking{
		RoomID:     room.ID,
		HostelID:   hostel.ID,
		StudentID:  student.UserID,
		LandlordID: hostel.LandlordID,
		StartDate:  model.UTCDate(in.StartDate),
		EndDate:    model.UTCDate(in.EndDate),
		Status:     model.BookingPending,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.logger.Info("Booking requested",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("student_id", student.UserID),
		zap.Int64("room_id", room.ID),
		zap.Int64("hostel_id", hostel.ID),
	)

	s.notifier.Notify(ctx, hostel.LandlordID, model.NotifBookingRequested,
		fmt.Sprintf("New booking request for %s", hostel.Name),
		fmt.Sprintf("%s to %s", booking.StartDate.Format(time.DateOnly), booking.EndDate.Format(time.DateOnly)))

	booking.Room = room
	booking.Hostel = hostel

	return booking, nil
}

// DecideBooking approves or rejects a pending request. A landlord answers
// once: deciding an already decided booking fails.
func (s *BookingService) DecideBooking(ctx context.Context, landlord model.Actor, bookingID int64, in BookingDecisionInput) (*model.Booking, error) {
	if err := requireRole(landlord, model.RoleLandlord); err != nil {
		return nil, err
	}

	f := fieldErrors{}
	if err := f.check(s.validate, in); err != nil {
		return nil, err
	}
	if in.Action == model.BookingReject && blank(in.Reason) {
		f.add("reason", "is required")
	}
	if err := f.err(); err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}

	if booking == nil {
		return nil, apperror.NotFound("booking")
	}

	if !landlord.Owns(booking.LandlordID) {
		return nil, apperror.Forbidden()
	}

	next, ok := model.BookingTransitions.Next(booking.Status, in.Action)
	if !ok {
		return nil, apperror.InvalidTransition("booking is already %s", booking.Status)
	}

	reason := ""
	if in.Action == model.BookingReject {
		reason = strings.TrimSpace(in.Reason)
	}

	applied, err := s.bookings.Transition(ctx, bookingID, []model.BookingStatus{booking.Status}, next, reason)
	if err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	if !applied {
		return nil, apperror.InvalidTransition("booking was already decided")
	}

	s.logger.Info("Booking decided",
		zap.Int64("booking_id", bookingID),
		zap.Int64("landlord_id", landlord.UserID),
		zap.String("status", string(next)),
	)

	now := s.now()
	booking.Status = next
	booking.DecisionReason = reason
	booking.DecidedAt = &now

	if next == model.BookingApproved {
		s.notifier.Notify(ctx, booking.StudentID, model.NotifBookingApproved,
			"Your booking was approved", "The landlord's contact details are now available")
	} else {
		s.notifier.Notify(ctx, booking.StudentID, model.NotifBookingRejected,
			"Your booking was rejected", reason)
	}

	return booking, nil
}

// CancelBooking withdraws the student's own request, pending or approved
func (s *BookingService) CancelBooking(ctx context.Context, student model.Actor, bookingID int64, in CancelInput) (*model.Booking, error) {
	if err := requireRole(student, model.RoleStudent); err != nil {
		return nil, err
	}

	if err := validate(s.validate, in); err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}

	if booking == nil {
		return nil, apperror.NotFound("booking")
	}

	if !student.Owns(booking.StudentID) {
		return nil, apperror.Forbidden()
	}

	next, ok := model.BookingTransitions.Next(booking.Status, model.BookingCancel)
	if !ok {
		return nil, apperror.InvalidTransition("booking is already %s", booking.Status)
	}

	reason := strings.TrimSpace(in.Reason)

	// A concurrent approval still leaves the booking cancellable.
	from := model.BookingTransitions.Sources(model.BookingCancel)
	applied, err := s.bookings.Transition(ctx, bookingID, from, next, reason)
	if err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	if !applied {
		return nil, apperror.InvalidTransition("booking can no longer be cancelled")
	}

	s.logger.Info("Booking cancelled",
		zap.Int64("booking_id", bookingID),
		zap.Int64("student_id", student.UserID),
	)

	now := s.now()
	booking.Status = next
	booking.CancellationReason = reason
	booking.CancelledAt = &now

	s.notifier.Notify(ctx, booking.LandlordID, model.NotifBookingCancelled,
		"A booking was cancelled by the student", reason)

	return booking, nil
}

// GetBooking is visible to its student, its landlord and admins
func (s *BookingService) GetBooking(ctx context.Context, actor model.Actor, bookingID int64) (*model.Booking, error) {
	if err := requireActive(actor); err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}

	if booking == nil {
		return nil, apperror.NotFound("booking")
	}

	if !actor.Owns(booking.StudentID) && !actor.Owns(booking.LandlordID) && actor.Role != model.RoleAdmin {
		return nil, apperror.Forbidden()
	}

	if err := s.populate(ctx, []*model.Booking{booking}, actor.Owns(booking.StudentID)); err != nil {
		return nil, err
	}

	return booking, nil
}

// ListStudentBookings returns the student's bookings with room, hostel and,
// for approved ones, the landlord contact
func (s *BookingService) ListStudentBookings(ctx context.Context, student model.Actor) ([]*model.Booking, error) {
	if err := requireRole(student, model.RoleStudent); err != nil {
		return nil, err
	}

	bookings, err := s.bookings.ListByStudent(ctx, student.UserID)
	if err != nil {
		return nil, fmt.Errorf("get bookings by student: %w", err)
	}

	if err := s.populate(ctx, bookings, true); err != nil {
		return nil, err
	}

	return bookings, nil
}

// ListLandlordBookings returns requests on the landlord's hostels. An empty
// status returns all of them.
func (s *BookingService) ListLandlordBookings(ctx context.Context, landlord model.Actor, status model.BookingStatus) ([]*model.Booking, error) {
	if err := requireRole(landlord, model.RoleLandlord); err != nil {
		return nil, err
	}

	if status != "" && !status.Valid() {
		return nil, apperror.Field("status", "is invalid")
	}

	bookings, err := s.bookings.ListByLandlord(ctx, landlord.UserID, status)
	if err != nil {
		return nil, fmt.Errorf("get bookings by landlord: %w", err)
	}

	if err := s.populate(ctx, bookings, false); err != nil {
		return nil, err
	}

	return bookings, nil
}

// ContactVisible reports whether the student may see the hostel's landlord
// contact: only with an approved booking on one of its rooms.
func (s *BookingService) ContactVisible(ctx context.Context, student model.Actor, hostelID int64) (bool, error) {
	if !student.Is(model.RoleStudent) {
		return false, nil
	}

	ok, err := s.bookings.HasApproved(ctx, student.UserID, hostelID)
	if err != nil {
		return false, fmt.Errorf("check approved booking: %w", err)
	}

	return ok, nil
}

// populate attaches rooms and hostels. withContact adds the landlord contact
// to approved bookings; it is set only when the caller is the student.
func (s *BookingService) populate(ctx context.Context, bookings []*model.Booking, withContact bool) error {
	if len(bookings) == 0 {
		return nil
	}

	seen := make(map[int64]bool)
	var hostelIDs []int64
	for _, b := range bookings {
		if !seen[b.HostelID] {
			seen[b.HostelID] = true
			hostelIDs = append(hostelIDs, b.HostelID)
		}
	}

	hostels, err := s.hostels.GetByIDs(ctx, hostelIDs)
	if err != nil {
		return fmt.Errorf("get hostels: %w", err)
	}
	hostelByID := make(map[int64]*model.Hostel, len(hostels))
	for _, h := range hostels {
		hostelByID[h.ID] = h
	}

	rooms, err := s.rooms.ListByHostels(ctx, hostelIDs)
	if err != nil {
		return fmt.Errorf("list rooms: %w", err)
	}
	roomByID := make(map[int64]*model.Room, len(rooms))
	for _, r := range rooms {
		roomByID[r.ID] = r
	}

	contacts := make(map[int64]*model.LandlordContact)
	for _, b := range bookings {
		b.Hostel = hostelByID[b.HostelID]
		b.Room = roomByID[b.RoomID]

		if !withContact || b.Status != model.BookingApproved {
			continue
		}

		contact, ok := contacts[b.LandlordID]
		if !ok {
			profile, err := s.landlords.GetByUserID(ctx, b.LandlordID)
			if err != nil {
				return fmt.Errorf("get landlord profile: %w", err)
			}
			if profile != nil {
				c := profile.Contact()
				contact = &c
			}
			contacts[b.LandlordID] = contact
		}
		b.Contact = contact
	}

	return nil
}
