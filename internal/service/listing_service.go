package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hostelhub/hostel-api/internal/apperror"
	"github.com/hostelhub/hostel-api/internal/model"
	"github.com/hostelhub/hostel-api/internal/projection"
	"github.com/hostelhub/hostel-api/internal/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ListingService owns hostels and their rooms
type ListingService struct {
	hostels   HostelStore
	rooms     RoomStore
	landlords LandlordStore
	bookings  BookingStore
	notifier  Notifier
	validate  *validation.Validator
	logger    *zap.Logger
}

func NewListingService(
	hostels HostelStore,
	rooms RoomStore,
	landlords LandlordStore,
	bookings BookingStore,
	notifier Notifier,
	validate *validation.Validator,
	logger *zap.Logger,
) *ListingService {
	return &ListingService{
		hostels:   hostels,
		rooms:     rooms,
		landlords: landlords,
		bookings:  bookings,
		notifier:  notifier,
		validate:  validate,
		logger:    logger,
	}
}

type AddressInput struct {
	Street    string   `json:"street" validate:"notblank,max=200"`
	City      string   `json:"city" validate:"notblank,max=100"`
	County    string   `json:"county" validate:"notblank,max=100"`
	Latitude  *float64 `json:"latitude" validate:"required_with=Longitude,omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required_with=Latitude,omitempty,gte=-180,lte=180"`
}

type AmenityInput struct {
	Name     string `json:"name" validate:"notblank,max=100"`
	Category string `json:"category" validate:"max=100"`
}

type ImageInput struct {
	URL       string `json:"url" validate:"required,url"`
	IsPrimary bool   `json:"is_primary"`
}

// HostelInput is the landlord's listing payload for create and update
type HostelInput struct {
	Name        string           `json:"name" validate:"notblank,max=200"`
	Type        model.HostelType `json:"type" validate:"required,oneof=male female mixed"`
	Address     AddressInput     `json:"address"`
	DistanceKm  float64          `json:"distance_km" validate:"gte=0"`
	Description string           `json:"description" validate:"notblank,max=5000"`
	Amenities   []AmenityInput   `json:"amenities" validate:"min=1,dive"`
	Images      []ImageInput     `json:"images" validate:"dive"`
	MinPrice    decimal.Decimal  `json:"min_price"`
	MaxPrice    *decimal.Decimal `json:"max_price"`
}

func (s *ListingService) checkHostel(in HostelInput) error {
	f := fieldErrors{}
	if err := f.check(s.validate, in); err != nil {
		return err
	}

	if in.MinPrice.IsNegative() {
		f.add("min_price", "must be greater than or equal to 0")
	}
	if in.MaxPrice != nil && in.MaxPrice.LessThan(in.MinPrice) {
		f.add("max_price", "must be greater than or equal to min_price")
	}

	primaries := 0
	for _, img := range in.Images {
		if img.IsPrimary {
			primaries++
		}
	}
	if primaries > 1 {
		f.add("images", "only one image can be primary")
	}

	return f.err()
}

// apply copies the payload onto h. The first image becomes primary when none
// is flagged.
func (in HostelInput) apply(h *model.Hostel) {
	h.Name = strings.TrimSpace(in.Name)
	h.Type = in.Type
	h.Address = model.Address{
		Street:    strings.TrimSpace(in.Address.Street),
		City:      strings.TrimSpace(in.Address.City),
		County:    strings.TrimSpace(in.Address.County),
		Latitude:  in.Address.Latitude,
		Longitude: in.Address.Longitude,
	}
	h.DistanceKm = in.DistanceKm
	h.Description = strings.TrimSpace(in.Description)

	h.Amenities = make([]model.Amenity, 0, len(in.Amenities))
	for _, a := range in.Amenities {
		h.Amenities = append(h.Amenities, model.Amenity{
			Name:     strings.TrimSpace(a.Name),
			Category: strings.TrimSpace(a.Category),
		})
	}

	h.Images = make([]model.Image, 0, len(in.Images))
	hasPrimary := false
	for _, img := range in.Images {
		h.Images = append(h.Images, model.Image{URL: img.URL, IsPrimary: img.IsPrimary})
		hasPrimary = hasPrimary || img.IsPrimary
	}
	if !hasPrimary && len(h.Images) > 0 {
		h.Images[0].IsPrimary = true
	}

	h.MinPrice = in.MinPrice
	h.MaxPrice = in.MaxPrice
}

// ownedHostel loads a hostel the landlord owns
func (s *ListingService) ownedHostel(ctx context.Context, landlord model.Actor, hostelID int64) (*model.Hostel, error) {
	if err := requireRole(landlord, model.RoleLandlord); err != nil {
		return nil, err
	}

	hostel, err := s.hostels.GetByID(ctx, hostelID)
	if err != nil {
		return nil, fmt.Errorf("get hostel: %w", err)
	}

	if hostel == nil {
		return nil, apperror.NotFound("hostel")
	}

	if !landlord.Owns(hostel.LandlordID) {
		return nil, apperror.Forbidden()
	}

	return hostel, nil
}

// CreateHostel submits a new listing. It always starts pending and active.
func (s *ListingService) CreateHostel(ctx context.Context, landlord model.Actor, in HostelInput) (*model.Hostel, error) {
	if err := requireRole(landlord, model.RoleLandlord); err != nil {
		return nil, err
	}

	if err := s.checkHostel(in); err != nil {
		return nil, err
	}

	profile, err := s.landlords.GetByUserID(ctx, landlord.UserID)
	if err != nil {
		return nil, fmt.Errorf("get landlord profile: %w", err)
	}

	if profile == nil {
		return nil, apperror.NotFound("landlord")
	}

	hostel := &model.Hostel{
		LandlordID:         landlord.UserID,
		IsActive:           true,
		VerificationStatus: model.HostelPending,
	}
	in.apply(hostel)

	if err := s.hostels.Create(ctx, hostel); err != nil {
		return nil, fmt.Errorf("create hostel: %w", err)
	}

	s.logger.Info("Hostel submitted",
		zap.Int64("hostel_id", hostel.ID),
		zap.Int64("landlord_id", landlord.UserID),
		zap.String("name", hostel.Name),
	)

	return hostel, nil
}

// UpdateHostel edits listing content. Verification and activity are not
// touched.
func (s *ListingService) UpdateHostel(ctx context.Context, landlord model.Actor, hostelID int64, in HostelInput) (*model.Hostel, error) {
	hostel, err := s.ownedHostel(ctx, landlord, hostelID)
	if err != nil {
		return nil, err
	}

	if err := s.checkHostel(in); err != nil {
		return nil, err
	}

	in.apply(hostel)

	if err := s.hostels.Update(ctx, hostel); err != nil {
		return nil, fmt.Errorf("update hostel: %w", err)
	}

	s.logger.Info("Hostel updated", zap.Int64("hostel_id", hostelID))

	return hostel, nil
}

// SetHostelActive enables or disables a listing. The owner may toggle freely
// unless an admin disabled the listing, which only an admin can undo. An admin
// must give a reason to disable; a non-empty disabled_reason marks an admin
// disable, so owner toggles never record one.
func (s *ListingService) SetHostelActive(ctx context.Context, actor model.Actor, hostelID int64, active bool, reason string) (*model.Hostel, error) {
	if !actor.Is(model.RoleLandlord) && !actor.Is(model.RoleAdmin) {
		return nil, apperror.Forbidden()
	}

	hostel, err := s.hostels.GetByID(ctx, hostelID)
	if err != nil {
		return nil, fmt.Errorf("get hostel: %w", err)
	}

	if hostel == nil {
		return nil, apperror.NotFound("hostel")
	}

	isAdmin := actor.Role == model.RoleAdmin
	if !isAdmin && !actor.Owns(hostel.LandlordID) {
		return nil, apperror.Forbidden()
	}

	if !isAdmin && hostel.DisabledReason != "" {
		return nil, apperror.InvalidTransition("hostel was disabled by an administrator")
	}

	reason = strings.TrimSpace(reason)
	if isAdmin && !active && reason == "" {
		return nil, apperror.Field("reason", "is required")
	}
	if active || !isAdmin {
		reason = ""
	}

	if err := s.hostels.SetActive(ctx, hostelID, active, reason); err != nil {
		return nil, fmt.Errorf("set hostel active: %w", err)
	}

	s.logger.Info("Hostel activity changed",
		zap.Int64("hostel_id", hostelID),
		zap.Int64("actor_id", actor.UserID),
		zap.Bool("active", active),
	)

	hostel.IsActive = active
	hostel.DisabledReason = reason

	if isAdmin && !active {
		s.notifier.Notify(ctx, hostel.LandlordID, model.NotifHostelDisabled,
			fmt.Sprintf("%s has been disabled", hostel.Name), reason)
	}

	return hostel, nil
}

// DeleteHostel removes a listing with no bookings or reviews; its rooms go
// with it.
func (s *ListingService) DeleteHostel(ctx context.Context, landlord model.Actor, hostelID int64) error {
	if _, err := s.ownedHostel(ctx, landlord, hostelID); err != nil {
		return err
	}

	referenced, err := s.hostels.HasHistory(ctx, hostelID)
	if err != nil {
		return fmt.Errorf("check hostel history: %w", err)
	}

	if referenced {
		return apperror.InvalidTransition("hostel has bookings or reviews and cannot be deleted; disable it instead")
	}

	if err := s.hostels.Delete(ctx, hostelID); err != nil {
		return fmt.Errorf("delete hostel: %w", err)
	}

	s.logger.Info("Hostel deleted",
		zap.Int64("hostel_id", hostelID),
		zap.Int64("landlord_id", landlord.UserID),
	)

	return nil
}

// HostelDetail is a hostel page: summary, bookable rooms and, for students
// with an approved booking, the landlord's contact.
type HostelDetail struct {
	projection.HostelSummary
	Rooms   []*model.Room          `json:"rooms"`
	Contact *model.LandlordContact `json:"landlord_contact,omitempty"`
}

func canSeeUnlisted(actor model.Actor, hostel *model.Hostel) bool {
	return actor.Is(model.RoleAdmin) || (actor.Is(model.RoleLandlord) && actor.Owns(hostel.LandlordID))
}

// GetHostel returns a public hostel to anyone. Unlisted hostels are visible
// only to their owner and admins, and look missing to everyone else.
func (s *ListingService) GetHostel(ctx context.Context, actor model.Actor, hostelID int64) (*HostelDetail, error) {
	hostel, err := s.hostels.GetByID(ctx, hostelID)
	if err != nil {
		return nil, fmt.Errorf("get hostel: %w", err)
	}

	if hostel == nil {
		return nil, apperror.NotFound("hostel")
	}

	if !hostel.IsPublic() && !canSeeUnlisted(actor, hostel) {
		return nil, apperror.NotFound("hostel")
	}

	rooms, err := s.rooms.ListByHostel(ctx, hostelID)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	detail := &HostelDetail{
		HostelSummary: projection.Summarize(hostel, rooms),
		Rooms:         make([]*model.Room, 0, len(rooms)),
	}
	for _, r := range rooms {
		if r.IsActive {
			detail.Rooms = append(detail.Rooms, r)
		}
	}

	if actor.Is(model.RoleStudent) {
		contact, err := s.contactFor(ctx, actor.UserID, hostel)
		if err != nil {
			return nil, err
		}
		detail.Contact = contact
	}

	return detail, nil
}

// contactFor returns the landlord contact when the student holds an approved
// booking on the hostel, nil otherwise
func (s *ListingService) contactFor(ctx context.Context, studentID int64, hostel *model.Hostel) (*model.LandlordContact, error) {
	visible, err := s.bookings.HasApproved(ctx, studentID, hostel.ID)
	if err != nil {
		return nil, fmt.Errorf("check approved booking: %w", err)
	}

	if !visible {
		return nil, nil
	}

	profile, err := s.landlords.GetByUserID(ctx, hostel.LandlordID)
	if err != nil {
		return nil, fmt.Errorf("get landlord profile: %w", err)
	}

	if profile == nil {
		return nil, nil
	}

	contact := profile.Contact()
	return &contact, nil
}

// ListPublicHostels returns approved, active hostels only
func (s *ListingService) ListPublicHostels(ctx context.Context, filter model.HostelFilter) ([]projection.HostelSummary, error) {
	hostels, err := s.hostels.ListPublic(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list public hostels: %w", err)
	}

	return s.summarize(ctx, hostels)
}

func (s *ListingService) summarize(ctx context.Context, hostels []*model.Hostel) ([]projection.HostelSummary, error) {
	ids := make([]int64, 0, len(hostels))
	for _, h := range hostels {
		ids = append(ids, h.ID)
	}

	rooms, err := s.rooms.ListByHostels(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	return projection.SummarizeAll(hostels, rooms), nil
}

// LandlordDashboard is every hostel of a landlord with its room aggregates
type LandlordDashboard struct {
	Hostels []projection.HostelSummary `json:"hostels"`
	Totals  projection.RoomStats       `json:"totals"`
	// OccupancyRate is across all of the landlord's active rooms.
	OccupancyRate int `json:"occupancy_rate"`
}

func (s *ListingService) LandlordDashboard(ctx context.Context, landlord model.Actor) (*LandlordDashboard, error) {
	if err := requireRole(landlord, model.RoleLandlord); err != nil {
		return nil, err
	}

	hostels, err := s.hostels.ListByLandlord(ctx, landlord.UserID)
	if err != nil {
		return nil, fmt.Errorf("list landlord hostels: %w", err)
	}

	summaries, err := s.summarize(ctx, hostels)
	if err != nil {
		return nil, err
	}

	d := &LandlordDashboard{Hostels: summaries}
	for _, sm := range summaries {
		d.Totals.TotalRooms += sm.TotalRooms
		d.Totals.AvailableRooms += sm.AvailableRooms
		d.Totals.OccupiedRooms += sm.OccupiedRooms
	}
	d.OccupancyRate = d.Totals.OccupancyRate()

	return d, nil
}

// RoomInput is the landlord's room payload
type RoomInput struct {
	Label        string          `json:"label" validate:"max=50"`
	Type         model.RoomType  `json:"type" validate:"required,roomtype"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
	IsAvailable  *bool           `json:"is_available"`
}

func (s *ListingService) checkRoom(in RoomInput) error {
	f := fieldErrors{}
	if err := f.check(s.validate, in); err != nil {
		return err
	}
	if !in.MonthlyPrice.IsPositive() {
		f.add("monthly_price", "must be greater than 0")
	}
	return f.err()
}

// ownedRoom loads an active room on one of the landlord's hostels
func (s *ListingService) ownedRoom(ctx context.Context, landlord model.Actor, roomID int64) (*model.Room, error) {
	if err := requireRole(landlord, model.RoleLandlord); err != nil {
		return nil, err
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}

	if room == nil || !room.IsActive {
		return nil, apperror.NotFound("room")
	}

	if _, err := s.ownedHostel(ctx, landlord, room.HostelID); err != nil {
		return nil, err
	}

	return room, nil
}

func (s *ListingService) AddRoom(ctx context.Context, landlord model.Actor, hostelID int64, in RoomInput) (*model.Room, error) {
	if _, err := s.ownedHostel(ctx, landlord, hostelID); err != nil {
		return nil, err
	}

	if err := s.checkRoom(in); err != nil {
		return nil, err
	}

	room := &model.Room{
		HostelID:     hostelID,
		Label:        strings.TrimSpace(in.Label),
		Type:         in.Type,
		MonthlyPrice: in.MonthlyPrice,
		IsAvailable:  in.IsAvailable == nil || *in.IsAvailable,
		IsActive:     true,
	}

	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}

	s.logger.Info("Room added",
		zap.Int64("room_id", room.ID),
		zap.Int64("hostel_id", hostelID),
		zap.String("type", string(room.Type)),
	)

	return room, nil
}

// UpdateRoom edits label, type and price. Availability has its own toggle.
func (s *ListingService) UpdateRoom(ctx context.Context, landlord model.Actor, roomID int64, in RoomInput) (*model.Room, error) {
	room, err := s.ownedRoom(ctx, landlord, roomID)
	if err != nil {
		return nil, err
	}

	if err := s.checkRoom(in); err != nil {
		return nil, err
	}

	room.Label = strings.TrimSpace(in.Label)
	room.Type = in.Type
	room.MonthlyPrice = in.MonthlyPrice

	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("update room: %w", err)
	}

	s.logger.Info("Room updated", zap.Int64("room_id", roomID))

	return room, nil
}

// ToggleRoomAvailability sets the landlord-controlled availability flag.
// Bookings never change it.
func (s *ListingService) ToggleRoomAvailability(ctx context.Context, landlord model.Actor, roomID int64, available bool) (*model.Room, error) {
	room, err := s.ownedRoom(ctx, landlord, roomID)
	if err != nil {
		return nil, err
	}

	if err := s.rooms.SetAvailability(ctx, roomID, available); err != nil {
		return nil, fmt.Errorf("set room availability: %w", err)
	}

	s.logger.Info("Room availability changed",
		zap.Int64("room_id", roomID),
		zap.Bool("available", available),
	)

	room.IsAvailable = available

	return room, nil
}

// DeleteRoom removes a room. A room with pending or approved bookings cannot
// be removed; one with only closed bookings is soft-deleted so its history
// survives. softDeleted reports which path was taken.
func (s *ListingService) DeleteRoom(ctx context.Context, landlord model.Actor, roomID int64) (softDeleted bool, err error) {
	if _, err := s.ownedRoom(ctx, landlord, roomID); err != nil {
		return false, err
	}

	history, err := s.bookings.HistoryForRoom(ctx, roomID)
	if err != nil {
		return false, fmt.Errorf("get room booking history: %w", err)
	}

	if history.Open > 0 {
		return false, apperror.InvalidTransition("room has %d open booking(s) and cannot be deleted", history.Open)
	}

	if history.Closed > 0 {
		if err := s.rooms.Deactivate(ctx, roomID); err != nil {
			return false, fmt.Errorf("deactivate room: %w", err)
		}
		s.logger.Info("Room soft-deleted", zap.Int64("room_id", roomID))
		return true, nil
	}

	if err := s.rooms.Delete(ctx, roomID); err != nil {
		return false, fmt.Errorf("delete room: %w", err)
	}

	s.logger.Info("Room deleted", zap.Int64("room_id", roomID))

	return false, nil
}

// Estimate is a priced quote for a stay; nothing is stored
type Estimate struct {
	RoomID       int64           `json:"room_id"`
	Days         int             `json:"days"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
	DailyRate    decimal.Decimal `json:"daily_rate"`
	Total        decimal.Decimal `json:"total"`
	Label        string          `json:"label"`
}

// Estimate quotes a stay. Rooms on unlisted hostels are visible only to the
// owner and admins, as in GetHostel.
func (s *ListingService) Estimate(ctx context.Context, actor model.Actor, roomID int64, start, end time.Time) (*Estimate, error) {
	if !model.UTCDate(end).After(model.UTCDate(start)) {
		return nil, apperror.Field("end_date", "must be after start_date")
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}

	if room == nil || !room.IsActive {
		return nil, apperror.NotFound("room")
	}

	hostel, err := s.hostels.GetByID(ctx, room.HostelID)
	if err != nil {
		return nil, fmt.Errorf("get hostel: %w", err)
	}

	if hostel == nil || (!hostel.IsPublic() && !canSeeUnlisted(actor, hostel)) {
		return nil, apperror.NotFound("room")
	}

	total := projection.Estimate(room.MonthlyPrice, start, end)

	return &Estimate{
		RoomID:       roomID,
		Days:         projection.ChargeableDays(start, end),
		MonthlyPrice: room.MonthlyPrice,
		DailyRate:    projection.DailyRate(room.MonthlyPrice).Round(2),
		Total:        total.Round(2),
		Label:        projection.FormatPrice(total),
	}, nil
}
