// Package servicetest is an in-memory implementation of the service store
// interfaces for tests that need the real services without Postgres.
package servicetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hostelhub/hostel-api/internal/model"
	"github.com/hostelhub/hostel-api/internal/repository"
)

// DB is an in-memory stand-in for the Postgres schema. Every read returns
// a copy so services cannot mutate stored rows by accident.
type DB struct {
	mu            sync.Mutex
	nextID        int64
	users         map[int64]*model.User
	landlords     map[int64]*model.LandlordProfile
	hostels       map[int64]*model.Hostel
	rooms         map[int64]*model.Room
	bookings      map[int64]*model.Booking
	reviews       map[int64]*model.Review
	reports       map[int64]*model.Report
	saved         map[[2]int64]time.Time
	notifications []*model.Notification
}

func New() *DB {
	return &DB{
		users:     map[int64]*model.User{},
		landlords: map[int64]*model.LandlordProfile{},
		hostels:   map[int64]*model.Hostel{},
		rooms:     map[int64]*model.Room{},
		bookings:  map[int64]*model.Booking{},
		reviews:   map[int64]*model.Review{},
		reports:   map[int64]*model.Report{},
		saved:     map[[2]int64]time.Time{},
	}
}

func (db *DB) id() int64 {
	db.nextID++
	return db.nextID
}

func copyOf[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func sortedIDs[T any](m map[int64]*T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type Users struct{ *DB }

func (f Users) GetByID(_ context.Context, id int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyOf(f.users[id]), nil
}

func (f Users) UpdateStatus(_ context.Context, id int64, from, to model.UserStatus, reason string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[id]
	if u == nil || u.Status != from {
		return false, nil
	}
	u.Status, u.StatusReason = to, reason
	return true, nil
}

func (f Users) CountByRoleAndStatus(context.Context) ([]model.UserCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	buckets := map[[2]string]int{}
	for _, u := range f.users {
		buckets[[2]string{string(u.Role), string(u.Status)}]++
	}
	var out []model.UserCount
	for k, n := range buckets {
		out = append(out, model.UserCount{Role: model.Role(k[0]), Status: model.UserStatus(k[1]), Count: n})
	}
	return out, nil
}

type Landlords struct{ *DB }

func (f Landlords) GetByUserID(_ context.Context, userID int64) (*model.LandlordProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyOf(f.landlords[userID]), nil
}

func (f Landlords) ListByStatus(_ context.Context, status model.LandlordVerification) ([]*model.LandlordProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.LandlordProfile
	for _, id := range sortedIDs(f.landlords) {
		if p := f.landlords[id]; p.VerificationStatus == status {
			out = append(out, copyOf(p))
		}
	}
	return out, nil
}

func (f Landlords) UpdateVerification(_ context.Context, userID int64, from, to model.LandlordVerification, reason string, verifiedBy int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.landlords[userID]
	if p == nil || p.VerificationStatus != from {
		return false, nil
	}
	p.VerificationStatus, p.RejectionReason = to, reason
	p.VerifiedAt, p.VerifiedBy = nil, nil
	if to == model.LandlordVerified {
		now := time.Now()
		p.VerifiedAt, p.VerifiedBy = &now, &verifiedBy
	}
	return true, nil
}

func (f Landlords) CountByStatus(context.Context) (map[model.LandlordVerification]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[model.LandlordVerification]int{}
	for _, p := range f.landlords {
		out[p.VerificationStatus]++
	}
	return out, nil
}

type Hostels struct{ *DB }

func (f Hostels) Create(_ context.Context, h *model.Hostel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	h.ID = f.id()
	f.hostels[h.ID] = copyOf(h)
	return nil
}

func (f Hostels) GetByID(_ context.Context, id int64) (*model.Hostel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyOf(f.hostels[id]), nil
}

func (f Hostels) GetByIDs(_ context.Context, ids []int64) ([]*model.Hostel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Hostel
	for _, id := range ids {
		if h := f.hostels[id]; h != nil {
			out = append(out, copyOf(h))
		}
	}
	return out, nil
}

func (f Hostels) list(keep func(*model.Hostel) bool) []*model.Hostel {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Hostel
	for _, id := range sortedIDs(f.hostels) {
		if h := f.hostels[id]; keep(h) {
			out = append(out, copyOf(h))
		}
	}
	return out
}

func (f Hostels) ListByLandlord(_ context.Context, landlordID int64) ([]*model.Hostel, error) {
	return f.list(func(h *model.Hostel) bool { return h.LandlordID == landlordID }), nil
}

func (f Hostels) ListByVerification(_ context.Context, status model.HostelVerification) ([]*model.Hostel, error) {
	return f.list(func(h *model.Hostel) bool { return h.VerificationStatus == status }), nil
}

func (f Hostels) ListPublic(_ context.Context, filter model.HostelFilter) ([]*model.Hostel, error) {
	return f.list(func(h *model.Hostel) bool {
		switch {
		case !h.IsPublic():
			return false
		case filter.City != "" && !strings.EqualFold(h.Address.City, filter.City):
			return false
		case filter.County != "" && !strings.EqualFold(h.Address.County, filter.County):
			return false
		case filter.Type != "" && h.Type != filter.Type:
			return false
		case filter.MaxPrice != nil && h.MinPrice.GreaterThan(*filter.MaxPrice):
			return false
		}
		return true
	}), nil
}

func (f Hostels) Update(_ context.Context, h *model.Hostel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := f.hostels[h.ID]
	updated := copyOf(h)
	updated.VerificationStatus = stored.VerificationStatus
	updated.IsActive = stored.IsActive
	f.hostels[h.ID] = updated
	return nil
}

func (f Hostels) UpdateVerification(_ context.Context, id int64, from, to model.HostelVerification, reason string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := f.hostels[id]
	if h == nil || h.VerificationStatus != from {
		return false, nil
	}
	h.VerificationStatus, h.RejectionReason = to, reason
	return true, nil
}

func (f Hostels) SetActive(_ context.Context, id int64, active bool, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := f.hostels[id]
	h.IsActive, h.DisabledReason = active, reason
	return nil
}

func (f Hostels) UpdateRating(_ context.Context, id int64, average float64, total int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := f.hostels[id]
	h.AverageRating, h.TotalReviews = average, total
	return nil
}

func (f Hostels) HasHistory(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.HostelID == id {
			return true, nil
		}
	}
	for _, r := range f.reviews {
		if r.HostelID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f Hostels) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.hostels, id)
	for rid, r := range f.rooms {
		if r.HostelID == id {
			delete(f.rooms, rid)
		}
	}
	return nil
}

func (f Hostels) Counts(context.Context) (model.HostelCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var c model.HostelCounts
	for _, h := range f.hostels {
		c.Total++
		if h.IsActive {
			c.Active++
		} else {
			c.Disabled++
		}
		switch h.VerificationStatus {
		case model.HostelPending:
			c.Pending++
		case model.HostelApproved:
			c.Approved++
		case model.HostelRejected:
			c.Rejected++
		}
		if h.IsPublic() {
			c.ActiveApproved++
		}
	}
	return c, nil
}

type Rooms struct{ *DB }

func (f Rooms) Create(_ context.Context, room *model.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	room.ID = f.id()
	f.rooms[room.ID] = copyOf(room)
	return nil
}

func (f Rooms) GetByID(_ context.Context, id int64) (*model.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyOf(f.rooms[id]), nil
}

func (f Rooms) ListByHostel(ctx context.Context, hostelID int64) ([]*model.Room, error) {
	return f.ListByHostels(ctx, []int64{hostelID})
}

func (f Rooms) ListByHostels(_ context.Context, hostelIDs []int64) ([]*model.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := map[int64]bool{}
	for _, id := range hostelIDs {
		want[id] = true
	}
	var out []*model.Room
	for _, id := range sortedIDs(f.rooms) {
		if r := f.rooms[id]; want[r.HostelID] {
			out = append(out, copyOf(r))
		}
	}
	return out, nil
}

func (f Rooms) Update(_ context.Context, room *model.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.rooms[room.ID]
	r.Label, r.Type, r.MonthlyPrice = room.Label, room.Type, room.MonthlyPrice
	return nil
}

func (f Rooms) SetAvailability(_ context.Context, id int64, available bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms[id].IsAvailable = available
	return nil
}

func (f Rooms) Deactivate(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms[id].IsActive = false
	f.rooms[id].IsAvailable = false
	return nil
}

func (f Rooms) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rooms, id)
	return nil
}

type Bookings struct{ *DB }

func (f Bookings) Create(_ context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b.ID = f.id()
	f.bookings[b.ID] = copyOf(b)
	return nil
}

func (f Bookings) GetByID(_ context.Context, id int64) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyOf(f.bookings[id]), nil
}

func (f Bookings) list(keep func(*model.Booking) bool) []*model.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Booking
	for _, id := range sortedIDs(f.bookings) {
		if b := f.bookings[id]; keep(b) {
			out = append(out, copyOf(b))
		}
	}
	return out
}

func (f Bookings) ListByStudent(_ context.Context, studentID int64) ([]*model.Booking, error) {
	return f.list(func(b *model.Booking) bool { return b.StudentID == studentID }), nil
}

func (f Bookings) ListByLandlord(_ context.Context, landlordID int64, status model.BookingStatus) ([]*model.Booking, error) {
	return f.list(func(b *model.Booking) bool {
		return b.LandlordID == landlordID && (status == "" || b.Status == status)
	}), nil
}

func (f Bookings) Transition(_ context.Context, id int64, from []model.BookingStatus, to model.BookingStatus, reason string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.bookings[id]
	if b == nil {
		return false, nil
	}
	for _, s := range from {
		if b.Status == s {
			b.Status = to
			if to == model.BookingCancelled {
				b.CancellationReason = reason
			} else {
				b.DecisionReason = reason
			}
			return true, nil
		}
	}
	return false, nil
}

func (f Bookings) HasApproved(_ context.Context, studentID, hostelID int64) (bool, error) {
	return len(f.list(func(b *model.Booking) bool {
		return b.StudentID == studentID && b.HostelID == hostelID && b.Status == model.BookingApproved
	})) > 0, nil
}

func (f Bookings) HistoryForRoom(_ context.Context, roomID int64) (model.RoomBookingHistory, error) {
	var h model.RoomBookingHistory
	for _, b := range f.list(func(b *model.Booking) bool { return b.RoomID == roomID }) {
		if b.Status.IsOpen() {
			h.Open++
		} else {
			h.Closed++
		}
	}
	return h, nil
}

func (f Bookings) CountByStatus(context.Context) (map[model.BookingStatus]int, error) {
	out := map[model.BookingStatus]int{}
	for _, b := range f.list(func(*model.Booking) bool { return true }) {
		out[b.Status]++
	}
	return out, nil
}

type Reviews struct{ *DB }

func (f Reviews) Create(_ context.Context, rv *model.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.reviews {
		if existing.HostelID == rv.HostelID && existing.StudentID == rv.StudentID {
			return repository.ErrDuplicateReview
		}
	}
	rv.ID = f.id()
	f.reviews[rv.ID] = copyOf(rv)
	return nil
}

func (f Reviews) GetByID(_ context.Context, id int64) (*model.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyOf(f.reviews[id]), nil
}

func (f Reviews) GetByStudentAndHostel(_ context.Context, studentID, hostelID int64) (*model.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rv := range f.reviews {
		if rv.StudentID == studentID && rv.HostelID == hostelID {
			return copyOf(rv), nil
		}
	}
	return nil, nil
}

func (f Reviews) ListByHostel(_ context.Context, hostelID int64) ([]*model.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Review
	for _, id := range sortedIDs(f.reviews) {
		if rv := f.reviews[id]; rv.HostelID == hostelID {
			out = append(out, copyOf(rv))
		}
	}
	return out, nil
}

func (f Reviews) Ratings(ctx context.Context, hostelID int64) ([]int, error) {
	reviews, _ := f.ListByHostel(ctx, hostelID)
	var out []int
	for _, rv := range reviews {
		out = append(out, rv.Rating)
	}
	return out, nil
}

func (f Reviews) Update(_ context.Context, rv *model.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reviews[rv.ID] = copyOf(rv)
	return nil
}

func (f Reviews) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.reviews, id)
	return nil
}

type Reports struct{ *DB }

func (f Reports) Create(_ context.Context, rp *model.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rp.ID = f.id()
	f.reports[rp.ID] = copyOf(rp)
	return nil
}

func (f Reports) GetByID(_ context.Context, id int64) (*model.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyOf(f.reports[id]), nil
}

func (f Reports) List(_ context.Context, status model.ReportStatus) ([]*model.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Report
	for _, id := range sortedIDs(f.reports) {
		if rp := f.reports[id]; status == "" || rp.Status == status {
			out = append(out, copyOf(rp))
		}
	}
	return out, nil
}

func (f Reports) MarkReviewed(_ context.Context, id, adminID int64, notes string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rp := f.reports[id]
	if rp == nil || rp.Status != model.ReportPending {
		return false, nil
	}
	rp.Status, rp.AdminNotes, rp.HandledBy = model.ReportReviewed, notes, &adminID
	return true, nil
}

func (f Reports) Resolve(_ context.Context, id, hostelID, adminID int64, notes string, disableHostel bool) (model.ResolveOutcome, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out model.ResolveOutcome
	rp := f.reports[id]
	if rp == nil || rp.Status == model.ReportResolved {
		return out, false, nil
	}
	rp.Status, rp.AdminNotes, rp.HandledBy = model.ReportResolved, notes, &adminID
	if disableHostel {
		if h := f.hostels[hostelID]; h != nil {
			h.IsActive, h.DisabledReason = false, notes
			out.HostelDisabled = true
		}
		for _, other := range f.reports {
			if other.ID != id && other.HostelID == hostelID && other.Status != model.ReportResolved {
				other.Status, other.AdminNotes = model.ReportResolved, notes
				out.CascadedReports++
			}
		}
	}
	return out, true, nil
}

func (f Reports) CountOpen(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, rp := range f.reports {
		if rp.Status != model.ReportResolved {
			n++
		}
	}
	return n, nil
}

type SavedHostels struct{ *DB }

func (f SavedHostels) Add(_ context.Context, studentID, hostelID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]int64{studentID, hostelID}
	if _, ok := f.saved[key]; ok {
		return false, nil
	}
	f.saved[key] = time.Now()
	return true, nil
}

func (f SavedHostels) Remove(_ context.Context, studentID, hostelID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.saved, [2]int64{studentID, hostelID})
	return nil
}

func (f SavedHostels) Exists(_ context.Context, studentID, hostelID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.saved[[2]int64{studentID, hostelID}]
	return ok, nil
}

func (f SavedHostels) ListByStudent(_ context.Context, studentID int64) ([]*model.SavedHostel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.SavedHostel
	for key, at := range f.saved {
		if key[0] == studentID {
			out = append(out, &model.SavedHostel{StudentID: key[0], HostelID: key[1], CreatedAt: at})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HostelID < out[j].HostelID })
	return out, nil
}

type Notifications struct{ *DB }

func (f Notifications) Create(_ context.Context, n *model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = f.id()
	f.notifications = append(f.notifications, copyOf(n))
	return nil
}

func (f Notifications) ListByUser(_ context.Context, userID int64, unreadOnly bool, limit int) ([]*model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Notification
	for i := len(f.notifications) - 1; i >= 0 && len(out) < limit; i-- {
		n := f.notifications[i]
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, copyOf(n))
		}
	}
	return out, nil
}

func (f Notifications) MarkRead(_ context.Context, userID, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.ID == id && n.UserID == userID && !n.IsRead {
			n.IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (f Notifications) MarkAllRead(_ context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var changed int64
	for _, n := range f.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			changed++
		}
	}
	return changed, nil
}

func (f Notifications) CountUnread(_ context.Context, userID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, item := range f.notifications {
		if item.UserID == userID && !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (db *DB) NotificationsFor(userID int64) []model.NotificationType {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []model.NotificationType
	for _, n := range db.notifications {
		if n.UserID == userID {
			out = append(out, n.Type)
		}
	}
	return out
}

func (db *DB) Users() Users                 { return Users{db} }
func (db *DB) Landlords() Landlords         { return Landlords{db} }
func (db *DB) Hostels() Hostels             { return Hostels{db} }
func (db *DB) Rooms() Rooms                 { return Rooms{db} }
func (db *DB) Bookings() Bookings           { return Bookings{db} }
func (db *DB) Reviews() Reviews             { return Reviews{db} }
func (db *DB) Reports() Reports             { return Reports{db} }
func (db *DB) SavedHostels() SavedHostels   { return SavedHostels{db} }
func (db *DB) Notifications() Notifications { return Notifications{db} }

// SeedUser stores u under a fresh id and returns a copy
func (db *DB) SeedUser(u model.User) *model.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	u.ID = db.id()
	db.users[u.ID] = &u
	return copyOf(&u)
}

// SeedLandlord stores a profile keyed by its user id
func (db *DB) SeedLandlord(p model.LandlordProfile) *model.LandlordProfile {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.landlords[p.UserID] = &p
	return copyOf(&p)
}

func (db *DB) SeedHostel(h model.Hostel) *model.Hostel {
	db.mu.Lock()
	defer db.mu.Unlock()
	h.ID = db.id()
	db.hostels[h.ID] = &h
	return copyOf(&h)
}

func (db *DB) SeedRoom(r model.Room) *model.Room {
	db.mu.Lock()
	defer db.mu.Unlock()
	r.ID = db.id()
	db.rooms[r.ID] = &r
	return copyOf(&r)
}

// User returns a copy of the stored user, or nil
func (db *DB) User(id int64) *model.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	return copyOf(db.users[id])
}

// SetBookingStatus forces a booking into status, bypassing the transition table
func (db *DB) SetBookingStatus(id int64, status model.BookingStatus) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.bookings[id].Status = status
}
