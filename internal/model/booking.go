package model

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"   // waiting for the landlord
	BookingApproved  BookingStatus = "approved"  // landlord accepted, contact revealed
	BookingRejected  BookingStatus = "rejected"  // landlord declined
	BookingCancelled BookingStatus = "cancelled" // withdrawn by the student
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingApproved, BookingRejected, BookingCancelled:
		return true
	}
	return false
}

// IsOpen reports whether the booking still holds a claim on the room.
func (s BookingStatus) IsOpen() bool {
	return s == BookingPending || s == BookingApproved
}

type BookingAction string

const (
	BookingApprove BookingAction = "approve"
	BookingReject  BookingAction = "reject"
	BookingCancel  BookingAction = "cancel"
)

// IsDecision reports whether the action belongs to the landlord.
func (a BookingAction) IsDecision() bool {
	return a == BookingApprove || a == BookingReject
}

// BookingTransitions: a landlord decides once, from pending only; the student
// may cancel while pending or after approval.
var BookingTransitions = Transitions[BookingStatus, BookingAction]{
	BookingPending: {
		BookingApprove: BookingApproved,
		BookingReject:  BookingRejected,
		BookingCancel:  BookingCancelled,
	},
	BookingApproved: {
		BookingCancel: BookingCancelled,
	},
}

type Booking struct {
	ID                 int64         `json:"id"`
	RoomID             int64         `json:"room_id"`
	HostelID           int64         `json:"hostel_id"`
	StudentID          int64         `json:"student_id"`
	LandlordID         int64         `json:"landlord_id"`
	StartDate          time.Time     `json:"start_date"`
	EndDate            time.Time     `json:"end_date"`
	Status             BookingStatus `json:"status"`
	DecisionReason     string        `json:"decision_reason,omitempty"`
	CancellationReason string        `json:"cancellation_reason,omitempty"`
	DecidedAt          *time.Time    `json:"decided_at,omitempty"`
	CancelledAt        *time.Time    `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`

	// Populated for responses, not stored on the row.
	Room    *Room            `json:"room,omitempty"`
	Hostel  *Hostel          `json:"hostel,omitempty"`
	Contact *LandlordContact `json:"landlord_contact,omitempty"`
}

// IsDecided reports whether the landlord has already answered the request.
func (b *Booking) IsDecided() bool {
	return b.Status != BookingPending
}

// UTCDate truncates t to its calendar date in UTC.
func UTCDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts UTC calendar days from start to end. It is negative when
// end precedes start.
func DaysBetween(start, end time.Time) int {
	return int(UTCDate(end).Sub(UTCDate(start)).Hours() / 24)
}
