package model

import "time"

type NotificationType string

const (
	NotifBookingRequested  NotificationType = "booking_requested"
	NotifBookingApproved   NotificationType = "booking_approved"
	NotifBookingRejected   NotificationType = "booking_rejected"
	NotifBookingCancelled  NotificationType = "booking_cancelled"
	NotifLandlordVerified  NotificationType = "landlord_verified"
	NotifLandlordRejected  NotificationType = "landlord_rejected"
	NotifHostelApproved    NotificationType = "hostel_approved"
	NotifHostelRejected    NotificationType = "hostel_rejected"
	NotifHostelDisabled    NotificationType = "hostel_disabled"
	NotifNewReview         NotificationType = "new_review"
	NotifAccountSuspended  NotificationType = "account_suspended"
	NotifAccountReinstated NotificationType = "account_reinstated"
)

type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message,omitempty"`
	IsRead    bool             `json:"is_read"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
