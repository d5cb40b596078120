package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type RoomType string

const (
	RoomSingle   RoomType = "single"
	RoomShared   RoomType = "shared"
	RoomBedsit   RoomType = "bedsit"
	RoomSelf     RoomType = "self"
	RoomStudio   RoomType = "studio"
	RoomDouble   RoomType = "double"
	RoomTriple   RoomType = "triple"
	RoomQuad     RoomType = "quad"
	RoomBedspace RoomType = "bedspace"
)

func (t RoomType) Valid() bool {
	switch t {
	case RoomSingle, RoomShared, RoomBedsit, RoomSelf, RoomStudio,
		RoomDouble, RoomTriple, RoomQuad, RoomBedspace:
		return true
	}
	return false
}

type Room struct {
	ID           int64           `json:"id"`
	HostelID     int64           `json:"hostel_id"`
	Label        string          `json:"label"`
	Type         RoomType        `json:"type"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
	IsAvailable  bool            `json:"is_available"`
	IsActive     bool            `json:"is_active"` // false = soft-deleted
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Bookable reports whether a student may request the room.
func (r *Room) Bookable() bool {
	return r.IsActive && r.IsAvailable
}

// RoomBookingHistory counts a room's bookings split by whether they can
// still change state.
type RoomBookingHistory struct {
	Open   int // pending or approved
	Closed int // rejected or cancelled
}
