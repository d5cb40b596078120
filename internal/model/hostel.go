package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type HostelType string

const (
	HostelMale   HostelType = "male"
	HostelFemale HostelType = "female"
	HostelMixed  HostelType = "mixed"
)

type HostelVerification string

const (
	HostelPending  HostelVerification = "pending"
	HostelApproved HostelVerification = "approved"
	HostelRejected HostelVerification = "rejected"
)

// HostelTransitions mirrors LandlordTransitions; verify maps to approved.
var HostelTransitions = Transitions[HostelVerification, VerificationAction]{
	HostelPending: {
		VerificationVerify: HostelApproved,
		VerificationReject: HostelRejected,
	},
	HostelRejected: {
		VerificationResubmit: HostelPending,
	},
}

// EffectiveStatus is the display-facing composite of verification and the
// active flag.
type EffectiveStatus string

const (
	EffectivePending  EffectiveStatus = "pending"
	EffectiveVerified EffectiveStatus = "verified"
	EffectiveRejected EffectiveStatus = "rejected"
	EffectiveDisabled EffectiveStatus = "disabled"
)

type Address struct {
	Street    string   `json:"street"`
	City      string   `json:"city"`
	County    string   `json:"county"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type Amenity struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type Image struct {
	URL       string `json:"url"`
	IsPrimary bool   `json:"is_primary"`
}

type Hostel struct {
	ID                 int64              `json:"id"`
	LandlordID         int64              `json:"landlord_id"`
	Name               string             `json:"name"`
	Type               HostelType         `json:"type"`
	Address            Address            `json:"address"`
	DistanceKm         float64            `json:"distance_km"`
	Description        string             `json:"description"`
	Amenities          []Amenity          `json:"amenities"`
	Images             []Image            `json:"images"`
	MinPrice           decimal.Decimal    `json:"min_price"`
	MaxPrice           *decimal.Decimal   `json:"max_price,omitempty"`
	IsActive           bool               `json:"is_active"`
	VerificationStatus HostelVerification `json:"verification_status"`
	RejectionReason    string             `json:"rejection_reason,omitempty"`
	DisabledReason     string             `json:"disabled_reason,omitempty"`
	AverageRating      float64            `json:"average_rating"`
	TotalReviews       int                `json:"total_reviews"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// EffectiveStatus is disabled whenever the hostel is inactive, otherwise the
// verification status with approved shown as verified.
func (h *Hostel) EffectiveStatus() EffectiveStatus {
	if !h.IsActive {
		return EffectiveDisabled
	}
	switch h.VerificationStatus {
	case HostelApproved:
		return EffectiveVerified
	case HostelRejected:
		return EffectiveRejected
	default:
		return EffectivePending
	}
}

// IsPublic reports whether students and anonymous visitors may see the hostel.
func (h *Hostel) IsPublic() bool {
	return h.IsActive && h.VerificationStatus == HostelApproved
}

// PrimaryImage returns the flagged primary image or the first one.
func (h *Hostel) PrimaryImage() (Image, bool) {
	for _, img := range h.Images {
		if img.IsPrimary {
			return img, true
		}
	}
	if len(h.Images) > 0 {
		return h.Images[0], true
	}
	return Image{}, false
}

// HostelFilter narrows public listing queries. Zero values mean no filter.
type HostelFilter struct {
	City     string
	County   string
	Type     HostelType
	MaxPrice *decimal.Decimal
	Limit    int
	Offset   int
}

// HostelCounts is the per-status breakdown used by admin metrics.
type HostelCounts struct {
	Total    int
	Active   int
	Pending  int
	Approved int
	Rejected int
	Disabled int
	// ActiveApproved counts hostels whose effective status is verified.
	ActiveApproved int
}
