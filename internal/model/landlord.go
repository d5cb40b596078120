package model

import "time"

// VerificationAction is an admin decision or a landlord resubmission.
type VerificationAction string

const (
	VerificationVerify   VerificationAction = "verify"
	VerificationReject   VerificationAction = "reject"
	VerificationResubmit VerificationAction = "resubmit"
)

// IsDecision reports whether the action is an admin outcome.
func (a VerificationAction) IsDecision() bool {
	return a == VerificationVerify || a == VerificationReject
}

type LandlordVerification string

const (
	LandlordPending  LandlordVerification = "pending"
	LandlordVerified LandlordVerification = "verified"
	LandlordRejected LandlordVerification = "rejected"
)

// LandlordTransitions: only pending records can be decided; a rejected
// landlord goes back to pending by resubmitting.
var LandlordTransitions = Transitions[LandlordVerification, VerificationAction]{
	LandlordPending: {
		VerificationVerify: LandlordVerified,
		VerificationReject: LandlordRejected,
	},
	LandlordRejected: {
		VerificationResubmit: LandlordPending,
	},
}

// LandlordProfile is keyed by the landlord's user id.
type LandlordProfile struct {
	UserID             int64                `json:"user_id"`
	BusinessName       string               `json:"business_name"`
	ContactPhone       string               `json:"contact_phone"`
	ContactEmail       string               `json:"contact_email"`
	VerificationStatus LandlordVerification `json:"verification_status"`
	RejectionReason    string               `json:"rejection_reason,omitempty"`
	VerifiedAt         *time.Time           `json:"verified_at,omitempty"`
	VerifiedBy         *int64               `json:"verified_by,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

// LandlordContact is the part of a profile revealed to students with an
// approved booking.
type LandlordContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (p *LandlordProfile) Contact() LandlordContact {
	return LandlordContact{Name: p.BusinessName, Phone: p.ContactPhone, Email: p.ContactEmail}
}
