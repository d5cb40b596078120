package projection

import (
	"math"

	"github.com/hostelhub/hostel-api/internal/model"
)

// Percent returns round(part/total*100), or 0 when total is zero.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// VerificationRate is the share of hostels whose effective status is verified.
func VerificationRate(activeListings, totalHostels int) int {
	return Percent(activeListings, totalHostels)
}

// PendingVerifications sums the two admin review queues.
func PendingVerifications(pendingLandlords, pendingHostels int) int {
	return pendingLandlords + pendingHostels
}

// Counts is the raw input for the admin dashboard.
type Counts struct {
	Users     []model.UserCount
	Landlords map[model.LandlordVerification]int
	Hostels   model.HostelCounts
	Bookings  map[model.BookingStatus]int
	// OpenReports counts pending and reviewed reports.
	OpenReports int
}

type Dashboard struct {
	TotalUsers           int                         `json:"total_users"`
	UsersByRole          map[model.Role]int          `json:"users_by_role"`
	SuspendedUsers       int                         `json:"suspended_users"`
	TotalLandlords       int                         `json:"total_landlords"`
	VerifiedLandlords    int                         `json:"verified_landlords"`
	PendingLandlords     int                         `json:"pending_landlords"`
	TotalHostels         int                         `json:"total_hostels"`
	ActiveListings       int                         `json:"active_listings"`
	PendingHostels       int                         `json:"pending_hostels"`
	DisabledHostels      int                         `json:"disabled_hostels"`
	VerificationRate     int                         `json:"verification_rate"`
	PendingVerifications int                         `json:"pending_verifications"`
	BookingsByStatus     map[model.BookingStatus]int `json:"bookings_by_status"`
	TotalBookings        int                         `json:"total_bookings"`
	ApprovalRate         int                         `json:"approval_rate"`
	OpenReports          int                         `json:"open_reports"`
}

// BuildDashboard projects raw counts into the admin dashboard.
func BuildDashboard(c Counts) Dashboard {
	d := Dashboard{
		UsersByRole:      make(map[model.Role]int),
		BookingsByStatus: make(map[model.BookingStatus]int),
		OpenReports:      c.OpenReports,
	}

	for _, uc := range c.Users {
		d.TotalUsers += uc.Count
		d.UsersByRole[uc.Role] += uc.Count
		if uc.Status == model.UserStatusSuspended {
			d.SuspendedUsers += uc.Count
		}
	}

	for status, n := range c.Landlords {
		d.TotalLandlords += n
		switch status {
		case model.LandlordVerified:
			d.VerifiedLandlords += n
		case model.LandlordPending:
			d.PendingLandlords += n
		}
	}

	d.TotalHostels = c.Hostels.Total
	d.ActiveListings = c.Hostels.ActiveApproved
	d.PendingHostels = c.Hostels.Pending
	d.DisabledHostels = c.Hostels.Disabled
	d.VerificationRate = VerificationRate(d.ActiveListings, d.TotalHostels)
	d.PendingVerifications = PendingVerifications(d.PendingLandlords, d.PendingHostels)

	decided := 0
	for status, n := range c.Bookings {
		d.BookingsByStatus[status] = n
		d.TotalBookings += n
		if status == model.BookingApproved || status == model.BookingRejected {
			decided += n
		}
	}
	d.ApprovalRate = Percent(c.Bookings[model.BookingApproved], decided)

	return d
}
