package model

import "time"

type ReportReason string

const (
	ReasonFakeListing       ReportReason = "fake_listing"
	ReasonPricingIssue      ReportReason = "pricing_issue"
	ReasonHarassment        ReportReason = "harassment"
	ReasonSafetyConcern     ReportReason = "safety_concern"
	ReasonScam              ReportReason = "scam"
	ReasonPropertyCondition ReportReason = "property_condition"
	ReasonOther             ReportReason = "other"
)

func (r ReportReason) Valid() bool {
	switch r {
	case ReasonFakeListing, ReasonPricingIssue, ReasonHarassment, ReasonSafetyConcern,
		ReasonScam, ReasonPropertyCondition, ReasonOther:
		return true
	}
	return false
}

type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportReviewed ReportStatus = "reviewed"
	ReportResolved ReportStatus = "resolved"
)

type ReportAction string

const (
	ReportReview  ReportAction = "review"
	ReportResolve ReportAction = "resolve"
)

// ReportTransitions: resolved is terminal.
var ReportTransitions = Transitions[ReportStatus, ReportAction]{
	ReportPending: {
		ReportReview:  ReportReviewed,
		ReportResolve: ReportResolved,
	},
	ReportReviewed: {
		ReportResolve: ReportResolved,
	},
}

type Report struct {
	ID          int64        `json:"id"`
	HostelID    int64        `json:"hostel_id"`
	ReporterID  int64        `json:"reporter_id"`
	Reason      ReportReason `json:"reason"`
	Description string       `json:"description"`
	Status      ReportStatus `json:"status"`
	AdminNotes  string       `json:"admin_notes,omitempty"`
	HandledBy   *int64       `json:"handled_by,omitempty"`
	ResolvedAt  *time.Time   `json:"resolved_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ResolveOutcome describes what a resolution touched.
type ResolveOutcome struct {
	HostelDisabled  bool  `json:"hostel_disabled"`
	CascadedReports int64 `json:"cascaded_reports"`
}
