package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hostelhub/hostel-api/internal/apperror"
	"github.com/hostelhub/hostel-api/internal/model"
	"github.com/hostelhub/hostel-api/internal/service"
)

// verifyRequest names the status the admin wants rather than the action
type verifyRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func (r verifyRequest) input() (service.DecisionInput, error) {
	action, ok := verificationAction(r.Status)
	if !ok {
		return service.DecisionInput{}, apperror.Field("status", "must be one of: verified rejected")
	}
	return service.DecisionInput{Action: action, Reason: r.Reason}, nil
}

func (h *Handler) verifyLandlord(c *gin.Context) {
	id, ok := h.pathID(c, "id", "landlord")
	if !ok {
		return
	}

	var body verifyRequest
	if !h.bind(c, &body) {
		return
	}

	in, err := body.input()
	if err != nil {
		h.fail(c, err)
		return
	}

	profile, err := h.svc.Verification.DecideLandlord(c.Request.Context(), actor(c), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, profile, "Landlord "+string(profile.VerificationStatus))
}

func (h *Handler) verifyHostel(c *gin.Context) {
	id, ok := h.pathID(c, "id", "hostel")
	if !ok {
		return
	}

	var body verifyRequest
	if !h.bind(c, &body) {
		return
	}

	in, err := body.input()
	if err != nil {
		h.fail(c, err)
		return
	}

	hostel, err := h.svc.Verification.DecideHostel(c.Request.Context(), actor(c), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, hostel, "Hostel "+string(hostel.VerificationStatus))
}

func (h *Handler) resubmitHostel(c *gin.Context) {
	id, ok := h.pathID(c, "id", "hostel")
	if !ok {
		return
	}

	hostel, err := h.svc.Verification.ResubmitHostel(c.Request.Context(), actor(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, hostel, "Hostel resubmitted for verification")
}

func (h *Handler) pendingLandlords(c *gin.Context) {
	profiles, err := h.svc.Verification.PendingLandlords(c.Request.Context(), actor(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, profiles, "")
}

func (h *Handler) hostelQueue(c *gin.Context) {
	status := model.HostelVerification(c.Query("status"))

	hostels, err := h.svc.Verification.HostelQueue(c.Request.Context(), actor(c), status)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, hostels, "")
}

func (h *Handler) metrics(c *gin.Context) {
	dashboard, err := h.svc.Metrics.Dashboard(c.Request.Context(), actor(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, dashboard, "")
}

func (h *Handler) listReports(c *gin.Context) {
	status := model.ReportStatus(c.Query("status"))

	reports, err := h.svc.Moderation.ListReports(c.Request.Context(), actor(c), status)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, reports, "")
}

type reportUpdateRequest struct {
	Status         model.ReportStatus `json:"status"`
	AdminNotes     string             `json:"adminNotes"`
	DisableListing bool               `json:"disableListing"`
}

func (h *Handler) updateReport(c *gin.Context) {
	id, ok := h.pathID(c, "id", "report")
	if !ok {
		return
	}

	var body reportUpdateRequest
	if !h.bind(c, &body) {
		return
	}

	in := service.ReportUpdateInput{
		Status:         body.Status,
		AdminNotes:     body.AdminNotes,
		DisableListing: body.DisableListing,
	}

	result, err := h.svc.Moderation.UpdateReport(c.Request.Context(), actor(c), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, result, "Report "+string(result.Report.Status))
}

func (h *Handler) activateUser(c *gin.Context) {
	id, ok := h.pathID(c, "id", "user")
	if !ok {
		return
	}

	user, err := h.svc.Users.Activate(c.Request.Context(), actor(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, user, "User activated")
}

func (h *Handler) suspendUser(c *gin.Context) {
	id, ok := h.pathID(c, "id", "user")
	if !ok {
		return
	}

	var in service.SuspendInput
	if !h.bind(c, &in) {
		return
	}

	user, err := h.svc.Users.Suspend(c.Request.Context(), actor(c), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, user, "User suspended")
}

func (h *Handler) reactivateUser(c *gin.Context) {
	id, ok := h.pathID(c, "id", "user")
	if !ok {
		return
	}

	user, err := h.svc.Users.Reactivate(c.Request.Context(), actor(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, user, "User reactivated")
}
