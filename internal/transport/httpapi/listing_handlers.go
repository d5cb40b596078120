package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hostelhub/hostel-api/internal/apperror"
	"github.com/hostelhub/hostel-api/internal/service"
)

func (h *Handler) listHostels(c *gin.Context) {
	filter, err := hostelFilter(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	hostels, err := h.svc.Listing.ListPublicHostels(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, hostels, "")
}

func (h *Handler) getHostel(c *gin.Context) {
	id, ok := h.pathID(c, "id", "hostel")
	if !ok {
		return
	}

	detail, err := h.svc.Listing.GetHostel(c.Request.Context(), actor(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, detail, "")
}

func (h *Handler) createHostel(c *gin.Context) {
	var in service.HostelInput
	if !h.bind(c, &in) {
		return
	}

	hostel, err := h.svc.Listing.CreateHostel(c.Request.Context(), actor(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusCreated, hostel, "Hostel submitted for verification")
}

func (h *Handler) updateHostel(c *gin.Context) {
	id, ok := h.pathID(c, "id", "hostel")
	if !ok {
		return
	}

	var in service.HostelInput
	if !h.bind(c, &in) {
		return
	}

	hostel, err := h.svc.Listing.UpdateHostel(c.Request.Context(), actor(c), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, hostel, "Hostel updated")
}

func (h *Handler) deleteHostel(c *gin.Context) {
	id, ok := h.pathID(c, "id", "hostel")
	if !ok {
		return
	}

	if err := h.svc.Listing.DeleteHostel(c.Request.Context(), actor(c), id); err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, nil, "Hostel deleted")
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) disableHostel(c *gin.Context) {
	h.setHostelActive(c, false)
}

func (h *Handler) enableHostel(c *gin.Context) {
	h.setHostelActive(c, true)
}

func (h *Handler) setHostelActive(c *gin.Context, active bool) {
	id, ok := h.pathID(c, "id", "hostel")
	if !ok {
		return
	}

	var body reasonRequest
	if c.Request.ContentLength > 0 && !h.bind(c, &body) {
		return
	}

	hostel, err := h.svc.Listing.SetHostelActive(c.Request.Context(), actor(c), id, active, body.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}

	message := "Hostel enabled"
	if !active {
		message = "Hostel disabled"
	}
	respond(c, http.StatusOK, hostel, message)
}

func (h *Handler) landlordDashboard(c *gin.Context) {
	dashboard, err := h.svc.Listing.LandlordDashboard(c.Request.Context(), actor(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, dashboard, "")
}

func (h *Handler) addRoom(c *gin.Context) {
	hostelID, ok := h.pathID(c, "id", "hostel")
	if !ok {
		return
	}

	var in service.RoomInput
	if !h.bind(c, &in) {
		return
	}

	room, err := h.svc.Listing.AddRoom(c.Request.Context(), actor(c), hostelID, in)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusCreated, room, "Room added")
}

func (h *Handler) updateRoom(c *gin.Context) {
	id, ok := h.pathID(c, "id", "room")
	if !ok {
		return
	}

	var in service.RoomInput
	if !h.bind(c, &in) {
		return
	}

	room, err := h.svc.Listing.UpdateRoom(c.Request.Context(), actor(c), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, room, "Room updated")
}

func (h *Handler) deleteRoom(c *gin.Context) {
	id, ok := h.pathID(c, "id", "room")
	if !ok {
		return
	}

	softDeleted, err := h.svc.Listing.DeleteRoom(c.Request.Context(), actor(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	message := "Room deleted"
	if softDeleted {
		message = "Room archived; its booking history is kept"
	}
	respond(c, http.StatusOK, gin.H{"soft_deleted": softDeleted}, message)
}

type availabilityRequest struct {
	Available *bool `json:"available"`
}

func (h *Handler) setRoomAvailability(c *gin.Context) {
	id, ok := h.pathID(c, "id", "room")
	if !ok {
		return
	}

	var body availabilityRequest
	if !h.bind(c, &body) {
		return
	}

	if body.Available == nil {
		h.fail(c, apperror.Field("available", "is required"))
		return
	}

	room, err := h.svc.Listing.ToggleRoomAvailability(c.Request.Context(), actor(c), id, *body.Available)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, room, "Room availability updated")
}

func (h *Handler) estimate(c *gin.Context) {
	id, ok := h.pathID(c, "id", "room")
	if !ok {
		return
	}

	var start, end time.Time
	fields := map[string]string{}
	dateField(fields, "start", c.Query("start"), &start)
	dateField(fields, "end", c.Query("end"), &end)
	if start.IsZero() && fields["start"] == "" {
		fields["start"] = "is required"
	}
	if end.IsZero() && fields["end"] == "" {
		fields["end"] = "is required"
	}
	if len(fields) > 0 {
		h.fail(c, apperror.Validation("validation failed", fields))
		return
	}

	est, err := h.svc.Listing.Estimate(c.Request.Context(), actor(c), id, start, end)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, est, "")
}
