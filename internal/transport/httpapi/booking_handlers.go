package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hostelhub/hostel-api/internal/apperror"
	"github.com/hostelhub/hostel-api/internal/model"
	"github.com/hostelhub/hostel-api/internal/service"
)

// bookingRequest carries dates as strings so a bare calendar date is accepted.
// Field errors use the service's field names.
type bookingRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func (r bookingRequest) input() (service.BookingInput, error) {
	var in service.BookingInput
	fields := map[string]string{}
	if r.StartDate == "" {
		fields["start_date"] = "is required"
	}
	if r.EndDate == "" {
		fields["end_date"] = "is required"
	}
	dateField(fields, "start_date", r.StartDate, &in.StartDate)
	dateField(fields, "end_date", r.EndDate, &in.EndDate)
	if len(fields) > 0 {
		return in, apperror.Validation("validation failed", fields)
	}
	return in, nil
}

func (h *Handler) bookRoom(c *gin.Context) {
	roomID, ok := h.pathID(c, "id", "room")
	if !ok {
		return
	}

	var body bookingRequest
	if !h.bind(c, &body) {
		return
	}

	in, err := body.input()
	if err != nil {
		h.fail(c, err)
		return
	}

	booking, err := h.svc.Bookings.CreateBooking(c.Request.Context(), actor(c), roomID, in)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusCreated, booking, "Booking request sent")
}

func (h *Handler) getBooking(c *gin.Context) {
	id, ok := h.pathID(c, "id", "booking")
	if !ok {
		return
	}

	booking, err := h.svc.Bookings.GetBooking(c.Request.Context(), actor(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, booking, "")
}

func (h *Handler) decideBooking(c *gin.Context) {
	id, ok := h.pathID(c, "id", "booking")
	if !ok {
		return
	}

	var in service.BookingDecisionInput
	if !h.bind(c, &in) {
		return
	}

	booking, err := h.svc.Bookings.DecideBooking(c.Request.Context(), actor(c), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, booking, "Booking "+string(booking.Status))
}

func (h *Handler) cancelBooking(c *gin.Context) {
	id, ok := h.pathID(c, "id", "booking")
	if !ok {
		return
	}

	var in service.CancelInput
	if c.Request.ContentLength > 0 && !h.bind(c, &in) {
		return
	}

	booking, err := h.svc.Bookings.CancelBooking(c.Request.Context(), actor(c), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, booking, "Booking cancelled")
}

func (h *Handler) studentBookings(c *gin.Context) {
	bookings, err := h.svc.Bookings.ListStudentBookings(c.Request.Context(), actor(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, bookings, "")
}

func (h *Handler) landlordBookings(c *gin.Context) {
	status := model.BookingStatus(c.Query("status"))

	bookings, err := h.svc.Bookings.ListLandlordBookings(c.Request.Context(), actor(c), status)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, bookings, "")
}
