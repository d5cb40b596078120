package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hostelhub/hostel-api/internal/service"
)

func (h *Handler) listReviews(c *gin.Context) {
	hostelID, ok := h.pathID(c, "id", "hostel")
	if !ok {
		return
	}

	reviews, err := h.svc.Reviews.ListReviews(c.Request.Context(), hostelID)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, reviews, "")
}

func (h *Handler) submitReview(c *gin.Context) {
	hostelID, ok := h.pathID(c, "id", "hostel")
	if !ok {
		return
	}

	var in service.ReviewInput
	if !h.bind(c, &in) {
		return
	}

	review, err := h.svc.Reviews.SubmitReview(c.Request.Context(), actor(c), hostelID, in)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusCreated, review, "Review posted")
}

func (h *Handler) updateReview(c *gin.Context) {
	hostelID, ok := h.pathID(c, "id", "hostel")
	if !ok {
		return
	}
	reviewID, ok := h.pathID(c, "reviewId", "review")
	if !ok {
		return
	}

	var in service.ReviewInput
	if !h.bind(c, &in) {
		return
	}

	review, err := h.svc.Reviews.UpdateReview(c.Request.Context(), actor(c), hostelID, reviewID, in)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, review, "Review updated")
}

func (h *Handler) deleteReview(c *gin.Context) {
	hostelID, ok := h.pathID(c, "id", "hostel")
	if !ok {
		return
	}
	reviewID, ok := h.pathID(c, "reviewId", "review")
	if !ok {
		return
	}

	if err := h.svc.Reviews.DeleteReview(c.Request.Context(), actor(c), hostelID, reviewID); err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, nil, "Review deleted")
}

func (h *Handler) fileReport(c *gin.Context) {
	hostelID, ok := h.pathID(c, "id", "hostel")
	if !ok {
		return
	}

	var in service.ReportInput
	if !h.bind(c, &in) {
		return
	}

	report, err := h.svc.Moderation.FileReport(c.Request.Context(), actor(c), hostelID, in)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusCreated, report, "Report submitted")
}
