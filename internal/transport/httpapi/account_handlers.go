package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) me(c *gin.Context) {
	user, err := h.svc.Users.Me(c.Request.Context(), actor(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, user, "")
}

// logout revokes the bearer token the request was made with
func (h *Handler) logout(c *gin.Context) {
	if err := h.sessions.Close(c.Request.Context(), c.GetString(ctxToken)); err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, nil, "Signed out")
}

func (h *Handler) resubmitLandlord(c *gin.Context) {
	profile, err := h.svc.Verification.ResubmitLandlord(c.Request.Context(), actor(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, profile, "Profile resubmitted for verification")
}

func (h *Handler) listSaved(c *gin.Context) {
	saved, err := h.svc.Saved.List(c.Request.Context(), actor(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, saved, "")
}

func (h *Handler) saveHostel(c *gin.Context) {
	hostelID, ok := h.pathID(c, "hostelId", "hostel")
	if !ok {
		return
	}

	if err := h.svc.Saved.Save(c.Request.Context(), actor(c), hostelID); err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, nil, "Hostel saved")
}

func (h *Handler) unsaveHostel(c *gin.Context) {
	hostelID, ok := h.pathID(c, "hostelId", "hostel")
	if !ok {
		return
	}

	if err := h.svc.Saved.Remove(c.Request.Context(), actor(c), hostelID); err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, nil, "Hostel removed from saved")
}

func (h *Handler) listNotifications(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"

	notifications, err := h.svc.Notifications.List(c.Request.Context(), actor(c), unreadOnly)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, notifications, "")
}

func (h *Handler) unreadCount(c *gin.Context) {
	n, err := h.svc.Notifications.UnreadCount(c.Request.Context(), actor(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"count": n}, "")
}

func (h *Handler) markRead(c *gin.Context) {
	id, ok := h.pathID(c, "id", "notification")
	if !ok {
		return
	}

	if err := h.svc.Notifications.MarkRead(c.Request.Context(), actor(c), id); err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, nil, "Notification marked as read")
}

func (h *Handler) markAllRead(c *gin.Context) {
	n, err := h.svc.Notifications.MarkAllRead(c.Request.Context(), actor(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"updated": n}, "Notifications marked as read")
}
