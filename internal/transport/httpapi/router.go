// Package httpapi exposes the marketplace services as a JSON API over gin.
package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hostelhub/hostel-api/internal/apperror"
	"github.com/hostelhub/hostel-api/internal/service"
	"go.uber.org/zap"
)

// Services are the domain services the API dispatches to
type Services struct {
	Users         *service.UserService
	Verification  *service.VerificationService
	Listing       *service.ListingService
	Bookings      *service.BookingService
	Reviews       *service.ReviewService
	Moderation    *service.ModerationService
	Saved         *service.SavedHostelService
	Metrics       *service.MetricsService
	Notifications *service.NotificationService
}

type Handler struct {
	svc      Services
	sessions Sessions
	logger   *zap.Logger
}

func NewHandler(svc Services, sessions Sessions, logger *zap.Logger) *Handler {
	return &Handler{
		svc:      svc,
		sessions: sessions,
		logger:   logger,
	}
}

// Router builds the gin engine with every route under /api/v1
func (h *Handler) Router(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		h.logger.Error("Panic recovered",
			zap.String("request_id", requestID(c)),
			zap.Any("panic", recovered),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{Message: "internal error"})
	}))
	r.Use(RequestID(), AccessLog(h.logger))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		respond(c, http.StatusOK, gin.H{"status": "ok"}, "")
	})

	api := r.Group("/api/v1")

	public := api.Group("", h.authenticate(false))
	public.GET("/hostels", h.listHostels)
	public.GET("/hostels/:id", h.getHostel)
	public.GET("/hostels/:id/reviews", h.listReviews)
	public.GET("/rooms/:id/estimate", h.estimate)

	auth := api.Group("", h.authenticate(true))

	auth.GET("/auth/me", h.me)
	auth.DELETE("/auth/session", h.logout)

	auth.POST("/hostels", h.createHostel)
	auth.PUT("/hostels/:id", h.updateHostel)
	auth.DELETE("/hostels/:id", h.deleteHostel)
	auth.PATCH("/hostels/:id/disable", h.disableHostel)
	auth.PATCH("/hostels/:id/enable", h.enableHostel)
	auth.PATCH("/hostels/:id/verify", h.verifyHostel)
	auth.PATCH("/hostels/:id/resubmit", h.resubmitHostel)
	auth.POST("/hostels/:id/rooms", h.addRoom)
	auth.POST("/hostels/:id/reviews", h.submitReview)
	auth.PUT("/hostels/:id/reviews/:reviewId", h.updateReview)
	auth.DELETE("/hostels/:id/reviews/:reviewId", h.deleteReview)
	auth.POST("/hostels/:id/reports", h.fileReport)

	auth.PUT("/rooms/:id", h.updateRoom)
	auth.DELETE("/rooms/:id", h.deleteRoom)
	auth.PATCH("/rooms/:id/availability", h.setRoomAvailability)
	auth.POST("/rooms/:id/book", h.bookRoom)

	auth.GET("/bookings/:id", h.getBooking)
	auth.PATCH("/bookings/:id/decision", h.decideBooking)
	auth.PATCH("/bookings/:id/cancel", h.cancelBooking)

	auth.GET("/students/bookings", h.studentBookings)
	auth.GET("/students/saved-hostels", h.listSaved)
	auth.POST("/students/saved-hostels/:hostelId", h.saveHostel)
	auth.DELETE("/students/saved-hostels/:hostelId", h.unsaveHostel)

	auth.GET("/landlords/bookings", h.landlordBookings)
	auth.GET("/landlords/dashboard", h.landlordDashboard)
	auth.PATCH("/landlords/me/resubmit", h.resubmitLandlord)
	auth.PATCH("/landlords/:id/verify", h.verifyLandlord)

	auth.GET("/notifications", h.listNotifications)
	auth.GET("/notifications/unread-count", h.unreadCount)
	auth.PATCH("/notifications/read-all", h.markAllRead)
	auth.PATCH("/notifications/:id/read", h.markRead)

	admin := auth.Group("/admin")
	admin.GET("/metrics", h.metrics)
	admin.GET("/landlords/pending", h.pendingLandlords)
	admin.GET("/hostels", h.hostelQueue)
	admin.GET("/reports", h.listReports)
	admin.PATCH("/reports/:id", h.updateReport)
	admin.PATCH("/users/:id/activate", h.activateUser)
	admin.PATCH("/users/:id/suspend", h.suspendUser)
	admin.PATCH("/users/:id/reactivate", h.reactivateUser)

	return r
}

// pathID parses a numeric path parameter. Anything else names no entity.
func (h *Handler) pathID(c *gin.Context, name, entity string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		h.fail(c, apperror.NotFound(entity))
		return 0, false
	}
	return id, true
}
