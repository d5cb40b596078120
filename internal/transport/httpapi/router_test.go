package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/hostelhub/hostel-api/internal/model"
	"github.com/hostelhub/hostel-api/internal/service"
	"github.com/hostelhub/hostel-api/internal/service/servicetest"
	"github.com/hostelhub/hostel-api/internal/session"
	"github.com/hostelhub/hostel-api/internal/validation"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type apiFixture struct {
	db     *servicetest.DB
	tokens *session.TokenManager
	router *gin.Engine
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := servicetest.New()
	logger := zap.NewNop()
	v := validation.New()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	tokens := session.NewTokenManager("api-secret", "hostelhub-test", time.Hour)
	sessions := session.NewStore(client, tokens, db.Users(), logger)

	notifications := service.NewNotificationService(db.Notifications(), logger)
	svc := Services{
		Users:         service.NewUserService(db.Users(), sessions, notifications, v, logger),
		Verification:  service.NewVerificationService(db.Landlords(), db.Hostels(), notifications, v, logger),
		Listing:       service.NewListingService(db.Hostels(), db.Rooms(), db.Landlords(), db.Bookings(), notifications, v, logger),
		Bookings:      service.NewBookingService(db.Bookings(), db.Rooms(), db.Hostels(), db.Landlords(), notifications, v, logger),
		Reviews:       service.NewReviewService(db.Reviews(), db.Hostels(), notifications, v, logger),
		Moderation:    service.NewModerationService(db.Reports(), db.Hostels(), notifications, v, logger),
		Saved:         service.NewSavedHostelService(db.SavedHostels(), db.Hostels(), logger),
		Metrics:       service.NewMetricsService(db.Users(), db.Landlords(), db.Hostels(), db.Bookings(), db.Reports(), logger),
		Notifications: notifications,
	}

	return &apiFixture{
		db:     db,
		tokens: tokens,
		router: NewHandler(svc, sessions, logger).Router(nil),
	}
}

// login seeds an active user and returns a bearer token for it
func (f *apiFixture) login(t *testing.T, role model.Role) (int64, string) {
	t.Helper()
	u := f.db.SeedUser(model.User{Email: string(role) + "@example.com", FullName: "Test", Role: role, Status: model.UserStatusActive})
	token, _, err := f.tokens.Issue(u.ID, u.Role)
	require.NoError(t, err)
	return u.ID, token
}

func (f *apiFixture) landlord(t *testing.T, status model.LandlordVerification) (int64, string) {
	t.Helper()
	id, token := f.login(t, model.RoleLandlord)
	f.db.SeedLandlord(model.LandlordProfile{
		UserID:             id,
		BusinessName:       "Juja Homes",
		ContactPhone:       "+254700000000",
		ContactEmail:       "homes@example.com",
		VerificationStatus: status,
	})
	return id, token
}

func (f *apiFixture) listing(t *testing.T) (string, *model.Hostel, *model.Room) {
	t.Helper()
	landlordID, token := f.landlord(t, model.LandlordVerified)
	h := f.db.SeedHostel(model.Hostel{
		LandlordID:         landlordID,
		Name:               "Sunrise Hostel",
		Type:               model.HostelMixed,
		Address:            model.Address{City: "Juja", County: "Kiambu"},
		Description:        "Close to campus",
		MinPrice:           decimal.NewFromInt(4500),
		IsActive:           true,
		VerificationStatus: model.HostelApproved,
	})
	r := f.db.SeedRoom(model.Room{
		HostelID:     h.ID,
		Type:         model.RoomSingle,
		MonthlyPrice: decimal.NewFromInt(4500),
		IsAvailable:  true,
		IsActive:     true,
	})
	return token, h, r
}

type response struct {
	Code    int
	Header  http.Header
	Data    json.RawMessage   `json:"data"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) response {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	res := response{Code: rec.Code, Header: rec.Header()}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res), rec.Body.String())
	return res
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestHealthzAndRequestID(t *testing.T) {
	f := newAPI(t)

	res := f.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

func TestAuthentication(t *testing.T) {
	f := newAPI(t)

	res := f.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "authentication required", res.Message)

	res = f.do(t, http.MethodGet, "/api/v1/auth/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	id, token := f.login(t, model.RoleStudent)
	res = f.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	me := decode[model.User](t, res.Data)
	assert.Equal(t, id, me.ID)
	assert.Equal(t, model.RoleStudent, me.Role)
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newAPI(t)
	_, token := f.login(t, model.RoleStudent)

	res := f.do(t, http.MethodDelete, "/api/v1/auth/session", token, nil)
	require.Equal(t, http.StatusOK, res.Code)

	res = f.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "session has ended", res.Message)
}

func TestErrorMapping(t *testing.T) {
	f := newAPI(t)
	_, student := f.login(t, model.RoleStudent)

	t.Run("forbidden bodies never explain", func(t *testing.T) {
		res := f.do(t, http.MethodGet, "/api/v1/admin/metrics", student, nil)
		assert.Equal(t, http.StatusForbidden, res.Code)
		assert.Equal(t, "not permitted", res.Message)
	})

	t.Run("non-numeric id is not found", func(t *testing.T) {
		res := f.do(t, http.MethodGet, "/api/v1/hostels/abc", "", nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
		assert.Equal(t, "hostel not found", res.Message)
	})

	t.Run("malformed body", func(t *testing.T) {
		res := f.do(t, http.MethodPost, "/api/v1/hostels", student, "{not json")
		assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
		assert.Equal(t, "malformed request body", res.Message)
	})

	t.Run("bad listing filter", func(t *testing.T) {
		res := f.do(t, http.MethodGet, "/api/v1/hostels?max_price=cheap&type=villa", "", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
		assert.Contains(t, res.Errors, "max_price")
		assert.Contains(t, res.Errors, "type")
	})
}

func TestBookingFlow(t *testing.T) {
	f := newAPI(t)
	landlord, h, room := f.listing(t)
	_, student := f.login(t, model.RoleStudent)

	res := f.do(t, http.MethodGet, "/api/v1/hostels?city=juja", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, decode[[]json.RawMessage](t, res.Data), 1)

	res = f.do(t, http.MethodPost, "/api/v1/rooms/"+itoa(room.ID)+"/book", student, map[string]string{
		"startDate": "2030-02-01",
		"endDate":   "nope",
	})
	require.Equal(t, http.StatusUnprocessableEntity, res.Code)
	assert.Contains(t, res.Errors, "end_date")

	res = f.do(t, http.MethodPost, "/api/v1/rooms/"+itoa(room.ID)+"/book", student, map[string]string{
		"startDate": "2030-02-01",
		"endDate":   "2030-06-30",
	})
	require.Equal(t, http.StatusCreated, res.Code)
	booking := decode[model.Booking](t, res.Data)
	assert.Equal(t, model.BookingPending, booking.Status)

	detail := f.do(t, http.MethodGet, "/api/v1/hostels/"+itoa(h.ID), student, nil)
	require.Equal(t, http.StatusOK, detail.Code)
	assert.NotContains(t, string(detail.Data), "landlord_contact")

	res = f.do(t, http.MethodPatch, "/api/v1/bookings/"+itoa(booking.ID)+"/decision", student, map[string]string{"action": "approve"})
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = f.do(t, http.MethodPatch, "/api/v1/bookings/"+itoa(booking.ID)+"/decision", landlord, map[string]string{"action": "approve"})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, model.BookingApproved, decode[model.Booking](t, res.Data).Status)

	res = f.do(t, http.MethodPatch, "/api/v1/bookings/"+itoa(booking.ID)+"/decision", landlord, map[string]string{"action": "reject", "reason": "Room no longer free"})
	assert.Equal(t, http.StatusConflict, res.Code)

	detail = f.do(t, http.MethodGet, "/api/v1/hostels/"+itoa(h.ID), student, nil)
	require.Equal(t, http.StatusOK, detail.Code)
	assert.Contains(t, string(detail.Data), "homes@example.com")

	res = f.do(t, http.MethodGet, "/api/v1/notifications/unread-count", landlord, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, 1, decode[map[string]int](t, res.Data)["count"])
}

func TestVerifyLandlordStatusMapping(t *testing.T) {
	f := newAPI(t)
	_, admin := f.login(t, model.RoleAdmin)
	landlordID, _ := f.landlord(t, model.LandlordPending)
	path := "/api/v1/landlords/" + itoa(landlordID) + "/verify"

	res := f.do(t, http.MethodPatch, path, admin, map[string]string{"status": "maybe"})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
	assert.Contains(t, res.Errors, "status")

	res = f.do(t, http.MethodPatch, path, admin, map[string]string{"status": "verified"})
	require.Equal(t, http.StatusOK, res.Code)
	profile := decode[model.LandlordProfile](t, res.Data)
	assert.Equal(t, model.LandlordVerified, profile.VerificationStatus)

	res = f.do(t, http.MethodPatch, path, admin, map[string]string{"status": "rejected", "reason": "late"})
	assert.Equal(t, http.StatusConflict, res.Code)
}

func TestSuspendEndsSessions(t *testing.T) {
	f := newAPI(t)
	_, admin := f.login(t, model.RoleAdmin)
	studentID, student := f.login(t, model.RoleStudent)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/v1/auth/me", student, nil).Code)

	res := f.do(t, http.MethodPatch, "/api/v1/admin/users/"+itoa(studentID)+"/suspend", admin, map[string]string{"reason": "   "})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)

	res = f.do(t, http.MethodPatch, "/api/v1/admin/users/"+itoa(studentID)+"/suspend", admin, map[string]string{"reason": "fraud"})
	require.Equal(t, http.StatusOK, res.Code)

	res = f.do(t, http.MethodGet, "/api/v1/students/bookings", student, nil)
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = f.do(t, http.MethodPatch, "/api/v1/admin/users/"+itoa(studentID)+"/suspend", admin, map[string]string{"reason": "again"})
	assert.Equal(t, http.StatusConflict, res.Code)
}

func TestSavedHostels(t *testing.T) {
	f := newAPI(t)
	_, h, _ := f.listing(t)
	_, student := f.login(t, model.RoleStudent)
	path := "/api/v1/students/saved-hostels/" + itoa(h.ID)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, path, student, nil).Code)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, path, student, nil).Code)

	res := f.do(t, http.MethodGet, "/api/v1/students/saved-hostels", student, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, decode[[]json.RawMessage](t, res.Data), 1)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodDelete, path, student, nil).Code)
	res = f.do(t, http.MethodGet, "/api/v1/students/saved-hostels", student, nil)
	assert.Empty(t, decode[[]json.RawMessage](t, res.Data))
}

func TestReportResolutionDisablesListing(t *testing.T) {
	f := newAPI(t)
	_, h, _ := f.listing(t)
	_, student := f.login(t, model.RoleStudent)
	_, admin := f.login(t, model.RoleAdmin)

	res := f.do(t, http.MethodPost, "/api/v1/hostels/"+itoa(h.ID)+"/reports", student, map[string]string{
		"reason":      "scam",
		"description": "Asked for a deposit before any viewing",
	})
	require.Equal(t, http.StatusCreated, res.Code)
	report := decode[model.Report](t, res.Data)

	path := "/api/v1/admin/reports/" + itoa(report.ID)

	res = f.do(t, http.MethodPatch, path, student, map[string]any{"status": "resolved"})
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = f.do(t, http.MethodPatch, path, admin, map[string]any{
		"status":         "resolved",
		"adminNotes":     "Confirmed scam",
		"disableListing": true,
	})
	require.Equal(t, http.StatusOK, res.Code)

	res = f.do(t, http.MethodGet, "/api/v1/hostels/"+itoa(h.ID), student, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = f.do(t, http.MethodGet, "/api/v1/admin/reports?status=resolved", admin, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, decode[[]json.RawMessage](t, res.Data), 1)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
