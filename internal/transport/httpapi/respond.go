package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hostelhub/hostel-api/internal/apperror"
	"go.uber.org/zap"
)

// envelope wraps every successful response
type envelope struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// errorBody is the shape of every non-2xx response
type errorBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, envelope{Data: data, Message: message})
}

func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusUnprocessableEntity
	case apperror.KindInvalidTransition, apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperror.KindAuthorization:
		return http.StatusForbidden
	case apperror.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusServiceUnavailable
	}
}

// fail writes err as an error body. Unclassified errors are infrastructure
// failures: they are logged and reported as temporarily unavailable.
func (h *Handler) fail(c *gin.Context, err error) {
	kind := apperror.KindOf(err)
	status := statusFor(kind)

	body := errorBody{Message: err.Error(), Errors: apperror.FieldsOf(err)}

	switch kind {
	case apperror.KindInternal, apperror.KindTransient:
		h.logger.Error("Request failed",
			zap.String("request_id", requestID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		body = errorBody{Message: "temporarily unavailable, please retry"}
	case apperror.KindAuthorization:
		body = errorBody{Message: apperror.NotPermitted}
	}

	c.AbortWithStatusJSON(status, body)
}

// bind decodes the JSON body into dst, failing the request on malformed input
func (h *Handler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.fail(c, apperror.Validation("malformed request body", nil))
		return false
	}
	return true
}
