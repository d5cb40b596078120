package httpapi

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hostelhub/hostel-api/internal/apperror"
	"github.com/hostelhub/hostel-api/internal/model"
	"github.com/hostelhub/hostel-api/internal/session"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-ID"

	ctxRequestID = "request_id"
	ctxActor     = "actor"
	ctxToken     = "token"
)

// Sessions resolves bearer tokens into sessions
type Sessions interface {
	Get(ctx context.Context, token string) (*session.Session, error)
	Close(ctx context.Context, token string) error
}

// RequestID tags the request with the caller's X-Request-ID or a fresh uuid
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(ctxRequestID)
}

// AccessLog writes one line per request
func AccessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("HTTP request",
			zap.String("request_id", requestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// authenticate resolves the bearer token into an actor. With required false
// a missing token leaves the caller anonymous; a bad token always fails.
func (h *Handler) authenticate(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if required {
				h.fail(c, apperror.Unauthenticated("authentication required"))
				return
			}
			c.Next()
			return
		}

		sess, err := h.sessions.Get(c.Request.Context(), token)
		if err != nil {
			h.fail(c, err)
			return
		}

		c.Set(ctxActor, sess.Actor())
		c.Set(ctxToken, token)
		c.Next()
	}
}

// actor returns the authenticated caller, or the zero actor when anonymous
func actor(c *gin.Context) model.Actor {
	if v, ok := c.Get(ctxActor); ok {
		if a, ok := v.(model.Actor); ok {
			return a
		}
	}
	return model.Actor{}
}
