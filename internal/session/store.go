// Package session turns bearer tokens into actors. Verified sessions are
// cached in Redis; logout and suspension remove them there.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hostelhub/hostel-api/internal/apperror"
	"github.com/hostelhub/hostel-api/internal/model"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultMaxTTL caps how long a cached session may hide a status change
const DefaultMaxTTL = 15 * time.Minute

type UserLoader interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// Session is the cached result of opening a token
type Session struct {
	ID        string           `json:"id"`
	UserID    int64            `json:"user_id"`
	Role      model.Role       `json:"role"`
	Status    model.UserStatus `json:"status"`
	ExpiresAt time.Time        `json:"expires_at"`
}

func (s *Session) Actor() model.Actor {
	return model.Actor{UserID: s.UserID, Role: s.Role, Status: s.Status}
}

type Store struct {
	client *redis.Client
	tokens *TokenManager
	users  UserLoader
	logger *zap.Logger
	maxTTL time.Duration
}

func NewStore(client *redis.Client, tokens *TokenManager, users UserLoader, logger *zap.Logger) *Store {
	return &Store{
		client: client,
		tokens: tokens,
		users:  users,
		logger: logger,
		maxTTL: DefaultMaxTTL,
	}
}

func sessionKey(id string) string { return "session:" + id }
func revokedKey(id string) string { return "session:revoked:" + id }
func userKey(userID int64) string { return fmt.Sprintf("session:user:%d", userID) }

func unauthenticated(err error) error {
	if errors.Is(err, ErrExpiredToken) {
		return apperror.Unauthenticated("token has expired")
	}
	return apperror.Unauthenticated("invalid token")
}

// Open verifies the token, rejects revoked ids, reloads the user and caches
// the session for the remaining token lifetime, capped at maxTTL.
func (s *Store) Open(ctx context.Context, token string) (*Session, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, unauthenticated(err)
	}

	return s.open(ctx, claims)
}

func (s *Store) open(ctx context.Context, claims *Claims) (*Session, error) {
	revoked, err := s.client.Exists(ctx, revokedKey(claims.ID)).Result()
	if err != nil {
		return nil, fmt.Errorf("check revoked session: %w", err)
	}

	if revoked > 0 {
		return nil, apperror.Unauthenticated("session has ended")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if user == nil {
		return nil, apperror.Unauthenticated("account not found")
	}

	sess := &Session{
		ID:        claims.ID,
		UserID:    user.ID,
		Role:      user.Role,
		Status:    user.Status,
		ExpiresAt: claims.ExpiresAt.Time,
	}

	lifetime := time.Until(sess.ExpiresAt)
	if lifetime <= 0 {
		return nil, apperror.Unauthenticated("token has expired")
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(sess.ID), payload, min(lifetime, s.maxTTL))
		pipe.SAdd(ctx, userKey(sess.UserID), sess.ID)
		// the index lives as long as the longest session it lists
		pipe.ExpireNX(ctx, userKey(sess.UserID), lifetime)
		pipe.ExpireGT(ctx, userKey(sess.UserID), lifetime)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cache session: %w", err)
	}

	s.logger.Debug("Session opened",
		zap.String("session_id", sess.ID),
		zap.Int64("user_id", sess.UserID),
	)

	return sess, nil
}

// Get returns the cached session for the token, opening it again when the
// cache has expired or was evicted
func (s *Store) Get(ctx context.Context, token string) (*Session, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, unauthenticated(err)
	}

	raw, err := s.client.Get(ctx, sessionKey(claims.ID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return s.open(ctx, claims)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		s.logger.Warn("Dropping unreadable session", zap.String("session_id", claims.ID), zap.Error(err))
		return s.open(ctx, claims)
	}

	return &sess, nil
}

// Close logs the token out: the cached session is deleted and its id is
// revoked for the rest of the token lifetime, in one MULTI/EXEC
func (s *Store) Close(ctx context.Context, token string) error {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return unauthenticated(err)
	}

	lifetime := time.Until(claims.ExpiresAt.Time)

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(claims.ID))
		pipe.SRem(ctx, userKey(claims.UserID), claims.ID)
		pipe.Set(ctx, revokedKey(claims.ID), "1", lifetime)
		return nil
	})
	if err != nil {
		return fmt.Errorf("close session: %w", err)
	}

	s.logger.Info("Session closed",
		zap.String("session_id", claims.ID),
		zap.Int64("user_id", claims.UserID),
	)

	return nil
}

// EvictUser drops every cached session of the user. Tokens stay valid; the
// next request reloads the user and sees the new status.
func (s *Store) EvictUser(ctx context.Context, userID int64) error {
	ids, err := s.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("list user sessions: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, userKey(userID))

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("evict user sessions: %w", err)
	}

	s.logger.Info("User sessions evicted",
		zap.Int64("user_id", userID),
		zap.Int("sessions", len(ids)),
	)

	return nil
}
