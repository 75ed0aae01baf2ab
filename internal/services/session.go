package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/feedback-notes/internal/models"
)

const (
	// SessionKeyPrefix is the Redis key prefix for sessions
	SessionKeyPrefix = "session:"
	// UserSessionKeyPrefix is the Redis key prefix for user->session mapping
	UserSessionKeyPrefix = "user_session:"
	// FlashKeyPrefix is the Redis key prefix for pending flash messages
	FlashKeyPrefix = "flash:"
	// FlashTTL bounds how long an unread flash survives
	FlashTTL = 10 * time.Minute
)

// SessionStore keeps authenticated sessions and flash messages in Redis.
// A user has at most one live session; logging in again replaces it.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

// TTL is how long an authenticated session lives.
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

// NewSessionToken returns a random URL-safe token.
func NewSessionToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(tokenBytes), nil
}

// Login creates a fresh session for username and returns its token.
// Any earlier session of the same user is invalidated.
func (s *SessionStore) Login(ctx context.Context, username string) (string, error) {
	if err := s.InvalidateUser(ctx, username); err != nil {
		return "", err
	}

	token, err := NewSessionToken()
	if err != nil {
		return "", err
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, SessionKeyPrefix+token, username, s.ttl)
	pipe.Set(ctx, UserSessionKeyPrefix+username, token, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Load returns the username bound to token. ok is false for anonymous tokens.
func (s *SessionStore) Load(ctx context.Context, token string) (username string, ok bool, err error) {
	if token == "" {
		return "", false, nil
	}
	username, err = s.rdb.Get(ctx, SessionKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return username, true, nil
}

// Logout unbinds token from its user. The token itself stays usable for flashes.
func (s *SessionStore) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	sessionKey := SessionKeyPrefix + token

	username, err := s.rdb.Get(ctx, sessionKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if username != "" {
		// Only drop the reverse mapping if it still points at this token.
		userKey := UserSessionKeyPrefix + username
		if current, _ := s.rdb.Get(ctx, userKey).Result(); current == token {
			if err := s.rdb.Del(ctx, userKey).Err(); err != nil {
				return err
			}
		}
	}
	return s.rdb.Del(ctx, sessionKey).Err()
}

// InvalidateUser ends the live session of username, if any.
func (s *SessionStore) InvalidateUser(ctx context.Context, username string) error {
	userKey := UserSessionKeyPrefix + username

	token, err := s.rdb.Get(ctx, userKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	keys := []string{userKey}
	if token != "" {
		keys = append(keys, SessionKeyPrefix+token)
	}
	return s.rdb.Del(ctx, keys...).Err()
}

// AddFlash queues a message for the next page rendered with token.
func (s *SessionStore) AddFlash(ctx context.Context, token string, flash models.Flash) error {
	payload, err := json.Marshal(flash)
	if err != nil {
		return err
	}
	key := FlashKeyPrefix + token

	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, key, payload)
	pipe.Expire(ctx, key, FlashTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// PopFlashes returns and clears queued messages in the order they were added.
func (s *SessionStore) PopFlashes(ctx context.Context, token string) ([]models.Flash, error) {
	if token == "" {
		return nil, nil
	}
	key := FlashKeyPrefix + token

	pipe := s.rdb.TxPipeline()
	values := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	flashes := make([]models.Flash, 0, len(values.Val()))
	for _, raw := range values.Val() {
		var f models.Flash
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			continue
		}
		flashes = append(flashes, f)
	}
	return flashes, nil
}
