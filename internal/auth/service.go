package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/luketurner/exercise-tracker/pkg"

	"github.com/go-redis/redis/v8"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "exercise-tracker-session||"
	tokenLength      = 35
)

var ErrNotLoggedIn = errors.New("not logged in")

// Service keeps login sessions in redis: one key per session token,
// holding the user id, expired by redis itself via the session TTL.
type Service struct {
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewService(
	ttl time.Duration,
	redisClient *redis.Client,
) *Service {
	return &Service{
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

func (s *Service) Login(ctx context.Context, userID string) (string, error) {
	token, err := s.RandStringFunc(tokenLength)
	if err != nil {
		return "", err
	}

	sessionKey := sessionKeyPrefix + token
	if err := s.redisClient.Set(ctx, sessionKey, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return token, nil
}

func (s *Service) Logout(ctx context.Context, token string) (bool, error) {
	sessionKey := sessionKeyPrefix + token
	removed, err := s.redisClient.Del(ctx, sessionKey).Result()
	if err != nil {
		return false, err
	}
	return removed > 0, nil
}

// UserIDForToken resolves a session token to the logged in user.
// Expired sessions are gone from redis, so they surface the same way
// as tokens that never existed.
func (s *Service) UserIDForToken(ctx context.Context, token string) (string, error) {
	sessionKey := sessionKeyPrefix + token
	userID, err := s.redisClient.Get(ctx, sessionKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotLoggedIn
		}
		return "", err
	}
	if userID == "" {
		return "", ErrNotLoggedIn
	}
	return userID, nil
}
