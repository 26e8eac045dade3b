package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "blacklist:"

// TokenStorage keeps logged-out access tokens until their natural expiry.
type TokenStorage struct {
	client *redis.Client
}

func NewTokenStorage(client *redis.Client) *TokenStorage {
	return &TokenStorage{client: client}
}

func (s *TokenStorage) InvalidateToken(ctx context.Context, token string, expiration time.Duration) error {
	if expiration <= 0 {
		// already expired, nothing to blacklist
		return nil
	}
	return s.client.Set(ctx, blacklistPrefix+token, "invalidated", expiration).Err()
}

func (s *TokenStorage) IsTokenInvalidated(ctx context.Context, token string) (bool, error) {
	result, err := s.client.Get(ctx, blacklistPrefix+token).Result()
	if err == redis.Nil {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return result == "invalidated", nil
}
