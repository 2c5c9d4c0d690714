package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/redis/go-redis/v9"
)

const verificationKeyPrefix = "email_verification:"

// RedisTokenStore keeps email verification tokens as expiring Redis keys.
// GETDEL makes consumption single-use even under concurrent verification.
type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (r *RedisTokenStore) Save(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	if err := r.client.Set(ctx, verificationKeyPrefix+token, userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store verification token: %w", err)
	}
	return nil
}

func (r *RedisTokenStore) Consume(ctx context.Context, token string) (uint, error) {
	val, err := r.client.GetDel(ctx, verificationKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, repositories.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to consume verification token: %w", err)
	}

	userID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt verification token value %q: %w", val, err)
	}
	return uint(userID), nil
}
