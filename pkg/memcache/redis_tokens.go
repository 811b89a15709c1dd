package mem

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenKeyPrefix = "gynergy:login:"

// RedisTokens is a TokenStore shared by every API instance.
type RedisTokens struct {
	rdb *redis.Client
}

func NewRedisTokens(rdb *redis.Client) *RedisTokens {
	return &RedisTokens{rdb: rdb}
}

func (s *RedisTokens) Set(ctx context.Context, token string, accountEmail string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, tokenKeyPrefix+token, accountEmail, ttl).Err(); err != nil {
		return fmt.Errorf("store login token: %w", err)
	}
	return nil
}

func (s *RedisTokens) Consume(ctx context.Context, token string) (string, error) {
	email, err := s.rdb.GetDel(ctx, tokenKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("consume login token: %w", err)
	}
	return email, nil
}
