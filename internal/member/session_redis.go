package member

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "shop:session:"

// RedisSessions keeps session tokens in redis so they survive restarts
// and are shared across replicas.
type RedisSessions struct {
	rdb *redis.Client
}

func NewRedisSessions(rdb *redis.Client) *RedisSessions {
	return &RedisSessions{rdb: rdb}
}

func (s *RedisSessions) Save(ctx context.Context, token, memberID string, ttl time.Duration) error {
	return s.rdb.Set(ctx, sessionKeyPrefix+token, memberID, ttl).Err()
}

func (s *RedisSessions) Get(ctx context.Context, token string) (string, error) {
	v, err := s.rdb.Get(ctx, sessionKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *RedisSessions) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+token).Err()
}
