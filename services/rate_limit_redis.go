package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/printvault/printvault_api/dto"
)

const redisBucketPrefix = "ratelimit:download:"

// RedisBucketStore keys one counter per identity with the window as TTL, so
// every instance pointed at the same redis shares one budget. INCR is
// atomic server-side; concurrent consumers for the last slot cannot both be
// admitted.
type RedisBucketStore struct {
	client *redis.Client
}

func NewRedisBucketStore(client *redis.Client) *RedisBucketStore {
	return &RedisBucketStore{client: client}
}

func (s *RedisBucketStore) Consume(identity string, limit int, window time.Duration) (dto.RateLimitInfo, error) {
	ctx := context.Background()
	key := redisBucketPrefix + identity

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return dto.RateLimitInfo{}, err
	}

	if count == 1 {
		if err := s.client.PExpire(ctx, key, window).Err(); err != nil {
			return dto.RateLimitInfo{}, err
		}
	}

	ttl, err := s.client.PTTL(ctx, key).Result()
	if err != nil {
		return dto.RateLimitInfo{}, err
	}
	if ttl < 0 {
		// Expiry was lost (e.g. the key predates this code); restore it so
		// the bucket cannot live forever.
		ttl = window
		if err := s.client.PExpire(ctx, key, window).Err(); err != nil {
			return dto.RateLimitInfo{}, err
		}
	}

	resetAt := time.Now().Add(ttl)

	if int(count) > limit {
		return dto.RateLimitInfo{
			Allowed:   false,
			Limit:     limit,
			Remaining: 0,
			ResetTime: resetAt,
		}, nil
	}

	return dto.RateLimitInfo{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - int(count),
		ResetTime: resetAt,
	}, nil
}

func (s *RedisBucketStore) Remove(identity string) error {
	return s.client.Del(context.Background(), redisBucketPrefix+identity).Err()
}

func (s *RedisBucketStore) Len() int {
	return -1
}
