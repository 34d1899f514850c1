package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// ErrCacheMiss is returned for absent keys and whenever the breaker is
// open; callers fall through to the database either way.
var ErrCacheMiss = errors.New("cache miss")

// CacheService wraps redis behind a circuit breaker so an unhealthy
// cache degrades to database reads instead of stalling every request.
// A nil client disables caching entirely (tests, minimal deployments).
type CacheService struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker
	logger  *logrus.Logger
}

func NewCacheService(client *redis.Client, logger *logrus.Logger) *CacheService {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "redis",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Cache circuit breaker state changed")
		},
	})

	return &CacheService{
		client:  client,
		breaker: breaker,
		logger:  logger,
	}
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	if s == nil || s.client == nil {
		return ErrCacheMiss
	}

	data, err := s.breaker.Execute(func() (interface{}, error) {
		raw, err := s.client.Get(ctx, key).Result()
		if err == redis.Nil {
			// A miss is a normal outcome, not a breaker failure.
			return nil, nil
		}
		return raw, err
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get cache: %w", err)
	}
	if data == nil {
		return ErrCacheMiss
	}

	if err := json.Unmarshal([]byte(data.(string)), dest); err != nil {
		return fmt.Errorf("failed to unmarshal cached value: %w", err)
	}
	return nil
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if s == nil || s.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if _, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, key, data, expiration).Err()
	}); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if s == nil || s.client == nil {
		return nil
	}

	if _, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.client.Del(ctx, keys...).Err()
	}); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

// RecentRoundsCacheKey keys the recent-rounds listing for a user.
func RecentRoundsCacheKey(userID uuid.UUID, limit int) string {
	return fmt.Sprintf("rounds:recent:%s:%d", userID, limit)
}

// RecentRoundsInvalidationPattern covers every cached limit for a
// user.
func recentRoundsKeys(userID uuid.UUID) []string {
	// Listings are only requested with a handful of limits; delete the
	// common ones rather than running a SCAN.
	keys := make([]string, 0, 4)
	for _, limit := range []int{5, 10, 20, 50} {
		keys = append(keys, RecentRoundsCacheKey(userID, limit))
	}
	return keys
}
