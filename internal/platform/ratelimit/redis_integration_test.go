//go:build integration

package ratelimit_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"showup/internal/platform/ratelimit"
	"showup/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *ratelimit.Redis
	ctx   context.Context
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	s.store = ratelimit.NewRedis(s.redis.Client)
	s.ctx = context.Background()
}

func (s *RedisStoreSuite) TestAllowWithinLimit() {
	for i := range 5 {
		result, err := s.store.Allow(s.ctx, "principal:a", 5, time.Minute)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(5-i-1, result.Remaining)
	}
}

func (s *RedisStoreSuite) TestDeniesOverLimit() {
	for range 3 {
		_, err := s.store.Allow(s.ctx, "principal:a", 3, time.Minute)
		s.Require().NoError(err)
	}
	result, err := s.store.Allow(s.ctx, "principal:a", 3, time.Minute)
	s.Require().NoError(err)
	s.False(result.Allowed)
	s.Equal(0, result.Remaining)
	s.False(result.ResetAt.IsZero())
}

func (s *RedisStoreSuite) TestKeysAreIndependent() {
	for range 3 {
		_, err := s.store.Allow(s.ctx, "principal:a", 3, time.Minute)
		s.Require().NoError(err)
	}
	result, err := s.store.Allow(s.ctx, "principal:b", 3, time.Minute)
	s.Require().NoError(err)
	s.True(result.Allowed)
}

func (s *RedisStoreSuite) TestWindowExpiry() {
	window := 500 * time.Millisecond
	for range 2 {
		_, err := s.store.Allow(s.ctx, "principal:a", 2, window)
		s.Require().NoError(err)
	}
	result, err := s.store.Allow(s.ctx, "principal:a", 2, window)
	s.Require().NoError(err)
	s.False(result.Allowed)

	time.Sleep(window + 100*time.Millisecond)

	result, err = s.store.Allow(s.ctx, "principal:a", 2, window)
	s.Require().NoError(err)
	s.True(result.Allowed)
}

// Counters are shared, so concurrent checks against one key admit at
// most the limit between them.
func (s *RedisStoreSuite) TestConcurrentCallersShareBudget() {
	const workers = 20
	const limit = 5

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := s.store.Allow(s.ctx, "principal:a", limit, time.Minute)
			s.NoError(err)
			if result.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(limit, allowed)
}
