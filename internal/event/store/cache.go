package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"showup/internal/event/models"
	id "showup/pkg/domain"
)

// cacheTTL bounds staleness for readers that bypass this process. Writes
// through this store invalidate eagerly, so the TTL only matters when
// another instance mutates the same record.
const cacheTTL = 30 * time.Second

// CachedStore decorates a Store with a Redis read-through cache for
// FindByID, the hot path for indexers resolving data references. Mutations
// pass through and invalidate.
type CachedStore struct {
	inner  Store
	client *redis.Client
	logger *slog.Logger
}

func NewCached(inner Store, client *redis.Client, logger *slog.Logger) *CachedStore {
	return &CachedStore{inner: inner, client: client, logger: logger}
}

func cacheKey(eventID id.EventID) string {
	return "event:" + eventID.String()
}

func (s *CachedStore) Create(ctx context.Context, event *models.Event) error {
	if err := s.inner.Create(ctx, event); err != nil {
		return err
	}
	s.invalidate(ctx, event.ID)
	return nil
}

func (s *CachedStore) FindByID(ctx context.Context, eventID id.EventID) (*models.Event, error) {
	raw, err := s.client.Get(ctx, cacheKey(eventID)).Bytes()
	if err == nil {
		var event models.Event
		if err := json.Unmarshal(raw, &event); err == nil {
			return &event, nil
		}
		// Corrupt entry: fall through to the source of truth.
		s.invalidate(ctx, eventID)
	} else if !errors.Is(err, redis.Nil) {
		s.logger.WarnContext(ctx, "event cache read failed", "event_id", eventID, "error", err)
	}

	event, err := s.inner.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(event); err == nil {
		if err := s.client.Set(ctx, cacheKey(eventID), raw, cacheTTL).Err(); err != nil {
			s.logger.WarnContext(ctx, "event cache write failed", "event_id", eventID, "error", err)
		}
	}
	return event, nil
}

func (s *CachedStore) Execute(ctx context.Context, eventID id.EventID, validate func(*models.Event) error, mutate func(*models.Event)) (*models.Event, error) {
	event, err := s.inner.Execute(ctx, eventID, validate, mutate)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, eventID)
	return event, nil
}

func (s *CachedStore) invalidate(ctx context.Context, eventID id.EventID) {
	if err := s.client.Del(ctx, cacheKey(eventID)).Err(); err != nil {
		s.logger.WarnContext(ctx, "event cache invalidation failed", "event_id", eventID, "error", err)
	}
}
