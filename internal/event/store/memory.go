package store

import (
	"context"
	"sync"

	"showup/internal/event/models"
	id "showup/pkg/domain"
	"showup/pkg/platform/sentinel"
)

// InMemory keeps event records in a mutex-guarded map. It favors clarity
// over performance and backs unit tests and single-node deployments.
type InMemory struct {
	mu     sync.RWMutex
	events map[id.EventID]*models.Event
}

func NewInMemory() *InMemory {
	return &InMemory{events: make(map[id.EventID]*models.Event)}
}

func (s *InMemory) Create(_ context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.events[event.ID]; exists {
		return sentinel.ErrAlreadyUsed
	}
	s.events[event.ID] = event.Clone()
	return nil
}

func (s *InMemory) FindByID(_ context.Context, eventID id.EventID) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, ok := s.events[eventID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return event.Clone(), nil
}

func (s *InMemory) Execute(_ context.Context, eventID id.EventID, validate func(*models.Event) error, mutate func(*models.Event)) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[eventID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(event); err != nil {
		return nil, err
	}
	mutate(event)
	return event.Clone(), nil
}
