package notifications

import (
	"context"
	"sync"
	"time"
)

// Publisher delivers notifications to whatever sink is wired: Kafka in
// production, memory in tests and dev mode.
type Publisher interface {
	Publish(ctx context.Context, n Notification) error
}

// Memory collects notifications for assertions and for running without a
// broker.
type Memory struct {
	mu   sync.RWMutex
	sent []Notification
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Publish(_ context.Context, n Notification) error {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, n)
	return nil
}

// Sent returns a snapshot of everything published so far.
func (m *Memory) Sent() []Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Notification{}, m.sent...)
}

// SentOf returns published notifications of one kind.
func (m *Memory) SentOf(kind Kind) []Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Notification
	for _, n := range m.sent {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}
