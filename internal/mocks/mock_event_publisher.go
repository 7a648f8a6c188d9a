package mocks

import (
	"context"
	"sync"

	"github.com/you/identitysvc/domain"
)

// MockEventPublisher implements domain.EventPublisher for testing. By
// default it records published events for later inspection.
type MockEventPublisher struct {
	PublishFunc func(ctx context.Context, event *domain.Event) error

	mu     sync.Mutex
	events []*domain.Event
}

func (m *MockEventPublisher) Publish(ctx context.Context, event *domain.Event) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Published returns a snapshot of recorded events.
func (m *MockEventPublisher) Published() []*domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Event, len(m.events))
	copy(out, m.events)
	return out
}

// PublishedTypes returns the recorded event types in order.
func (m *MockEventPublisher) PublishedTypes() []domain.EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]domain.EventType, 0, len(m.events))
	for _, e := range m.events {
		types = append(types, e.Type)
	}
	return types
}
