package testutil

import (
	"context"
	"sync"

	"github.com/mushroomhunter/backend/pkg/pubsub"
)

type MockPublisher struct {
	PublishFunc func(context.Context, string, *pubsub.Pack) error

	mu    sync.Mutex
	packs []*pubsub.Pack
}

// Publish records the pack, then calls PublishFunc if it is set.
func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	m.mu.Lock()
	m.packs = append(m.packs, pack)
	m.mu.Unlock()

	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	return nil
}

func (m *MockPublisher) Packs() []*pubsub.Pack {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]*pubsub.Pack(nil), m.packs...)
}
