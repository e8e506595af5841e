package testutil

import (
	"context"

	"github.com/mushroomhunter/backend/pkg/notification"
)

type MockNotifier struct {
	NotifyFunc func(ctx context.Context, userID string, n notification.Notification) error
}

func (m *MockNotifier) Notify(ctx context.Context, userID string, n notification.Notification) error {
	if m.NotifyFunc != nil {
		return m.NotifyFunc(ctx, userID, n)
	}

	return nil
}
