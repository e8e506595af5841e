package notification

import (
	"context"

	"github.com/mushroomhunter/backend/pkg/xcontext"
)

type logNotifier struct{}

// NewLogNotifier returns a Notifier which only writes notifications to the
// context logger. It is used when no push provider is configured.
func NewLogNotifier() *logNotifier {
	return &logNotifier{}
}

func (logNotifier) Notify(ctx context.Context, userID string, n Notification) error {
	xcontext.Logger(ctx).Infof("Notify %s: %s | %s", userID, n.Title, n.Body)
	return nil
}
