package notification

import "context"

type Notification struct {
	Title string
	Body  string
	Data  map[string]string
}

// Notifier delivers a notification to a single user. Delivery is best effort,
// callers only log the returned error.
type Notifier interface {
	Notify(ctx context.Context, userID string, n Notification) error
}
