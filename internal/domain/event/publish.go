package event

import (
	"context"
	"encoding/json"

	"github.com/mushroomhunter/backend/pkg/pubsub"
	"github.com/mushroomhunter/backend/pkg/xcontext"
)

// Publish sends events in order to the topic, keyed by user so that events of
// the same user stay ordered in a partition. Failures are logged only, events
// are notifications and never block the write path.
func Publish(ctx context.Context, publisher pubsub.Publisher, topic string, events ...Event) {
	if publisher == nil {
		return
	}

	for _, e := range events {
		b, err := json.Marshal(e)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot marshal event %s: %v", e.Kind, err)
			continue
		}

		err = publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(e.UserID), Msg: b})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot publish event %s of user %s: %v", e.Kind, e.UserID, err)
		}
	}
}

func Parse(pack *pubsub.Pack) (Event, error) {
	var e Event
	if err := json.Unmarshal(pack.Msg, &e); err != nil {
		return Event{}, err
	}

	return e, nil
}
