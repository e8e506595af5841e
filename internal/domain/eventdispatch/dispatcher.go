package eventdispatch

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/mushroomhunter/backend/internal/domain/event"
	"github.com/mushroomhunter/backend/pkg/notification"
	"github.com/mushroomhunter/backend/pkg/pubsub"
	"github.com/mushroomhunter/backend/pkg/xcontext"
)

// Dispatcher turns domain events consumed from the event topic into push
// notifications. Events without a user facing message are skipped.
type Dispatcher struct {
	notifier notification.Notifier
}

func New(notifier notification.Notifier) *Dispatcher {
	return &Dispatcher{notifier: notifier}
}

// Subscribe has the signature of pubsub.SubscribeHandler.
func (d *Dispatcher) Subscribe(ctx context.Context, topic string, pack *pubsub.Pack, t time.Time) {
	e, err := event.Parse(pack)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot parse event from topic %s: %v", topic, err)
		return
	}

	n, ok, err := buildNotification(e)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decode payload of %s: %v", e.Kind, err)
		return
	}

	if !ok {
		return
	}

	if err := d.notifier.Notify(ctx, e.UserID, n); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot notify user %s about %s: %v", e.UserID, e.Kind, err)
	}
}

func buildNotification(e event.Event) (notification.Notification, bool, error) {
	switch e.Kind {
	case event.QuestCompleted:
		payload, err := event.Decode[event.QuestCompletedPayload](e)
		if err != nil {
			return notification.Notification{}, false, err
		}

		return notification.Notification{
			Title: "Quest completed",
			Body:  fmt.Sprintf("%s is done, you earned %d points", payload.Title, payload.RewardPoints),
			Data: map[string]string{
				"kind":     string(e.Kind),
				"quest_id": payload.QuestID,
			},
		}, true, nil

	case event.AchievementUnlocked:
		payload, err := event.Decode[event.AchievementUnlockedPayload](e)
		if err != nil {
			return notification.Notification{}, false, err
		}

		return notification.Notification{
			Title: fmt.Sprintf("Achievement unlocked: %s", payload.Title),
			Body:  payload.Description,
			Data: map[string]string{
				"kind": string(e.Kind),
				"code": payload.Code,
			},
		}, true, nil

	case event.LevelUp:
		payload, err := event.Decode[event.LevelUpPayload](e)
		if err != nil {
			return notification.Notification{}, false, err
		}

		return notification.Notification{
			Title: "Level up",
			Body:  fmt.Sprintf("You reached level %d", payload.Level),
			Data: map[string]string{
				"kind":  string(e.Kind),
				"level": strconv.Itoa(payload.Level),
			},
		}, true, nil

	case event.OfflineActionFailed:
		payload, err := event.Decode[event.OfflineActionFailedPayload](e)
		if err != nil {
			return notification.Notification{}, false, err
		}

		return notification.Notification{
			Title: "Sync failed",
			Body:  fmt.Sprintf("An offline %s could not be synced", payload.ActionType),
			Data: map[string]string{
				"kind":      string(e.Kind),
				"action_id": strconv.FormatInt(payload.ActionID, 10),
			},
		}, true, nil
	}

	return notification.Notification{}, false, nil
}
