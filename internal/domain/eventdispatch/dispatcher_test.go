package eventdispatch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mushroomhunter/backend/internal/domain/event"
	"github.com/mushroomhunter/backend/pkg/notification"
	"github.com/mushroomhunter/backend/pkg/pubsub"
	"github.com/mushroomhunter/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func pack(t *testing.T, e event.Event) *pubsub.Pack {
	b, err := json.Marshal(e)
	require.NoError(t, err)
	return &pubsub.Pack{Key: []byte(e.UserID), Msg: b}
}

func TestDispatcher_Subscribe(t *testing.T) {
	type sent struct {
		userID       string
		notification notification.Notification
	}

	testCases := []struct {
		name    string
		event   event.Event
		want    bool
		title   string
		dataKey string
	}{
		{
			name: "quest completed",
			event: event.New(event.QuestCompleted, "user1", event.QuestCompletedPayload{
				QuestID:      "quest1",
				Title:        "Find three mushrooms",
				RewardPoints: 50,
			}),
			want:    true,
			title:   "Quest completed",
			dataKey: "quest_id",
		},
		{
			name: "achievement unlocked",
			event: event.New(event.AchievementUnlocked, "user1", event.AchievementUnlockedPayload{
				Code:        "first_find",
				Title:       "First Find",
				Description: "Found your first mushroom",
				Points:      10,
			}),
			want:    true,
			title:   "Achievement unlocked: First Find",
			dataKey: "code",
		},
		{
			name:    "level up",
			event:   event.New(event.LevelUp, "user1", event.LevelUpPayload{Level: 3}),
			want:    true,
			title:   "Level up",
			dataKey: "level",
		},
		{
			name:  "points awarded is silent",
			event: event.New(event.PointsAwarded, "user1", event.PointsAwardedPayload{Points: 10}),
			want:  false,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			var got []sent
			notifier := &testutil.MockNotifier{
				NotifyFunc: func(ctx context.Context, userID string, n notification.Notification) error {
					got = append(got, sent{userID: userID, notification: n})
					return nil
				},
			}

			New(notifier).Subscribe(testutil.MockContext(), "events", pack(t, tt.event), time.Now())

			if !tt.want {
				require.Empty(t, got)
				return
			}

			require.Len(t, got, 1)
			require.Equal(t, "user1", got[0].userID)
			require.Equal(t, tt.title, got[0].notification.Title)
			require.Equal(t, string(tt.event.Kind), got[0].notification.Data["kind"])
			require.NotEmpty(t, got[0].notification.Data[tt.dataKey])
		})
	}
}

func TestDispatcher_Subscribe_InvalidMessage(t *testing.T) {
	called := false
	notifier := &testutil.MockNotifier{
		NotifyFunc: func(ctx context.Context, userID string, n notification.Notification) error {
			called = true
			return nil
		},
	}

	New(notifier).Subscribe(testutil.MockContext(), "events", &pubsub.Pack{Msg: []byte("{")}, time.Now())
	require.False(t, called)
}

func TestDispatcher_Subscribe_NotifierFailure(t *testing.T) {
	calls := 0
	notifier := &testutil.MockNotifier{
		NotifyFunc: func(ctx context.Context, userID string, n notification.Notification) error {
			calls++
			return errors.New("unavailable")
		},
	}

	e := event.New(event.LevelUp, "user1", event.LevelUpPayload{Level: 2})
	require.NotPanics(t, func() {
		New(notifier).Subscribe(testutil.MockContext(), "events", pack(t, e), time.Now())
	})
	require.Equal(t, 1, calls)
}
