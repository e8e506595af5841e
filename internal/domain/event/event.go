package event

import (
	"github.com/fatih/structs"
	"github.com/mitchellh/mapstructure"
	"github.com/mushroomhunter/backend/pkg/enum"
)

type Kind string

var (
	PointsAwarded       = enum.New(Kind("points_awarded"))
	LevelUp             = enum.New(Kind("level_up"))
	StreakUpdated       = enum.New(Kind("streak_updated"))
	QuestCompleted      = enum.New(Kind("quest_completed"))
	AchievementUnlocked = enum.New(Kind("achievement_unlocked"))
	OfflineActionFailed = enum.New(Kind("offline_action_failed"))
)

// Event is produced by every state transition of the progression engine.
// Payload is the flattened form of one of the payload structs below.
type Event struct {
	Kind    Kind           `json:"kind"`
	UserID  string         `json:"user_id"`
	Payload map[string]any `json:"payload"`
}

type PointsAwardedPayload struct {
	Points      int    `structs:"points"`
	TotalPoints int    `structs:"total_points"`
	Source      string `structs:"source"`
}

type LevelUpPayload struct {
	Level                 int `structs:"level"`
	ExperienceToNextLevel int `structs:"experience_to_next_level"`
}

type StreakUpdatedPayload struct {
	DailyStreak   int `structs:"daily_streak"`
	LongestStreak int `structs:"longest_streak"`
}

type QuestCompletedPayload struct {
	QuestID           string `structs:"quest_id"`
	Title             string `structs:"title"`
	RewardPoints      int    `structs:"reward_points"`
	RewardAchievement string `structs:"reward_achievement"`
}

type AchievementUnlockedPayload struct {
	Code        string `structs:"code"`
	Title       string `structs:"title"`
	Description string `structs:"description"`
	Points      int    `structs:"points"`
}

type OfflineActionFailedPayload struct {
	ActionID   int64  `structs:"action_id"`
	ActionType string `structs:"action_type"`
	RetryCount int    `structs:"retry_count"`
	Error      string `structs:"error"`
}

func New(kind Kind, userID string, payload any) Event {
	return Event{Kind: kind, UserID: userID, Payload: structs.Map(payload)}
}

// Decode converts the payload back to its typed form. It accepts payloads
// which went through a json round trip.
func Decode[T any](e Event) (T, error) {
	var result T
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "structs",
		WeaklyTypedInput: true,
		Result:           &result,
	})
	if err != nil {
		return result, err
	}

	if err := decoder.Decode(e.Payload); err != nil {
		return result, err
	}

	return result, nil
}
