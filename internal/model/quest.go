package model

import "time"

type Requirement struct {
	Type     string         `json:"type" validate:"required,oneof=find_mushroom identify_species visit_location share_spot find_rarity"`
	Target   int            `json:"target" validate:"gt=0"`
	Current  int            `json:"current" validate:"gte=0"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type Quest struct {
	ID                string        `json:"id"`
	Title             string        `json:"title"`
	Description       string        `json:"description"`
	Type              string        `json:"type"`
	Requirements      []Requirement `json:"requirements"`
	RewardPoints      int           `json:"reward_points"`
	RewardAchievement string        `json:"reward_achievement,omitempty"`
	ExpiresAt         time.Time     `json:"expires_at"`
	CompletedAt       *time.Time    `json:"completed_at,omitempty"`
}

type GetActiveQuestsRequest struct{}

type GetActiveQuestsResponse struct {
	Quests []Quest `json:"quests"`
}

type GetCompletedQuestsRequest struct {
	Offset int `json:"offset" validate:"gte=0"`
	Limit  int `json:"limit" validate:"gte=0"`
}

type GetCompletedQuestsResponse struct {
	Quests []Quest `json:"quests"`
}

type CreateQuestRequest struct {
	UserID            string        `json:"user_id" validate:"required"`
	Title             string        `json:"title" validate:"required"`
	Description       string        `json:"description"`
	Type              string        `json:"type" validate:"required,oneof=daily weekly seasonal"`
	Requirements      []Requirement `json:"requirements" validate:"required,min=1,dive"`
	RewardPoints      int           `json:"reward_points" validate:"gte=0"`
	RewardAchievement string        `json:"reward_achievement"`
	ExpiresAt         time.Time     `json:"expires_at" validate:"required"`
}

type CreateQuestResponse struct {
	ID string `json:"id"`
}
