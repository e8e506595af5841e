package model

import "time"

type Achievement struct {
	Code        string     `json:"code"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Points      int        `json:"points"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

type GetAchievementsRequest struct{}

type GetAchievementsResponse struct {
	Achievements []Achievement `json:"achievements"`
}
