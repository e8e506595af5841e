package entity

import (
	"database/sql"
	"time"

	"github.com/mushroomhunter/backend/pkg/enum"
)

type QuestType string

var (
	QuestDaily    = enum.New(QuestType("daily"))
	QuestWeekly   = enum.New(QuestType("weekly"))
	QuestSeasonal = enum.New(QuestType("seasonal"))
)

type RequirementType string

var (
	RequirementFindMushroom    = enum.New(RequirementType("find_mushroom"))
	RequirementIdentifySpecies = enum.New(RequirementType("identify_species"))
	RequirementVisitLocation   = enum.New(RequirementType("visit_location"))
	RequirementShareSpot       = enum.New(RequirementType("share_spot"))
	RequirementFindRarity      = enum.New(RequirementType("find_rarity"))
)

type Requirement struct {
	Type     RequirementType `json:"type"`
	Target   int             `json:"target"`
	Current  int             `json:"current"`
	Metadata Map             `json:"metadata,omitempty"`
}

type Quest struct {
	Base

	UserID string `gorm:"index"`

	Title       string
	Description string
	Type        QuestType

	// Requirements keep their order, lookups by type use the first match.
	Requirements Array[Requirement]

	RewardPoints      int
	RewardAchievement sql.NullString

	ExpiresAt   time.Time
	CompletedAt sql.NullTime `gorm:"index"`
}

func (q *Quest) IsExpired(now time.Time) bool {
	return !now.Before(q.ExpiresAt)
}

func (q *Quest) IsCompleted() bool {
	return q.CompletedAt.Valid
}
