package achievement

import (
	"time"

	"github.com/mushroomhunter/backend/config"
	"github.com/mushroomhunter/backend/internal/entity"
)

// Trigger is the event being processed. Find is nil for events which are not
// captures, e.g. a daily login or a shared spot.
type Trigger struct {
	Find *entity.Find
	Now  time.Time
}

// Stats are the cumulative statistics of a user, already including the
// trigger.
type Stats struct {
	MushroomsFound  int
	RareFinds       int
	DistinctSpecies int
	SpotsShared     int
	DailyStreak     int
}

type Condition func(trigger Trigger, stats Stats) bool

type Definition struct {
	Code        string
	Title       string
	Description string
	Points      int
	// Condition is nil for achievements which can only be granted, e.g. as a
	// quest reward.
	Condition Condition
}

const (
	FirstFind       = "first_find"
	RareHunter      = "rare_hunter"
	RareCollector   = "rare_collector"
	SpeciesMaster   = "species_master"
	StreakWarrior   = "streak_warrior"
	EarlyBird       = "early_bird"
	NightOwl        = "night_owl"
	CommunityHelper = "community_helper"
	LegendaryFind   = "legendary_find"
	SafetyFirst     = "safety_first"
)

// DefaultCatalog returns the built-in achievements in evaluation order.
func DefaultCatalog(cfg config.ProgressionConfigs) []Definition {
	return []Definition{
		{
			Code:        FirstFind,
			Title:       "First Find",
			Description: "Find your first mushroom",
			Points:      10,
			Condition: func(trigger Trigger, stats Stats) bool {
				return trigger.Find != nil && stats.MushroomsFound >= 1
			},
		},
		{
			Code:        RareHunter,
			Title:       "Rare Hunter",
			Description: "Find a rare mushroom",
			Points:      100,
			Condition: func(trigger Trigger, _ Stats) bool {
				return trigger.Find != nil && trigger.Find.Rarity == entity.RarityRare
			},
		},
		{
			Code:        RareCollector,
			Title:       "Rare Collector",
			Description: "Find 10 rare mushrooms or better",
			Points:      250,
			Condition: func(_ Trigger, stats Stats) bool {
				return stats.RareFinds >= cfg.RareCollectorTarget
			},
		},
		{
			Code:        SpeciesMaster,
			Title:       "Species Master",
			Description: "Identify many different species",
			Points:      500,
			Condition: func(_ Trigger, stats Stats) bool {
				return stats.DistinctSpecies >= cfg.SpeciesMasterTarget
			},
		},
		{
			Code:        StreakWarrior,
			Title:       "Streak Warrior",
			Description: "Go hunting a week in a row",
			Points:      150,
			Condition: func(_ Trigger, stats Stats) bool {
				return stats.DailyStreak >= cfg.StreakWarriorDays
			},
		},
		{
			Code:        EarlyBird,
			Title:       "Early Bird",
			Description: "Find a mushroom before sunrise",
			Points:      25,
			Condition: func(trigger Trigger, _ Stats) bool {
				return trigger.Find != nil && trigger.Find.FoundAt.Hour() < cfg.EarlyBirdHour
			},
		},
		{
			Code:        NightOwl,
			Title:       "Night Owl",
			Description: "Find a mushroom late at night",
			Points:      25,
			Condition: func(trigger Trigger, _ Stats) bool {
				return trigger.Find != nil && trigger.Find.FoundAt.Hour() >= cfg.NightOwlHour
			},
		},
		{
			Code:        CommunityHelper,
			Title:       "Community Helper",
			Description: "Share 10 spots with the community",
			Points:      100,
			Condition: func(_ Trigger, stats Stats) bool {
				return stats.SpotsShared >= cfg.CommunityHelperShares
			},
		},
		{
			Code:        LegendaryFind,
			Title:       "Legendary Find",
			Description: "Find a legendary mushroom",
			Points:      300,
			Condition: func(trigger Trigger, _ Stats) bool {
				return trigger.Find != nil && trigger.Find.Rarity == entity.RarityLegendary
			},
		},
		{
			Code:        SafetyFirst,
			Title:       "Safety First",
			Description: "Complete the toxic species quest",
			Points:      50,
		},
	}
}
