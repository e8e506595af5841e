package entity

import (
	"database/sql"
	"time"
)

type Progression struct {
	UserID string `gorm:"primarykey"`

	TotalPoints           int
	Experience            int
	Level                 int
	ExperienceToNextLevel int

	DailyStreak    int
	LongestStreak  int
	LastActiveDate sql.NullTime

	MushroomsFound int
	RareFinds      int
	SpotsShared    int

	// Version is bumped on every update and guards concurrent writers.
	Version int

	CreatedAt time.Time
	UpdatedAt time.Time
}

type UnlockedAchievement struct {
	UserID     string `gorm:"primarykey"`
	Code       string `gorm:"primarykey"`
	UnlockedAt time.Time
}
