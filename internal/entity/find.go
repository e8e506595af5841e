package entity

import (
	"database/sql"
	"time"
)

// Find is a confirmed capture of a mushroom by a user, the spot of the find is
// optional.
type Find struct {
	Base

	UserID string `gorm:"index:idx_finds_user_found_at"`

	MushroomID string
	Rarity     Rarity
	Confidence float64
	Points     int
	FoundAt    time.Time `gorm:"index:idx_finds_user_found_at;index"`

	Latitude  sql.NullFloat64
	Longitude sql.NullFloat64
	Zone      string

	IsFirstOfDay bool
	IsNewZone    bool
	PerfectPhoto bool
	GroupHunt    bool
	WeatherBonus float64
}
