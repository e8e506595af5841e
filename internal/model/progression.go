package model

import "time"

type Progression struct {
	UserID                string `json:"user_id"`
	TotalPoints           int    `json:"total_points"`
	Experience            int    `json:"experience"`
	Level                 int    `json:"level"`
	ExperienceToNextLevel int    `json:"experience_to_next_level"`
	DailyStreak           int    `json:"daily_streak"`
	LongestStreak         int    `json:"longest_streak"`
	LastActiveDate        string `json:"last_active_date,omitempty"`
	MushroomsFound        int    `json:"mushrooms_found"`
	RareFinds             int    `json:"rare_finds"`
	SpotsShared           int    `json:"spots_shared"`
}

type RecordFindRequest struct {
	MushroomID   string    `json:"mushroom_id" validate:"required"`
	Rarity       string    `json:"rarity"`
	Confidence   float64   `json:"confidence"`
	FoundAt      time.Time `json:"found_at"`
	Latitude     *float64  `json:"latitude" validate:"omitempty,latitude"`
	Longitude    *float64  `json:"longitude" validate:"omitempty,longitude"`
	Zone         string    `json:"zone"`
	PerfectPhoto bool      `json:"perfect_photo"`
	GroupHunt    bool      `json:"group_hunt"`
	WeatherBonus float64   `json:"weather_bonus" validate:"gte=0"`
	Weather      string    `json:"weather"`
}

type RecordFindResponse struct {
	FindID      string      `json:"find_id"`
	Points      int         `json:"points"`
	Progression Progression `json:"progression"`
	Events      []Event     `json:"events"`
}

type DailyLoginRequest struct{}

type DailyLoginResponse struct {
	Progression Progression `json:"progression"`
	Events      []Event     `json:"events"`
}

type ShareSpotRequest struct {
	FindID string `json:"find_id"`
}

type ShareSpotResponse struct {
	Progression Progression `json:"progression"`
	Events      []Event     `json:"events"`
}

type GetProgressRequest struct{}

type GetProgressResponse struct {
	Progression  Progression `json:"progression"`
	Achievements []string    `json:"achievements"`
}
