package entity

import (
	"time"

	"github.com/mushroomhunter/backend/pkg/enum"
)

type ActionType string

var (
	ActionCreateSpot    = enum.New(ActionType("CREATE_SPOT"))
	ActionUpdateProfile = enum.New(ActionType("UPDATE_PROFILE"))
	ActionUploadImage   = enum.New(ActionType("UPLOAD_IMAGE"))
)

// QueuedAction is a mutation recorded while the client was offline. Its
// snowflake ID is time ordered, so ordering by ID is FIFO.
type QueuedAction struct {
	SnowFlakeBase

	UserID     string `gorm:"index"`
	Type       ActionType
	Data       Map
	Timestamp  time.Time
	RetryCount int
	LastError  string
}

// Connectivity is the last reported network state of a user device.
type Connectivity struct {
	UserID    string `gorm:"primarykey"`
	Online    bool
	UpdatedAt time.Time
}
