package entity

import "time"

// User only keeps display attributes, accounts are owned by the gateway.
type User struct {
	ID        string `gorm:"primarykey"`
	Username  string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}
