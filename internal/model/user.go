package model

type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

type Event struct {
	Kind    string         `json:"kind"`
	Payload map[string]any `json:"payload"`
}
