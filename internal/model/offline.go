package model

import "time"

type QueuedAction struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Data       map[string]any `json:"data"`
	Timestamp  time.Time      `json:"timestamp"`
	RetryCount int            `json:"retry_count"`
	LastError  string         `json:"last_error,omitempty"`
}

type EnqueueActionRequest struct {
	Type      string         `json:"type" validate:"required,oneof=CREATE_SPOT UPDATE_PROFILE UPLOAD_IMAGE"`
	Data      map[string]any `json:"data" validate:"required"`
	Timestamp time.Time      `json:"timestamp"`
}

type EnqueueActionResponse struct {
	ID string `json:"id"`
}

type SetConnectivityRequest struct {
	Online bool `json:"online"`
}

type SetConnectivityResponse struct{}

type GetQueueRequest struct{}

type GetQueueResponse struct {
	Actions []QueuedAction `json:"actions"`
}
