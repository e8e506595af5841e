package notification

import (
	"context"
	"encoding/base64"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

type FCMConfigs struct {
	CredentialsFile string
	// Base64 encoded service account json, it takes priority over the file.
	CredentialsJSON string
	TopicPrefix     string
}

type fcmNotifier struct {
	client      *messaging.Client
	topicPrefix string
}

func NewFCMNotifier(ctx context.Context, cfg FCMConfigs) (*fcmNotifier, error) {
	var opt option.ClientOption
	if cfg.CredentialsJSON != "" {
		decoded, err := base64.StdEncoding.DecodeString(cfg.CredentialsJSON)
		if err != nil {
			return nil, fmt.Errorf("cannot decode firebase credentials: %w", err)
		}
		opt = option.WithCredentialsJSON(decoded)
	} else {
		opt = option.WithCredentialsFile(cfg.CredentialsFile)
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("cannot initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot get messaging client: %w", err)
	}

	prefix := cfg.TopicPrefix
	if prefix == "" {
		prefix = "user_"
	}

	return &fcmNotifier{client: client, topicPrefix: prefix}, nil
}

func (n *fcmNotifier) Notify(ctx context.Context, userID string, notification Notification) error {
	_, err := n.client.Send(ctx, &messaging.Message{
		Topic: n.topicPrefix + userID,
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Body,
		},
		Data: notification.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
	})
	if err != nil {
		return fmt.Errorf("cannot send fcm message to %s: %w", userID, err)
	}

	return nil
}
