package model

import "context"

// NotificationPrompter is the platform permission prompt. The result is a
// precondition for enabling push, never a stored state.
type NotificationPrompter interface {
	RequestPermission(ctx context.Context) (bool, error)
}

// DeviceTokenSource yields this device's stable push token.
type DeviceTokenSource interface {
	DeviceToken(ctx context.Context) (string, error)
}

// PushRegistry manages token membership in notification topics.
type PushRegistry interface {
	Subscribe(ctx context.Context, token, topic string) error
	Unsubscribe(ctx context.Context, token, topic string) error
	TopicTokens(ctx context.Context, topic string) ([]string, error)
}
