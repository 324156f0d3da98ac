// Package notify implements the transient success/error feedback channel.
// Notifications are fire-and-forget: they never affect graph or history
// state, and a failed publish is logged and dropped.
package notify

import (
	"context"
	"time"
)

// Level classifies a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one toast-style message for the user.
type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier surfaces transient feedback for remote operations.
type Notifier interface {
	Success(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}

// Discard is a Notifier that drops everything. Useful in tests.
type Discard struct{}

func (Discard) Success(context.Context, string) {}
func (Discard) Error(context.Context, string)   {}
