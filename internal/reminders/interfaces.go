// Package reminders periodically nudges users with active reminders to drink water.
package reminders

import (
	"context"
	"time"

	"wateryy/internal/model"
)

// Store is the persistence the scheduler needs.
type Store interface {
	ListActiveReminders(ctx context.Context) ([]model.UserSettings, error)
	MarkReminded(ctx context.Context, userID int64, at time.Time) error
}

// Notifier delivers a reminder with a confirmation button to the user's private chat.
type Notifier interface {
	SendReminder(ctx context.Context, userID int64, amount int) error
}

// Locker keeps replicas from scanning the same cycle.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
