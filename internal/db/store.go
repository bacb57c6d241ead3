// Package db persists user settings, water logs and suggestions.
package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"wateryy/internal/model"
)

// ErrNotFound is returned when a user has no settings record.
var ErrNotFound = errors.New("not found")

// Store is the persistence contract shared by the bot and the reminder scheduler.
type Store interface {
	// GetUserSettings returns ErrNotFound when the user never configured anything.
	GetUserSettings(ctx context.Context, userID int64) (*model.UserSettings, error)
	// StartReminders creates the record if needed, activates reminders and clears last_reminder.
	StartReminders(ctx context.Context, userID int64) (*model.UserSettings, error)
	// StopReminders deactivates reminders. Missing records are left missing.
	StopReminders(ctx context.Context, userID int64) error
	UpdateReminderSettings(ctx context.Context, userID int64, timerMinutes, waterAmount int) error
	UpdateBodyMetrics(ctx context.Context, userID int64, weightKG, heightCM float64) error
	ListActiveReminders(ctx context.Context) ([]model.UserSettings, error)
	MarkReminded(ctx context.Context, userID int64, at time.Time) error

	AddWaterLog(ctx context.Context, log *model.WaterLog) error
	// DailyTotals sums intake per day for entries at or after since, ordered by day.
	DailyTotals(ctx context.Context, userID int64, since time.Time) ([]model.DailyTotal, error)
	TotalSince(ctx context.Context, userID int64, since time.Time) (int, error)

	AddSuggestion(ctx context.Context, s *model.Suggestion) error

	PingContext(ctx context.Context) error
	Close() error
}

// Open picks the backend from the connection string: postgres:// and postgresql://
// URLs go to Postgres, everything else is treated as a SQLite file path.
func Open(ctx context.Context, url string, loc *time.Location, logger *zerolog.Logger) (Store, error) {
	if IsPostgresURL(url) {
		return NewPostgresDB(ctx, url, loc, logger)
	}
	path := strings.TrimPrefix(strings.TrimPrefix(url, "sqlite://"), "file:")
	return NewDB(path, loc, logger)
}

// IsPostgresURL reports whether url addresses a Postgres server.
func IsPostgresURL(url string) bool {
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}

func prepareLog(log *model.WaterLog, loc *time.Location) {
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now()
	}
	log.Day = log.Timestamp.In(loc).Format(model.DayLayout)
}
