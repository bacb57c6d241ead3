package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wateryy/internal/model"
)

const userSettingsColumns = `user_id, timer_minutes, water_amount, weight_kg, height_cm,
		       reminder_active, last_reminder, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserSettings(row rowScanner) (*model.UserSettings, error) {
	var (
		s      model.UserSettings
		weight sql.NullFloat64
		height sql.NullFloat64
		last   sql.NullTime
	)
	if err := row.Scan(&s.UserID, &s.TimerMinutes, &s.WaterAmount, &weight, &height,
		&s.ReminderActive, &last, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if weight.Valid {
		s.WeightKG = &weight.Float64
	}
	if height.Valid {
		s.HeightCM = &height.Float64
	}
	if last.Valid {
		t := last.Time
		s.LastReminder = &t
	}
	return &s, nil
}

// GetUserSettings returns settings by user ID or ErrNotFound.
func (db *DB) GetUserSettings(ctx context.Context, userID int64) (*model.UserSettings, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+userSettingsColumns+`
		FROM user_settings
		WHERE user_id = ?`, userID)

	s, err := scanUserSettings(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user settings: %w", err)
	}
	return s, nil
}

// StartReminders activates reminders and resets last_reminder so the next cycle fires.
func (db *DB) StartReminders(ctx context.Context, userID int64) (*model.UserSettings, error) {
	now := time.Now().UTC()
	_, err := db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, timer_minutes, water_amount, reminder_active, last_reminder, created_at, updated_at)
		VALUES (?, ?, ?, 1, NULL, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			reminder_active = 1,
			last_reminder = NULL,
			updated_at = excluded.updated_at`,
		userID, model.DefaultTimerMinutes, model.DefaultWaterAmount, now, now)
	if err != nil {
		return nil, fmt.Errorf("start reminders: %w", err)
	}
	return db.GetUserSettings(ctx, userID)
}

// StopReminders deactivates reminders for an existing record.
func (db *DB) StopReminders(ctx context.Context, userID int64) error {
	_, err := db.ExecContext(ctx, `
		UPDATE user_settings SET reminder_active = 0, updated_at = ?
		WHERE user_id = ?`, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("stop reminders: %w", err)
	}
	return nil
}

// UpdateReminderSettings upserts timer and amount.
func (db *DB) UpdateReminderSettings(ctx context.Context, userID int64, timerMinutes, waterAmount int) error {
	now := time.Now().UTC()
	_, err := db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, timer_minutes, water_amount, reminder_active, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			timer_minutes = excluded.timer_minutes,
			water_amount = excluded.water_amount,
			updated_at = excluded.updated_at`,
		userID, timerMinutes, waterAmount, now, now)
	if err != nil {
		return fmt.Errorf("update reminder settings: %w", err)
	}
	return nil
}

// UpdateBodyMetrics upserts weight and height.
func (db *DB) UpdateBodyMetrics(ctx context.Context, userID int64, weightKG, heightCM float64) error {
	now := time.Now().UTC()
	_, err := db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, timer_minutes, water_amount, weight_kg, height_cm, reminder_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			weight_kg = excluded.weight_kg,
			height_cm = excluded.height_cm,
			updated_at = excluded.updated_at`,
		userID, model.DefaultTimerMinutes, model.DefaultWaterAmount, weightKG, heightCM, now, now)
	if err != nil {
		return fmt.Errorf("update body metrics: %w", err)
	}
	return nil
}

// ListActiveReminders returns every record with reminders switched on.
func (db *DB) ListActiveReminders(ctx context.Context) ([]model.UserSettings, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+userSettingsColumns+`
		FROM user_settings
		WHERE reminder_active = 1
		ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list active reminders: %w", err)
	}
	defer rows.Close()

	var result []model.UserSettings
	for rows.Next() {
		s, err := scanUserSettings(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

// MarkReminded records a delivered reminder.
func (db *DB) MarkReminded(ctx context.Context, userID int64, at time.Time) error {
	_, err := db.ExecContext(ctx, `
		UPDATE user_settings SET last_reminder = ?, updated_at = ?
		WHERE user_id = ?`, at.UTC(), time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("mark reminded: %w", err)
	}
	return nil
}
