package model

import "time"

const (
	DefaultTimerMinutes = 25
	DefaultWaterAmount  = 250
)

// UserSettings stores reminder preferences and body measurements of a user.
type UserSettings struct {
	UserID         int64      `json:"user_id"`
	TimerMinutes   int        `json:"timer_minutes"`
	WaterAmount    int        `json:"water_amount"`
	WeightKG       *float64   `json:"weight_kg,omitempty"`
	HeightCM       *float64   `json:"height_cm,omitempty"`
	ReminderActive bool       `json:"reminder_active"`
	LastReminder   *time.Time `json:"last_reminder,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewUserSettings returns settings with defaults for a user that has no record yet.
func NewUserSettings(userID int64) *UserSettings {
	return &UserSettings{
		UserID:       userID,
		TimerMinutes: DefaultTimerMinutes,
		WaterAmount:  DefaultWaterAmount,
	}
}

// HasBodyMetrics reports whether both weight and height are set.
func (s *UserSettings) HasBodyMetrics() bool {
	return s != nil && s.WeightKG != nil && s.HeightCM != nil && *s.WeightKG > 0 && *s.HeightCM > 0
}

// ReminderDue reports whether a reminder should be sent at now.
// A user that was never reminded is due immediately.
func (s *UserSettings) ReminderDue(now time.Time) bool {
	if s.LastReminder == nil {
		return true
	}
	return now.Sub(*s.LastReminder).Minutes() >= float64(s.TimerMinutes)
}
