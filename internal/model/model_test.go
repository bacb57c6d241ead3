package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserSettings_ReminderDue(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	ago := func(d time.Duration) *time.Time {
		t := now.Add(-d)
		return &t
	}

	tests := []struct {
		name string
		last *time.Time
		want bool
	}{
		{"never reminded", nil, true},
		{"31 minutes ago", ago(31 * time.Minute), true},
		{"exactly 30 minutes ago", ago(30 * time.Minute), true},
		{"10 minutes ago", ago(10 * time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &UserSettings{TimerMinutes: 30, LastReminder: tt.last}
			assert.Equal(t, tt.want, s.ReminderDue(now))
		})
	}
}

func TestUserSettings_ReminderDueHugeTimer(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	last := now.Add(-time.Minute)

	s := &UserSettings{TimerMinutes: 200_000_000, LastReminder: &last}
	assert.False(t, s.ReminderDue(now))

	last = now.Add(-200_000_000 * time.Minute)
	assert.True(t, s.ReminderDue(now))
}

func TestUserSettings_HasBodyMetrics(t *testing.T) {
	w, h := 70.0, 175.0
	zero := 0.0

	assert.False(t, (*UserSettings)(nil).HasBodyMetrics())
	assert.False(t, NewUserSettings(1).HasBodyMetrics())
	assert.False(t, (&UserSettings{WeightKG: &w}).HasBodyMetrics())
	assert.False(t, (&UserSettings{WeightKG: &w, HeightCM: &zero}).HasBodyMetrics())
	assert.True(t, (&UserSettings{WeightKG: &w, HeightCM: &h}).HasBodyMetrics())
}

func TestNewUserSettings_Defaults(t *testing.T) {
	s := NewUserSettings(42)
	assert.Equal(t, int64(42), s.UserID)
	assert.Equal(t, 25, s.TimerMinutes)
	assert.Equal(t, 250, s.WaterAmount)
	assert.False(t, s.ReminderActive)
	assert.Nil(t, s.LastReminder)
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in    string
		want  Period
		valid bool
	}{
		{"", PeriodToday, true},
		{"today", PeriodToday, true},
		{"week", PeriodWeek, true},
		{"month", PeriodMonth, true},
		{"year", PeriodYear, true},
		{"decade", "", false},
	}
	for _, tt := range tests {
		got, ok := ParsePeriod(tt.in)
		assert.Equal(t, tt.valid, ok, "input: %q", tt.in)
		assert.Equal(t, tt.want, got, "input: %q", tt.in)
	}
	assert.Equal(t, "This Week", PeriodWeek.Title())
	assert.Equal(t, "Today", PeriodToday.Title())
}

func TestParseSuggestionType(t *testing.T) {
	st, ok := ParseSuggestionType("issue")
	assert.True(t, ok)
	assert.Equal(t, SuggestionTypeIssue, st)

	_, ok = ParseSuggestionType("complaint")
	assert.False(t, ok)
}
