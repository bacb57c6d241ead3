package hydration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wateryy/internal/model"
)

func f(v float64) *float64 { return &v }

func TestWaterGoal(t *testing.T) {
	tests := []struct {
		name   string
		weight *float64
		height *float64
		want   int
	}{
		{"weight and height", f(70), f(170), 2310},
		{"height ignored", f(70), f(120), 2310},
		{"rounded", f(65.5), f(170), 2162},
		{"no weight", nil, f(170), 2000},
		{"no height", f(70), nil, 2000},
		{"nothing", nil, nil, 2000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WaterGoal(tt.weight, tt.height))
		})
	}
}

func TestGoalFor(t *testing.T) {
	assert.Equal(t, DefaultDailyGoal, GoalFor(nil))
	assert.Equal(t, 2310, GoalFor(&model.UserSettings{WeightKG: f(70), HeightCM: f(180)}))
}

func TestBMI_CategoryBoundaries(t *testing.T) {
	// 200 cm gives a divisor of exactly 4.
	tests := []struct {
		weight float64
		want   string
	}{
		{73.9, "Underweight"},
		{74, "Normal weight"},     // 18.5
		{99.996, "Normal weight"}, // 24.999
		{100, "Overweight"},       // 25.0
		{119.9, "Overweight"},
		{120, "Obese"}, // 30.0
	}
	for _, tt := range tests {
		info, ok := BMI(f(tt.weight), f(200))
		require.True(t, ok)
		assert.Equal(t, tt.want, info.Category, "weight %v", tt.weight)
	}
}

func TestBMI_Format(t *testing.T) {
	info, ok := BMI(f(70), f(175))
	require.True(t, ok)
	assert.Equal(t, "22.9", info.Rounded())
	assert.Equal(t, "22.9 (Normal weight)", info.String())
}

func TestBMI_Unavailable(t *testing.T) {
	_, ok := BMI(nil, f(175))
	assert.False(t, ok)
	_, ok = BMI(f(70), nil)
	assert.False(t, ok)
	_, ok = BMI(f(70), f(0))
	assert.False(t, ok)
}

func TestPeriodStart(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	// Thursday.
	now := time.Date(2025, 5, 15, 14, 30, 0, 0, loc)

	assert.Equal(t, time.Date(2025, 5, 15, 0, 0, 0, 0, loc), PeriodStart(model.PeriodToday, now))
	assert.Equal(t, time.Date(2025, 5, 11, 0, 0, 0, 0, loc), PeriodStart(model.PeriodWeek, now))
	assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, loc), PeriodStart(model.PeriodMonth, now))
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, loc), PeriodStart(model.PeriodYear, now))
}

func TestPeriodStart_WeekOnSundayAndAcrossMonth(t *testing.T) {
	sunday := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), PeriodStart(model.PeriodWeek, sunday))

	tuesday := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 29, 0, 0, 0, 0, time.UTC), PeriodStart(model.PeriodWeek, tuesday))
}

func TestLiters(t *testing.T) {
	assert.Equal(t, "2.3", Liters(2310))
	assert.Equal(t, "0.5", Liters(500))
}
