// Package hydration holds the pure calculations behind goals, BMI and reporting windows.
package hydration

import (
	"fmt"
	"math"
	"time"

	"wateryy/internal/model"
)

const (
	// DefaultDailyGoal is used when body metrics are unknown.
	DefaultDailyGoal = 2000
	// MLPerKG is the recommended daily intake per kilogram of body weight.
	MLPerKG = 33
)

// WaterGoal returns the recommended daily intake in ml.
// Height is part of the signature but does not affect the result.
func WaterGoal(weightKG, heightCM *float64) int {
	if weightKG == nil || heightCM == nil || *weightKG <= 0 || *heightCM <= 0 {
		return DefaultDailyGoal
	}
	return int(math.Round(*weightKG * MLPerKG))
}

// GoalFor is WaterGoal for a possibly missing settings record.
func GoalFor(s *model.UserSettings) int {
	if s == nil {
		return DefaultDailyGoal
	}
	return WaterGoal(s.WeightKG, s.HeightCM)
}

// BMIInfo is a body mass index with its category.
type BMIInfo struct {
	Value    float64
	Category string
}

// String formats the index to one decimal, e.g. "22.9 (Normal weight)".
func (b BMIInfo) String() string {
	return fmt.Sprintf("%s (%s)", b.Rounded(), b.Category)
}

// Rounded is the index rounded to one decimal.
func (b BMIInfo) Rounded() string {
	return fmt.Sprintf("%.1f", b.Value)
}

// BMI computes the index from kilograms and centimetres. ok is false when an input is missing.
func BMI(weightKG, heightCM *float64) (info BMIInfo, ok bool) {
	if weightKG == nil || heightCM == nil || *weightKG <= 0 || *heightCM <= 0 {
		return BMIInfo{}, false
	}
	m := *heightCM / 100
	v := *weightKG / (m * m)
	return BMIInfo{Value: v, Category: Category(v)}, true
}

// Category maps a BMI value onto the WHO adult ranges.
func Category(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Normal weight"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}

// PeriodStart returns the inclusive lower bound of the period containing now,
// in now's location.
func PeriodStart(p model.Period, now time.Time) time.Time {
	y, m, d := now.Date()
	loc := now.Location()
	switch p {
	case model.PeriodWeek:
		return time.Date(y, m, d-int(now.Weekday()), 0, 0, 0, 0, loc)
	case model.PeriodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case model.PeriodYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
}

// Liters formats ml as litres with one decimal.
func Liters(ml int) string {
	return fmt.Sprintf("%.1f", float64(ml)/1000)
}
