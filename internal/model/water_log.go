package model

import "time"

// DayLayout is the bucket key format for daily aggregation.
const DayLayout = "2006-01-02"

// WaterLog is a single intake event. Rows are never updated.
type WaterLog struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Amount    int       `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
	Day       string    `json:"day"`
}

// DailyTotal is the summed intake of one calendar day.
type DailyTotal struct {
	Day   string `json:"day"`
	Total int    `json:"total"`
}
