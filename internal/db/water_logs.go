package db

import (
	"context"
	"fmt"
	"time"

	"wateryy/internal/model"
)

// AddWaterLog appends an intake entry and fills its ID, timestamp and day.
func (db *DB) AddWaterLog(ctx context.Context, log *model.WaterLog) error {
	prepareLog(log, db.loc)
	res, err := db.ExecContext(ctx, `
		INSERT INTO water_logs (user_id, amount, timestamp, day)
		VALUES (?, ?, ?, ?)`,
		log.UserID, log.Amount, log.Timestamp.UTC(), log.Day)
	if err != nil {
		return fmt.Errorf("insert water log: %w", err)
	}
	log.ID, err = res.LastInsertId()
	return err
}

// DailyTotals sums intake per local day since the given instant.
func (db *DB) DailyTotals(ctx context.Context, userID int64, since time.Time) ([]model.DailyTotal, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT day, SUM(amount)
		FROM water_logs
		WHERE user_id = ? AND timestamp >= ?
		GROUP BY day
		ORDER BY day ASC`, userID, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}
	defer rows.Close()

	var totals []model.DailyTotal
	for rows.Next() {
		var t model.DailyTotal
		if err := rows.Scan(&t.Day, &t.Total); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// TotalSince returns the intake sum since the given instant.
func (db *DB) TotalSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	var total int
	err := db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM water_logs
		WHERE user_id = ? AND timestamp >= ?`, userID, since.UTC()).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total since: %w", err)
	}
	return total, nil
}

// AddSuggestion stores user feedback.
func (db *DB) AddSuggestion(ctx context.Context, s *model.Suggestion) error {
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now()
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO suggestions (user_id, username, type, content, timestamp)
		VALUES (?, ?, ?, ?, ?)`,
		s.UserID, s.Username, string(s.Type), s.Content, s.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("insert suggestion: %w", err)
	}
	s.ID, err = res.LastInsertId()
	return err
}
