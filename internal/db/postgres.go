package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"wateryy/internal/model"
)

// PostgresDB is the Postgres-backed Store.
type PostgresDB struct {
	pool   *pgxpool.Pool
	loc    *time.Location
	logger *zerolog.Logger
}

var (
	_ Store = (*DB)(nil)
	_ Store = (*PostgresDB)(nil)
)

// NewPostgresDB connects, pings and migrates.
func NewPostgresDB(ctx context.Context, dsn string, loc *time.Location, logger *zerolog.Logger) (*PostgresDB, error) {
	if loc == nil {
		loc = time.Local
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	p := &PostgresDB{pool: pool, loc: loc, logger: logger}
	if err := p.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info().Msg("postgres database initialized")
	return p, nil
}

func (p *PostgresDB) migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS user_settings (
            user_id BIGINT PRIMARY KEY,
            timer_minutes INTEGER NOT NULL DEFAULT 25,
            water_amount INTEGER NOT NULL DEFAULT 250,
            weight_kg DOUBLE PRECISION,
            height_cm DOUBLE PRECISION,
            reminder_active BOOLEAN NOT NULL DEFAULT FALSE,
            last_reminder TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS water_logs (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL,
            amount INTEGER NOT NULL CHECK (amount > 0),
            timestamp TIMESTAMPTZ NOT NULL,
            day TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS suggestions (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL,
            username TEXT NOT NULL,
            type TEXT NOT NULL CHECK (type IN ('suggestion', 'issue')),
            content TEXT NOT NULL,
            timestamp TIMESTAMPTZ NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_user_settings_active ON user_settings(reminder_active)`,
		`CREATE INDEX IF NOT EXISTS idx_water_logs_user_time ON water_logs(user_id, timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_suggestions_user ON suggestions(user_id)`,
	}
	for _, q := range queries {
		if _, err := p.pool.Exec(ctx, q); err != nil {
			return fmt.Errorf("exec migration %s: %w", trimSQL(q), err)
		}
	}
	return nil
}

func (p *PostgresDB) PingContext(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresDB) Close() error {
	p.pool.Close()
	return nil
}

func scanPgUserSettings(row pgx.Row) (*model.UserSettings, error) {
	var s model.UserSettings
	err := row.Scan(&s.UserID, &s.TimerMinutes, &s.WaterAmount, &s.WeightKG, &s.HeightCM,
		&s.ReminderActive, &s.LastReminder, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (p *PostgresDB) GetUserSettings(ctx context.Context, userID int64) (*model.UserSettings, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT `+userSettingsColumns+`
		FROM user_settings
		WHERE user_id = $1`, userID)
	s, err := scanPgUserSettings(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user settings: %w", err)
	}
	return s, nil
}

func (p *PostgresDB) StartReminders(ctx context.Context, userID int64) (*model.UserSettings, error) {
	now := time.Now().UTC()
	row := p.pool.QueryRow(ctx, `
		INSERT INTO user_settings (user_id, timer_minutes, water_amount, reminder_active, last_reminder, created_at, updated_at)
		VALUES ($1, $2, $3, TRUE, NULL, $4, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			reminder_active = TRUE,
			last_reminder = NULL,
			updated_at = EXCLUDED.updated_at
		RETURNING `+userSettingsColumns,
		userID, model.DefaultTimerMinutes, model.DefaultWaterAmount, now)
	s, err := scanPgUserSettings(row)
	if err != nil {
		return nil, fmt.Errorf("start reminders: %w", err)
	}
	return s, nil
}

func (p *PostgresDB) StopReminders(ctx context.Context, userID int64) error {
	_, err := p.pool.Exec(ctx, `
		UPDATE user_settings SET reminder_active = FALSE, updated_at = $2
		WHERE user_id = $1`, userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("stop reminders: %w", err)
	}
	return nil
}

func (p *PostgresDB) UpdateReminderSettings(ctx context.Context, userID int64, timerMinutes, waterAmount int) error {
	now := time.Now().UTC()
	_, err := p.pool.Exec(ctx, `
		INSERT INTO user_settings (user_id, timer_minutes, water_amount, reminder_active, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, $4, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			timer_minutes = EXCLUDED.timer_minutes,
			water_amount = EXCLUDED.water_amount,
			updated_at = EXCLUDED.updated_at`,
		userID, timerMinutes, waterAmount, now)
	if err != nil {
		return fmt.Errorf("update reminder settings: %w", err)
	}
	return nil
}

func (p *PostgresDB) UpdateBodyMetrics(ctx context.Context, userID int64, weightKG, heightCM float64) error {
	now := time.Now().UTC()
	_, err := p.pool.Exec(ctx, `
		INSERT INTO user_settings (user_id, timer_minutes, water_amount, weight_kg, height_cm, reminder_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			weight_kg = EXCLUDED.weight_kg,
			height_cm = EXCLUDED.height_cm,
			updated_at = EXCLUDED.updated_at`,
		userID, model.DefaultTimerMinutes, model.DefaultWaterAmount, weightKG, heightCM, now)
	if err != nil {
		return fmt.Errorf("update body metrics: %w", err)
	}
	return nil
}

func (p *PostgresDB) ListActiveReminders(ctx context.Context) ([]model.UserSettings, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT `+userSettingsColumns+`
		FROM user_settings
		WHERE reminder_active
		ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list active reminders: %w", err)
	}
	defer rows.Close()

	var result []model.UserSettings
	for rows.Next() {
		s, err := scanPgUserSettings(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

func (p *PostgresDB) MarkReminded(ctx context.Context, userID int64, at time.Time) error {
	_, err := p.pool.Exec(ctx, `
		UPDATE user_settings SET last_reminder = $2, updated_at = $3
		WHERE user_id = $1`, userID, at.UTC(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark reminded: %w", err)
	}
	return nil
}

func (p *PostgresDB) AddWaterLog(ctx context.Context, log *model.WaterLog) error {
	prepareLog(log, p.loc)
	err := p.pool.QueryRow(ctx, `
		INSERT INTO water_logs (user_id, amount, timestamp, day)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		log.UserID, log.Amount, log.Timestamp.UTC(), log.Day).Scan(&log.ID)
	if err != nil {
		return fmt.Errorf("insert water log: %w", err)
	}
	return nil
}

func (p *PostgresDB) DailyTotals(ctx context.Context, userID int64, since time.Time) ([]model.DailyTotal, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT day, SUM(amount)::bigint
		FROM water_logs
		WHERE user_id = $1 AND timestamp >= $2
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

func (p *PostgresDB) TotalSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	var total int
	err := p.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)::bigint
		FROM water_logs
		WHERE user_id = $1 AND timestamp >= $2`, userID, since.UTC()).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total since: %w", err)
	}
	return total, nil
}

func (p *PostgresDB) AddSuggestion(ctx context.Context, s *model.Suggestion) error {
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now()
	}
	err := p.pool.QueryRow(ctx, `
		INSERT INTO suggestions (user_id, username, type, content, timestamp)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		s.UserID, s.Username, string(s.Type), s.Content, s.Timestamp.UTC()).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("insert suggestion: %w", err)
	}
	return nil
}

// GetTableNames returns list of table names to export.
func (p *PostgresDB) GetTableNames(ctx context.Context) ([]string, error) {
	return ExportTableNames, nil
}

// GetTableData returns all rows from a table as maps.
func (p *PostgresDB) GetTableData(ctx context.Context, tableName string) ([]map[string]any, []string, error) {
	if err := validExportTable(tableName); err != nil {
		return nil, nil, err
	}
	rows, err := p.pool.Query(ctx, fmt.Sprintf("SELECT * FROM %s", tableName))
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var columns []string
	for _, fd := range rows.FieldDescriptions() {
		columns = append(columns, fd.Name)
	}

	var data []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, nil, err
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = normalizeValue(values[i])
		}
		data = append(data, row)
	}
	return data, columns, rows.Err()
}
