package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wateryy/internal/model"
)

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("WATERYY_TEST_POSTGRES_URL")
	if dsn == "" {
		t.Skip("WATERYY_TEST_POSTGRES_URL not set")
	}

	ctx := context.Background()
	logger := zerolog.Nop()
	store, err := NewPostgresDB(ctx, dsn, time.UTC, &logger)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.pool.Exec(ctx, "TRUNCATE user_settings, water_logs, suggestions")
	require.NoError(t, err)

	_, err = store.GetUserSettings(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	s, err := store.StartReminders(ctx, 1)
	require.NoError(t, err)
	assert.True(t, s.ReminderActive)
	assert.Nil(t, s.LastReminder)

	require.NoError(t, store.MarkReminded(ctx, 1, time.Now()))
	require.NoError(t, store.UpdateBodyMetrics(ctx, 1, 70, 170))
	s, err = store.StartReminders(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, s.LastReminder)
	assert.True(t, s.HasBodyMetrics())

	active, err := store.ListActiveReminders(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	now := time.Now().UTC()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.AddWaterLog(ctx, &model.WaterLog{UserID: 1, Amount: 300, Timestamp: since.Add(time.Minute)}))
	require.NoError(t, store.AddWaterLog(ctx, &model.WaterLog{UserID: 1, Amount: 200, Timestamp: since.Add(2 * time.Minute)}))
	require.NoError(t, store.AddWaterLog(ctx, &model.WaterLog{UserID: 1, Amount: 500, Timestamp: since.Add(-time.Hour)}))

	totals, err := store.DailyTotals(ctx, 1, since)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, 500, totals[0].Total)

	total, err := store.TotalSince(ctx, 1, since.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1000, total)

	require.NoError(t, store.AddSuggestion(ctx, &model.Suggestion{UserID: 1, Username: "a", Type: model.SuggestionTypeSuggestion, Content: "dark mode"}))
	rows, _, err := store.GetTableData(ctx, "suggestions")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
