package stats

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wateryy/internal/db"
	"wateryy/internal/model"
)

var testNow = time.Date(2025, 5, 15, 14, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *db.DB {
	t.Helper()
	logger := zerolog.Nop()
	store, err := db.NewDB(filepath.Join(t.TempDir(), "stats.db"), time.UTC, &logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func addLog(t *testing.T, store *db.DB, userID int64, amount int, at time.Time) {
	t.Helper()
	require.NoError(t, store.AddWaterLog(context.Background(), &model.WaterLog{UserID: userID, Amount: amount, Timestamp: at}))
}

type renderSpy struct {
	calls  int
	totals []model.DailyTotal
	goal   int
	err    error
}

func (r *renderSpy) render(title string, totals []model.DailyTotal, goal int) ([]byte, error) {
	r.calls++
	r.totals = totals
	r.goal = goal
	if r.err != nil {
		return nil, r.err
	}
	return []byte("png"), nil
}

func TestReportToday(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	addLog(t, store, 1, 300, testNow.Add(-2*time.Hour))
	addLog(t, store, 1, 200, testNow.Add(-time.Hour))
	addLog(t, store, 1, 500, testNow.Add(-24*time.Hour))

	spy := &renderSpy{}
	svc := NewService(store, time.UTC, WithClock(func() time.Time { return testNow }), WithRenderer(spy.render))

	r, err := svc.Report(ctx, 1, model.PeriodToday)
	require.NoError(t, err)
	assert.Equal(t, "Today", r.Title)
	assert.Equal(t, 500, r.Total)
	assert.Equal(t, 500, r.Average)
	assert.Equal(t, 2000, r.Goal)
	require.Len(t, r.Totals, 1)
	assert.Equal(t, []byte("png"), r.Chart)
	assert.Equal(t, 1, spy.calls)
	assert.Equal(t, 2000, spy.goal)
}

func TestReportWeekAverage(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	require.NoError(t, store.UpdateBodyMetrics(ctx, 1, 70, 170))
	addLog(t, store, 1, 1000, testNow.Add(-24*time.Hour))
	addLog(t, store, 1, 501, testNow.Add(-time.Hour))

	spy := &renderSpy{}
	svc := NewService(store, time.UTC, WithClock(func() time.Time { return testNow }), WithRenderer(spy.render))

	r, err := svc.Report(ctx, 1, model.PeriodWeek)
	require.NoError(t, err)
	assert.Equal(t, "This Week", r.Title)
	assert.Equal(t, 1501, r.Total)
	assert.Equal(t, 751, r.Average)
	assert.Equal(t, 2310, r.Goal)
	assert.Equal(t, []model.DailyTotal{
		{Day: "2025-05-14", Total: 1000},
		{Day: "2025-05-15", Total: 501},
	}, spy.totals)
}

func TestReportEmptySkipsChart(t *testing.T) {
	store := newStore(t)
	addLog(t, store, 1, 500, testNow.AddDate(0, -2, 0))

	spy := &renderSpy{}
	svc := NewService(store, time.UTC, WithClock(func() time.Time { return testNow }), WithRenderer(spy.render))

	r, err := svc.Report(context.Background(), 1, model.PeriodMonth)
	require.NoError(t, err)
	assert.True(t, r.Empty())
	assert.Equal(t, "This Month", r.Title)
	assert.Nil(t, r.Chart)
	assert.Zero(t, spy.calls)
}

func TestReportRenderFailure(t *testing.T) {
	store := newStore(t)
	addLog(t, store, 1, 500, testNow)

	spy := &renderSpy{err: errors.New("font missing")}
	svc := NewService(store, time.UTC, WithClock(func() time.Time { return testNow }), WithRenderer(spy.render))

	r, err := svc.Report(context.Background(), 1, model.PeriodToday)
	assert.ErrorIs(t, err, ErrRender)
	assert.Nil(t, r)
}

func TestIntake(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	svc := NewService(store, time.UTC, WithClock(func() time.Time { return testNow }))

	t.Run("requires body metrics", func(t *testing.T) {
		_, err := svc.Intake(ctx, 1)
		assert.ErrorIs(t, err, ErrNoBodyMetrics)

		require.NoError(t, store.UpdateReminderSettings(ctx, 1, 30, 250))
		_, err = svc.Intake(ctx, 1)
		assert.ErrorIs(t, err, ErrNoBodyMetrics)
	})

	t.Run("progress", func(t *testing.T) {
		require.NoError(t, store.UpdateBodyMetrics(ctx, 1, 70, 175))
		addLog(t, store, 1, 1155, testNow.Add(-time.Hour))
		addLog(t, store, 1, 800, testNow.Add(-24*time.Hour))

		info, err := svc.Intake(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 2310, info.Goal)
		assert.Equal(t, 1155, info.Today)
		assert.InDelta(t, 50.0, info.Percentage, 1e-9)
		assert.Equal(t, 1155, info.Remaining)
		assert.Equal(t, "22.9", info.BMI.Rounded())
	})

	t.Run("remaining never negative", func(t *testing.T) {
		addLog(t, store, 1, 5000, testNow.Add(-time.Minute))
		info, err := svc.Intake(ctx, 1)
		require.NoError(t, err)
		assert.Zero(t, info.Remaining)
	})
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetUserSettings(ctx context.Context, userID int64) (*model.UserSettings, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(*model.UserSettings)
	return s, args.Error(1)
}

func (m *mockStore) DailyTotals(ctx context.Context, userID int64, since time.Time) ([]model.DailyTotal, error) {
	args := m.Called(ctx, userID, since)
	totals, _ := args.Get(0).([]model.DailyTotal)
	return totals, args.Error(1)
}

func (m *mockStore) TotalSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	args := m.Called(ctx, userID, since)
	return args.Int(0), args.Error(1)
}

func TestReportStoreErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("database is locked")

	t.Run("settings", func(t *testing.T) {
		m := &mockStore{}
		m.On("GetUserSettings", ctx, int64(1)).Return(nil, boom)
		_, err := NewService(m, time.UTC).Report(ctx, 1, model.PeriodToday)
		assert.ErrorIs(t, err, boom)
		m.AssertNotCalled(t, "DailyTotals", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("totals", func(t *testing.T) {
		m := &mockStore{}
		m.On("GetUserSettings", ctx, int64(1)).Return(nil, db.ErrNotFound)
		since := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)
		m.On("DailyTotals", ctx, int64(1), since).Return(nil, boom)

		svc := NewService(m, time.UTC, WithClock(func() time.Time { return testNow }))
		_, err := svc.Report(ctx, 1, model.PeriodToday)
		assert.ErrorIs(t, err, boom)
		m.AssertExpectations(t)
	})
}
