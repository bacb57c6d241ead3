// Package stats aggregates logged intake into period reports.
package stats

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"wateryy/internal/chart"
	"wateryy/internal/db"
	"wateryy/internal/hydration"
	"wateryy/internal/model"
)

var (
	// ErrRender wraps chart failures so callers can tell them from storage errors.
	ErrRender = errors.New("render chart")
	// ErrNoBodyMetrics means weight or height has not been set.
	ErrNoBodyMetrics = errors.New("body metrics not set")
)

// Store is the subset of db.Store the service reads.
type Store interface {
	GetUserSettings(ctx context.Context, userID int64) (*model.UserSettings, error)
	DailyTotals(ctx context.Context, userID int64, since time.Time) ([]model.DailyTotal, error)
	TotalSince(ctx context.Context, userID int64, since time.Time) (int, error)
}

// RenderFunc draws the chart image for a report.
type RenderFunc func(title string, totals []model.DailyTotal, goal int) ([]byte, error)

// Report is the outcome of a stats request. Totals is empty when nothing was logged.
type Report struct {
	Period  model.Period
	Title   string
	Totals  []model.DailyTotal
	Total   int
	Average int
	Goal    int
	Chart   []byte
}

// Empty reports whether the period has no logged intake.
func (r *Report) Empty() bool {
	return len(r.Totals) == 0
}

// IntakeInfo summarises today's progress against the personal goal.
type IntakeInfo struct {
	WeightKG   float64
	HeightCM   float64
	BMI        hydration.BMIInfo
	Goal       int
	Today      int
	Percentage float64
	Remaining  int
}

type Service struct {
	store  Store
	render RenderFunc
	loc    *time.Location
	now    func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRenderer overrides chart rendering.
func WithRenderer(r RenderFunc) Option {
	return func(s *Service) { s.render = r }
}

func NewService(store Store, loc *time.Location, opts ...Option) *Service {
	if loc == nil {
		loc = time.Local
	}
	s := &Service{store: store, render: chart.DailyIntake, loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) goal(ctx context.Context, userID int64) (int, *model.UserSettings, error) {
	settings, err := s.store.GetUserSettings(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		return hydration.DefaultDailyGoal, nil, nil
	}
	if err != nil {
		return 0, nil, err
	}
	return hydration.GoalFor(settings), settings, nil
}

// Report builds the stats for period. The chart is rendered only when data exists.
func (s *Service) Report(ctx context.Context, userID int64, period model.Period) (*Report, error) {
	goal, _, err := s.goal(ctx, userID)
	if err != nil {
		return nil, err
	}

	since := hydration.PeriodStart(period, s.now().In(s.loc))
	totals, err := s.store.DailyTotals(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	r := &Report{Period: period, Title: period.Title(), Totals: totals, Goal: goal}
	if r.Empty() {
		return r, nil
	}

	for _, t := range totals {
		r.Total += t.Total
	}
	r.Average = int(math.Round(float64(r.Total) / float64(len(totals))))

	img, err := s.render(r.Title, totals, goal)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	r.Chart = img
	return r, nil
}

// Intake reports today's progress. ErrNoBodyMetrics when weight or height is missing.
func (s *Service) Intake(ctx context.Context, userID int64) (*IntakeInfo, error) {
	goal, settings, err := s.goal(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !settings.HasBodyMetrics() {
		return nil, ErrNoBodyMetrics
	}

	bmi, _ := hydration.BMI(settings.WeightKG, settings.HeightCM)
	since := hydration.PeriodStart(model.PeriodToday, s.now().In(s.loc))
	today, err := s.store.TotalSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	return &IntakeInfo{
		WeightKG:   *settings.WeightKG,
		HeightCM:   *settings.HeightCM,
		BMI:        bmi,
		Goal:       goal,
		Today:      today,
		Percentage: float64(today) / float64(goal) * 100,
		Remaining:  max(0, goal-today),
	}, nil
}
