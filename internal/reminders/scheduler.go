package reminders

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"wateryy/internal/metrics"
)

const scanLockKey = "reminder-scan"

// Config holds configuration for the reminder scheduler.
type Config struct {
	// CheckInterval is how often active reminders are scanned.
	CheckInterval time.Duration
	// MaxConcurrentSends limits parallel deliveries within a cycle.
	MaxConcurrentSends int
}

// DefaultConfig returns the default scheduler configuration.
func DefaultConfig() Config {
	return Config{
		CheckInterval:      time.Minute,
		MaxConcurrentSends: 4,
	}
}

// CycleResult summarises one scan.
type CycleResult struct {
	Total    int
	Due      int
	Sent     int
	Failed   int
	Skipped  bool
	Duration time.Duration
}

// Scheduler scans active reminders on a ticker and delivers the due ones.
type Scheduler struct {
	config Config
	store  Store
	sender *Sender
	locker Locker
	logger *zerolog.Logger
	now    func() time.Time

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler. locker may be nil for single-replica setups.
func NewScheduler(cfg Config, store Store, sender *Sender, locker Locker, logger *zerolog.Logger) *Scheduler {
	def := DefaultConfig()
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = def.CheckInterval
	}
	if cfg.MaxConcurrentSends <= 0 {
		cfg.MaxConcurrentSends = def.MaxConcurrentSends
	}
	return &Scheduler{
		config: cfg,
		store:  store,
		sender: sender,
		locker: locker,
		logger: logger,
		now:    time.Now,
	}
}

// Start runs a cycle immediately and then on every tick until ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	s.logger.Info().
		Dur("interval", s.config.CheckInterval).
		Int("max_concurrent_sends", s.config.MaxConcurrentSends).
		Msg("reminder scheduler started")

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	s.RunCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("reminder scheduler stopped")
			return
		case <-ticker.C:
			s.RunCycle(ctx)
		}
	}
}

// IsRunning returns whether the scheduler loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// RunCycle performs a single scan. Per-user failures never abort the cycle.
func (s *Scheduler) RunCycle(ctx context.Context) CycleResult {
	start := time.Now()
	var res CycleResult

	if s.locker != nil {
		ok, err := s.locker.TryLock(ctx, scanLockKey, s.config.CheckInterval*9/10)
		if err != nil {
			s.logger.Warn().Err(err).Msg("scan lock unavailable, scanning anyway")
		} else if !ok {
			res.Skipped = true
			metrics.ObserveReminderCycle("skipped", time.Since(start).Seconds())
			s.logger.Debug().Msg("reminder scan held by another replica")
			return res
		}
	}

	users, err := s.store.ListActiveReminders(ctx)
	if err != nil {
		metrics.ObserveReminderCycle("error", time.Since(start).Seconds())
		s.logger.Error().Err(err).Msg("failed to fetch active reminders")
		return res
	}
	res.Total = len(users)

	now := s.now()
	sem := make(chan struct{}, s.config.MaxConcurrentSends)
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for i := range users {
		u := users[i]
		if !u.ReminderDue(now) {
			continue
		}
		res.Due++

		select {
		case <-ctx.Done():
			s.logger.Info().Int("remaining", res.Total-i).Msg("reminder cycle interrupted")
			wg.Wait()
			return res
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			if err := s.sender.Send(ctx, u.UserID, u.WaterAmount); err != nil {
				s.logger.Error().Err(err).Int64("user_id", u.UserID).Msg("failed to send reminder")
				mu.Lock()
				res.Failed++
				mu.Unlock()
				return
			}
			// The message is already out; record it even if shutdown began.
			if err := s.store.MarkReminded(context.WithoutCancel(ctx), u.UserID, now); err != nil {
				s.logger.Error().Err(err).Int64("user_id", u.UserID).Msg("failed to mark reminder as sent (notification was sent)")
			}
			mu.Lock()
			res.Sent++
			mu.Unlock()
		}()
	}
	wg.Wait()

	res.Duration = time.Since(start)
	metrics.ObserveReminderCycle("ok", res.Duration.Seconds())
	ev := s.logger.Info()
	if res.Due == 0 {
		ev = s.logger.Debug()
	}
	ev.
		Int("total", res.Total).
		Int("due", res.Due).
		Int("sent", res.Sent).
		Int("failed", res.Failed).
		Dur("duration", res.Duration).
		Msg("reminder cycle finished")
	return res
}
