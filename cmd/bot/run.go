package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"wateryy/internal/bot"
	"wateryy/internal/cache"
	"wateryy/internal/config"
	"wateryy/internal/db"
	"wateryy/internal/logger"
	"wateryy/internal/metrics"
	"wateryy/internal/reminders"
	"wateryy/internal/stats"
)

// setup loads config, builds the logger and opens the store.
func setup(ctx context.Context) (*config.Config, *zerolog.Logger, db.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	l, err := logger.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	if err != nil {
		return nil, nil, nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, nil, err
	}

	store, err := db.Open(ctx, cfg.Database.URL, loc, &l)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = store.PingContext(pingCtx); err != nil {
		store.Close()
		return nil, nil, nil, fmt.Errorf("ping database: %w", err)
	}

	return cfg, &l, store, nil
}

func runBot(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logger, store, err := setup(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	loc, _ := cfg.Location()

	var (
		rdb     *redis.Client
		guard   cache.OnceGuard
		limiter cache.RateLimiter
		locker  reminders.Locker
	)
	if cfg.Redis.Address != "" {
		rdb, err = cache.NewRedisClient(ctx, cache.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.Address).Msg("Redis unavailable, using in-process guards")
		}
	}
	if rdb != nil {
		defer rdb.Close()
		guard = cache.NewRedisGuard(rdb, "confirm", 48*time.Hour)
		limiter = cache.NewRedisRateLimiter(rdb, cfg.RateLimit.CommandsPerMinute, time.Minute)
		locker = cache.NewRedisLocker(rdb)
	} else {
		guard = cache.NewMemoryGuard(48 * time.Hour)
		limiter = cache.NewMemoryRateLimiter(cfg.RateLimit.CommandsPerMinute, time.Minute)
	}

	metrics.Register()

	b, err := bot.New(cfg.Telegram.BotToken, bot.Deps{
		Store:                store,
		Stats:                stats.NewService(store, loc),
		Guard:                guard,
		Limiter:              limiter,
		MaxConcurrentUpdates: cfg.Telegram.MaxConcurrentUpdates,
		Logger:               logger,
		Debug:                cfg.Telegram.Debug,
		APIEndpoint:          cfg.Telegram.APIEndpoint,
	})
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	// Background workers touch the store; wait for them before it closes.
	var wg sync.WaitGroup
	defer wg.Wait()

	go startOpsServer(ctx, cfg.Monitoring.Port, newOpsRouter(store, rdb), logger)

	if sqlite, ok := store.(*db.DB); ok && cfg.Backup.Enabled {
		backups := db.NewBackupService(sqlite, db.BackupConfig{
			Enabled:       true,
			Interval:      cfg.BackupInterval(),
			StoragePath:   cfg.Backup.Path,
			RetentionDays: cfg.Backup.RetentionDays,
		}, logger)
		goWorker(ctx, &wg, backups.Start)
	} else if cfg.Backup.Enabled {
		logger.Info().Msg("Backups are only supported for SQLite, skipping")
	}

	sender := reminders.NewSender(b, reminders.SenderConfig{
		SendsPerSecond: cfg.Reminders.SendsPerSecond,
		Burst:          cfg.Reminders.Burst,
	}, logger)
	scheduler := reminders.NewScheduler(reminders.Config{
		CheckInterval:      cfg.Reminders.CheckInterval,
		MaxConcurrentSends: cfg.Reminders.MaxConcurrentSends,
	}, store, sender, locker, logger)
	goWorker(ctx, &wg, scheduler.Start)

	logger.Info().
		Str("database", dbKind(cfg.Database.URL)).
		Bool("redis", rdb != nil).
		Dur("check_interval", cfg.Reminders.CheckInterval).
		Msg("Water reminder bot started")

	b.Start(ctx)

	logger.Info().Msg("Shutting down")
	stop()
	return nil
}

func dbKind(url string) string {
	if db.IsPostgresURL(url) {
		return "postgres"
	}
	return "sqlite"
}

// goWorker runs fn on its own goroutine tracked by wg.
func goWorker(ctx context.Context, wg *sync.WaitGroup, fn func(context.Context)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		fn(ctx)
	}()
}
